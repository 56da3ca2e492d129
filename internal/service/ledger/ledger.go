package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Ledger считает занятую вместимость слота по активным бронированиям
// Значения не кешируются: каждый вызов читает хранилище заново
type Ledger struct {
	repo BookingRepository
}

// New создает ledger
func New(repo BookingRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Committed возвращает сумму гостей активных бронирований (услуга, дата, слот)
// excludeBookingID исключает редактируемое бронирование. Без бронирований - 0
// Любая ошибка хранилища оборачивается в ErrStorageUnavailable
func (l *Ledger) Committed(ctx context.Context, serviceID int64, date time.Time, slot types.TimeString, excludeBookingID *int64) (int, error) {
	key := domain.SlotKey{ServiceID: serviceID, Date: types.DateOnly(date), Slot: slot}

	committed, err := l.repo.SumPartySize(ctx, key, excludeBookingID)
	if err != nil {
		return 0, fmt.Errorf("%w: Committed - %s: %v", ErrStorageUnavailable, key, err)
	}

	return committed, nil
}

// CommittedBySlot возвращает занятость всех слотов услуги на дату
func (l *Ledger) CommittedBySlot(ctx context.Context, serviceID int64, date time.Time) (map[types.TimeString]int, error) {
	committed, err := l.repo.SumPartySizeBySlot(ctx, serviceID, types.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("%w: CommittedBySlot - service=%d date=%s: %v",
			ErrStorageUnavailable, serviceID, date.Format(domain.DateFormat), err)
	}

	return committed, nil
}
