package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request предлагаемое бронирование
type Request struct {
	Date             time.Time
	Slot             types.TimeString
	PartySize        int
	ExcludeBookingID *int64
}

// Checker принимает решение о доступности слота
// Сам ничего не сохраняет: при оформлении вызывается повторно внутри транзакции вставки
type Checker struct {
	ledger  CapacityLedger
	blocks  BlockRepository
	metrics Metrics
	logger  Logger
}

// NewChecker создает checker. blocks и metrics могут быть nil
func NewChecker(ledger CapacityLedger, blocks BlockRepository, metrics Metrics, logger Logger) *Checker {
	return &Checker{
		ledger:  ledger,
		blocks:  blocks,
		metrics: metrics,
		logger:  logger,
	}
}

// Check возвращает решение с причиной отказа
//
// Порядок проверок:
//  1. PartySize <= 0 - ошибка ErrInvalidPartySize (решения нет)
//  2. слот отсутствует в меню дня недели - SLOT_NOT_OFFERED
//  3. слот закрыт блокировкой - SLOT_BLOCKED
//  4. гостей меньше минимума услуги - BELOW_MINIMUM_PARTY
//  5. committed + PartySize > MaxPartySize - CAPACITY_EXCEEDED
//
// Ошибка хранилища дает решение STORAGE_ERROR и ошибку ErrStorageUnavailable;
// такое решение никогда не считается доступным
func (c *Checker) Check(ctx context.Context, service *domain.Service, req Request) (domain.Decision, error) {
	if service == nil {
		return domain.Decision{}, ErrServiceRequired
	}
	if req.PartySize <= 0 {
		return domain.Decision{}, fmt.Errorf("%w: got %d", ErrInvalidPartySize, req.PartySize)
	}

	capacity := service.MaxPartySize

	if !service.OffersSlot(req.Date, req.Slot) {
		return c.record(domain.Reject(domain.ReasonSlotNotOffered, 0, capacity)), nil
	}

	blocked, err := c.isBlocked(ctx, service.ID, req.Date, req.Slot)
	if err != nil {
		c.logger.Error("Check: failed to load slot blocks for service=%d date=%s: %v",
			service.ID, req.Date.Format(domain.DateFormat), err)
		return c.record(domain.Reject(domain.ReasonStorageError, 0, capacity)),
			fmt.Errorf("%w: Check - load blocks: %v", ErrStorageUnavailable, err)
	}
	if blocked {
		return c.record(domain.Reject(domain.ReasonSlotBlocked, 0, capacity)), nil
	}

	if req.PartySize < service.MinPartySize {
		return c.record(domain.Reject(domain.ReasonBelowMinimumParty, 0, capacity)), nil
	}

	committed, err := c.ledger.Committed(ctx, service.ID, req.Date, req.Slot, req.ExcludeBookingID)
	if err != nil {
		c.logger.Error("Check: ledger failed for service=%d date=%s slot=%s: %v",
			service.ID, req.Date.Format(domain.DateFormat), req.Slot, err)
		return c.record(domain.Reject(domain.ReasonStorageError, 0, capacity)),
			fmt.Errorf("%w: Check - committed capacity: %v", ErrStorageUnavailable, err)
	}

	// Ровно заполнить вместимость можно
	if committed+req.PartySize > capacity {
		return c.record(domain.Reject(domain.ReasonCapacityExceeded, committed, capacity)), nil
	}

	return c.record(domain.Accept(committed, capacity)), nil
}

// IsAvailable короткая форма Check; любая ошибка означает "недоступно"
func (c *Checker) IsAvailable(ctx context.Context, service *domain.Service, req Request) bool {
	decision, err := c.Check(ctx, service, req)
	return err == nil && decision.Available
}

func (c *Checker) isBlocked(ctx context.Context, serviceID int64, date time.Time, slot types.TimeString) (bool, error) {
	if c.blocks == nil {
		return false, nil
	}

	blocks, err := c.blocks.GetActiveForDate(ctx, serviceID, types.DateOnly(date))
	if err != nil {
		return false, err
	}

	for _, b := range blocks {
		if b.Covers(date, slot) {
			return true, nil
		}
	}
	return false, nil
}

func (c *Checker) record(d domain.Decision) domain.Decision {
	if c.metrics != nil {
		c.metrics.RecordAvailability(string(d.Reason))
	}
	return d
}
