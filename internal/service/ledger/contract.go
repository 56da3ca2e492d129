package ledger

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// BookingRepository источник данных о занятости слотов
type BookingRepository interface {
	SumPartySize(ctx context.Context, key domain.SlotKey, excludeBookingID *int64) (int, error)
	SumPartySizeBySlot(ctx context.Context, serviceID int64, date time.Time) (map[types.TimeString]int, error)
}
