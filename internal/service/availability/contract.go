package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// CapacityLedger источник занятости слота
type CapacityLedger interface {
	Committed(ctx context.Context, serviceID int64, date time.Time, slot types.TimeString, excludeBookingID *int64) (int, error)
}

// BlockRepository источник административных блокировок слотов
type BlockRepository interface {
	GetActiveForDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.SlotBlock, error)
}

// Metrics счетчик решений
type Metrics interface {
	RecordAvailability(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
