package bookings

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByCheckoutRef(ctx context.Context, checkoutRef string) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	BookingCancelled(ctx context.Context, e events.BookingCancelled) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
