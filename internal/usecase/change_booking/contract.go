package change_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
	LockSlot(ctx context.Context, key domain.SlotKey) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// AvailabilityChecker проверка доступности слота
type AvailabilityChecker interface {
	Check(ctx context.Context, service *domain.Service, req availability.Request) (domain.Decision, error)
}

// EventPublisher публикация событий после коммита
type EventPublisher interface {
	BookingChanged(ctx context.Context, e events.BookingChanged) error
}

// TransactionManager интерфейс для управления транзакциями
// Замена идет в READ COMMITTED, чтобы проверка после блокировки слота видела свежие брони
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик созданных бронирований
type Metrics interface {
	RecordBookings(source string, n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
