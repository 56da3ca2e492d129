package checkout

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Service, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	LockSlot(ctx context.Context, key domain.SlotKey) error
}

// AvailabilityChecker проверка доступности слота
type AvailabilityChecker interface {
	Check(ctx context.Context, service *domain.Service, req availability.Request) (domain.Decision, error)
}

// PackResolver расчет пакетных скидок по снимку правил
type PackResolver interface {
	Snapshot(ctx context.Context) ([]*domain.DiscountRule, error)
	ResolveWith(cart domain.Cart, rules []*domain.DiscountRule) domain.Resolution
}

// EventPublisher интерфейс публикации доменных событий
type EventPublisher interface {
	CheckoutCompleted(ctx context.Context, e events.CheckoutCompleted) error
}

// Metrics счетчик созданных бронирований
type Metrics interface {
	RecordBookings(source string, n int)
}

// TransactionManager интерфейс для управления транзакциями
// Оформление идет в READ COMMITTED: каждый запрос после advisory-блокировки
// видит строки, зафиксированные предыдущим владельцем блокировки
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
