package catalog

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, id int64, service *domain.Service) (*domain.Service, error)
}

// RuleRepository интерфейс репозитория пакетных скидок
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.DiscountRule) (*domain.DiscountRule, error)
	GetByID(ctx context.Context, id int64) (*domain.DiscountRule, error)
	GetActive(ctx context.Context) ([]*domain.DiscountRule, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// BlockRepository интерфейс репозитория блокировок слотов
type BlockRepository interface {
	Create(ctx context.Context, block *domain.SlotBlock) (*domain.SlotBlock, error)
	Deactivate(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
