package packs

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// RuleRepository источник активных пакетных скидок
type RuleRepository interface {
	GetActive(ctx context.Context) ([]*domain.DiscountRule, error)
}

// Metrics счетчик примененных скидок
type Metrics interface {
	RecordDiscount(rule string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
