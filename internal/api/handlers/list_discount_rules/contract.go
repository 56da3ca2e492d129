package list_discount_rules

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	ListActiveDiscountRules(ctx context.Context) (*models.DiscountRuleListResponse, error)
	GetDiscountRule(ctx context.Context, id int64) (*models.DiscountRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
