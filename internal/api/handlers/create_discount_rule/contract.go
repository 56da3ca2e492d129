package create_discount_rule

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateDiscountRule(ctx context.Context, req *models.CreateDiscountRuleRequest) (*models.DiscountRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
