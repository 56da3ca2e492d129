package set_discount_rule_active

import (
	"context"
)

type CatalogService interface {
	SetDiscountRuleActive(ctx context.Context, id int64, active bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
