package deactivate_slot_block

import (
	"context"
)

type CatalogService interface {
	DeactivateSlotBlock(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
