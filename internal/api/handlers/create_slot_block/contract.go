package create_slot_block

import (
	"context"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
)

type CatalogService interface {
	CreateSlotBlock(ctx context.Context, req *models.CreateSlotBlockRequest) (*models.SlotBlockResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
