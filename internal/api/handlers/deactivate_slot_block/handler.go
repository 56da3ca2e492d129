package deactivate_slot_block

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog"
)

const (
	msgInvalidBlockID = "некорректный ID блокировки"
	msgNotFound       = "блокировка не найдена"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/slot-blocks/{blockId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	blockID, err := handlers.PathInt64(r, "blockId")
	if err != nil {
		h.logger.Warn("DELETE /admin/slot-blocks/{id} - Invalid block ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlockID)
		return
	}

	if err := h.service.DeactivateSlotBlock(r.Context(), blockID); err != nil {
		if errors.Is(err, catalog.ErrBlockNotFound) {
			h.logger.Warn("DELETE /admin/slot-blocks/{id} - Block not found: block_id=%d", blockID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("DELETE /admin/slot-blocks/{id} - Failed to deactivate block: block_id=%d, error=%v", blockID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /admin/slot-blocks/{id} - Block deactivated: block_id=%d", blockID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
