package set_discount_rule_active

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog"
)

const (
	msgInvalidRuleID      = "некорректный ID пакетной скидки"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "пакетная скидка не найдена"
)

// SetActiveRequest HTTP request model
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

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

// Handle PATCH /api/v1/admin/discount-rules/{ruleId}/active
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("PATCH /admin/discount-rules/{id}/active - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	var req SetActiveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || req.Active == nil {
		h.logger.Warn("PATCH /admin/discount-rules/{id}/active - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetDiscountRuleActive(r.Context(), ruleID, *req.Active); err != nil {
		if errors.Is(err, catalog.ErrRuleNotFound) {
			h.logger.Warn("PATCH /admin/discount-rules/{id}/active - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("PATCH /admin/discount-rules/{id}/active - Failed to update rule: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PATCH /admin/discount-rules/{id}/active - Rule updated: rule_id=%d, active=%t", ruleID, *req.Active)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
