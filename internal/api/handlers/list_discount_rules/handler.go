package list_discount_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog"
)

const (
	msgInvalidRuleID = "некорректный ID пакетной скидки"
	msgNotFound      = "пакетная скидка не найдена"
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

// Handle GET /api/v1/admin/discount-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListActiveDiscountRules(r.Context())
	if err != nil {
		h.logger.Error("GET /admin/discount-rules - Failed to list rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/discount-rules - Rules retrieved successfully: count=%d", len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleGet GET /api/v1/admin/discount-rules/{ruleId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ruleID, err := handlers.PathInt64(r, "ruleId")
	if err != nil {
		h.logger.Warn("GET /admin/discount-rules/{id} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	result, err := h.service.GetDiscountRule(r.Context(), ruleID)
	if err != nil {
		if errors.Is(err, catalog.ErrRuleNotFound) {
			h.logger.Warn("GET /admin/discount-rules/{id} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}

		h.logger.Error("GET /admin/discount-rules/{id} - Failed to get rule: rule_id=%d, error=%v", ruleID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
