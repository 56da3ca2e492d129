package create_discount_rule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные пакетной скидки"
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

// Handle POST /api/v1/admin/discount-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDiscountRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/discount-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateDiscountRule(r.Context(), &req)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			h.logger.Warn("POST /admin/discount-rules - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)
			return
		}

		h.logger.Error("POST /admin/discount-rules - Failed to create rule: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /admin/discount-rules - Rule created successfully: rule_id=%d, name=%q", result.ID, result.Name)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
