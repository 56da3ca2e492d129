package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_availability"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidQuery     = "ожидаются параметры date (YYYY-MM-DD), slot (HH:MM) и partySize"
	msgInvalidData      = "некорректные параметры проверки"
	msgServiceNotFound  = "услуга не найдена"
	msgStorageError     = "хранилище временно недоступно"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
// Отказ по вместимости или расписанию - это 200 с available=false и причиной
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/availability - Invalid data: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, checkAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, checkAvailability.ErrStorage):
			h.logger.Error("GET /services/{id}/availability - Storage error: service_id=%d, error=%v", serviceID, err)
			if result != nil {
				handlers.RespondJSON(w, http.StatusServiceUnavailable, FromUseCaseResponse(result))
				return
			}
			handlers.RespondServiceUnavailable(w, msgStorageError)

		default:
			h.logger.Error("GET /services/{id}/availability - Failed to check: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/availability - service_id=%d, slot=%s, available=%t, reason=%s",
		serviceID, result.Slot, result.Decision.Available, result.Decision.Reason)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
