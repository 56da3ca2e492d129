package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SpaBookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidPartySize = "размер группы должен быть положительным числом"
	msgServiceNotFound  = "услуга не найдена"
	msgStorageError     = "хранилище временно недоступно"
)

var errInvalidPartySize = errors.New("invalid party size")

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/slots
// Query params: date (required, YYYY-MM-DD), partySize (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := handlers.PathInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /services/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq.PartySize, err = parsePartySize(r.URL.Query().Get("partySize"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/slots - Invalid party size: %s", r.URL.Query().Get("partySize"))
		handlers.RespondBadRequest(w, msgInvalidPartySize)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/slots - Invalid data: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrInternal):
			h.logger.Error("GET /services/{id}/slots - Storage error: service_id=%d, error=%v", serviceID, err)
			handlers.RespondServiceUnavailable(w, msgStorageError)

		default:
			h.logger.Error("GET /services/{id}/slots - Failed to get slots: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/slots - Slots retrieved: service_id=%d, slots_count=%d",
		serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
