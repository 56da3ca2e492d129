package checkout

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	checkoutUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/checkout"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLine        = "некорректная позиция корзины: ожидается дата YYYY-MM-DD и слот HH:MM"
	msgInvalidData        = "некорректные данные корзины"
	msgInvalidDate        = "дата бронирования в прошлом"
	msgServiceNotFound    = "услуга не найдена"
	msgSlotNotOffered     = "слот не предлагается в выбранный день"
	msgSlotBlocked        = "слот закрыт"
	msgBelowMinimumParty  = "гостей меньше минимума услуги"
	msgCapacityExceeded   = "в слоте недостаточно мест"
	msgConflict           = "конкурентное изменение, повторите запрос"
	msgStorageError       = "хранилище временно недоступно"
)

type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /checkout - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLine)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, err, len(req.Lines))
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /checkout - Checkout completed: checkout_ref=%s, bookings=%d, total=%d",
		result.CheckoutRef, len(result.Bookings), result.Resolution.Total)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, lines int) {
	var rejection *checkoutUC.RejectionError
	if errors.As(err, &rejection) {
		var line *int
		if rejection.LineIndex >= 0 {
			line = &rejection.LineIndex
		}
		status, msg := RejectionStatus(rejection.Reason)
		h.logger.Warn("POST /checkout - Rejected: reason=%s, line=%d, lines=%d", rejection.Reason, rejection.LineIndex, lines)
		handlers.RespondRejection(w, status, msg, string(rejection.Reason), line)
		return
	}

	switch {
	case errors.Is(err, checkoutUC.ErrInvalidInput):
		h.logger.Warn("POST /checkout - Invalid data: %v", err)
		handlers.RespondBadRequest(w, msgInvalidData)

	case errors.Is(err, checkoutUC.ErrInvalidDate):
		h.logger.Warn("POST /checkout - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)

	case errors.Is(err, checkoutUC.ErrServiceNotFound):
		h.logger.Warn("POST /checkout - Service not found: %v", err)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, checkoutUC.ErrConflict):
		h.logger.Warn("POST /checkout - Conflict: %v", err)
		handlers.RespondConflict(w, msgConflict)

	case errors.Is(err, checkoutUC.ErrStorage):
		h.logger.Error("POST /checkout - Storage error: %v", err)
		handlers.RespondRejection(w, http.StatusServiceUnavailable, msgStorageError, string(domain.ReasonStorageError), nil)

	default:
		h.logger.Error("POST /checkout - Failed to checkout: %v", err)
		handlers.RespondInternalError(w)
	}
}

// RejectionStatus HTTP статус и сообщение для причины отказа
func RejectionStatus(reason domain.Reason) (int, string) {
	switch reason {
	case domain.ReasonSlotNotOffered:
		return http.StatusUnprocessableEntity, msgSlotNotOffered
	case domain.ReasonSlotBlocked:
		return http.StatusUnprocessableEntity, msgSlotBlocked
	case domain.ReasonBelowMinimumParty:
		return http.StatusUnprocessableEntity, msgBelowMinimumParty
	case domain.ReasonCapacityExceeded:
		return http.StatusConflict, msgCapacityExceeded
	default:
		return http.StatusServiceUnavailable, msgStorageError
	}
}
