package change_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/checkout"
	changeBooking "github.com/m04kA/SMC-SpaBookingService/internal/usecase/change_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidFormat      = "ожидается дата YYYY-MM-DD и слот HH:MM"
	msgInvalidData        = "некорректные данные изменения"
	msgInvalidDate        = "дата бронирования в прошлом"
	msgNotFound           = "бронирование не найдено"
	msgCannotChange       = "бронирование не может быть изменено"
	msgServiceNotFound    = "услуга не найдена"
	msgConflict           = "конкурентное изменение, повторите запрос"
	msgStorageError       = "хранилище временно недоступно"
)

type Handler struct {
	useCase ChangeBookingUseCase
	logger  Logger
}

func NewHandler(useCase ChangeBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req ChangeBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rejection *changeBooking.RejectionError
		switch {
		case errors.As(err, &rejection):
			status, msg := checkout.RejectionStatus(rejection.Reason)
			h.logger.Warn("PUT /bookings/{id} - Rejected: booking_id=%d, reason=%s", bookingID, rejection.Reason)
			handlers.RespondRejection(w, status, msg, string(rejection.Reason), nil)

		case errors.Is(err, changeBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{id} - Invalid data: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, changeBooking.ErrInvalidDate):
			h.logger.Warn("PUT /bookings/{id} - Invalid date: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, changeBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, changeBooking.ErrServiceNotFound):
			h.logger.Warn("PUT /bookings/{id} - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, changeBooking.ErrCannotChange):
			h.logger.Warn("PUT /bookings/{id} - Cannot change: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotChange)

		case errors.Is(err, changeBooking.ErrConflict):
			h.logger.Warn("PUT /bookings/{id} - Conflict: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgConflict)

		case errors.Is(err, changeBooking.ErrStorage):
			h.logger.Error("PUT /bookings/{id} - Storage error: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondServiceUnavailable(w, msgStorageError)

		default:
			h.logger.Error("PUT /bookings/{id} - Failed to change booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{id} - Booking changed: booking_id=%d, new_booking_id=%d",
		bookingID, result.Booking.ID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
