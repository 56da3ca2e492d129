package get_checkout_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings"
)

const (
	msgInvalidCheckoutRef = "некорректный номер оформления"
	msgNotFound           = "оформление не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/checkouts/{checkoutRef}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	checkoutRef := mux.Vars(r)["checkoutRef"]

	result, err := h.service.ListByCheckout(r.Context(), checkoutRef)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /checkouts/{ref}/bookings - Invalid checkout ref: %q", checkoutRef)
			handlers.RespondBadRequest(w, msgInvalidCheckoutRef)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /checkouts/{ref}/bookings - Checkout not found: checkout_ref=%s", checkoutRef)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /checkouts/{ref}/bookings - Failed to get bookings: checkout_ref=%s, error=%v",
				checkoutRef, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /checkouts/{ref}/bookings - Bookings retrieved successfully: checkout_ref=%s, count=%d",
		checkoutRef, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
