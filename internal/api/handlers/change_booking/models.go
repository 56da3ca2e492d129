package change_booking

import (
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	changeBooking "github.com/m04kA/SMC-SpaBookingService/internal/usecase/change_booking"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// ChangeBookingRequest HTTP request model; незаданные поля не меняются
type ChangeBookingRequest struct {
	Date      *string `json:"date,omitempty"`
	Slot      *string `json:"slot,omitempty"`
	PartySize *int    `json:"partySize,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ChangeBookingResponse HTTP response model
type ChangeBookingResponse struct {
	Previous *models.BookingResponse `json:"previous"`
	Booking  *models.BookingResponse `json:"booking"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeBookingRequest) ToUseCaseRequest(bookingID int64) (*changeBooking.Request, error) {
	req := &changeBooking.Request{
		BookingID: bookingID,
		PartySize: r.PartySize,
		Notes:     r.Notes,
	}

	if r.Date != nil {
		date, err := types.ParseDate(*r.Date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.Date = &date
	}

	if r.Slot != nil {
		slot, err := types.NewTimeStringFromString(*r.Slot)
		if err != nil {
			return nil, fmt.Errorf("slot: %w", err)
		}
		req.Slot = &slot
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeBooking.Response) *ChangeBookingResponse {
	return &ChangeBookingResponse{
		Previous: models.FromDomainBooking(resp.Previous),
		Booking:  models.FromDomainBooking(resp.Booking),
	}
}
