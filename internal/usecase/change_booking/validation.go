package change_booking

import (
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.Date == nil && req.Slot == nil && req.PartySize == nil {
		return fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}
	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date is empty", ErrInvalidInput)
	}
	if req.Slot != nil {
		if err := req.Slot.Validate(); err != nil {
			return fmt.Errorf("%w: invalid slot: %v", ErrInvalidInput, err)
		}
	}
	if req.PartySize != nil && (*req.PartySize <= 0 || *req.PartySize > domain.MaxPartySizeLimit) {
		return fmt.Errorf("%w: party size must be between 1 and %d", ErrInvalidInput, domain.MaxPartySizeLimit)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}
	return nil
}
