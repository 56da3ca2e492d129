package quote_cart

import (
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// validateRequest проверяет форму корзины
// Пустая корзина допустима: расчет вернет нули
func validateRequest(req *Request, maxLines int) error {
	if maxLines > 0 && len(req.Lines) > maxLines {
		return fmt.Errorf("%w: too many lines (%d > %d)", ErrInvalidInput, len(req.Lines), maxLines)
	}

	for i, line := range req.Lines {
		if line.ServiceID <= 0 {
			return fmt.Errorf("%w: line %d: serviceID must be positive", ErrInvalidInput, i)
		}
		if line.Date.IsZero() {
			return fmt.Errorf("%w: line %d: date is required", ErrInvalidInput, i)
		}
		if line.PartySize <= 0 || line.PartySize > domain.MaxPartySizeLimit {
			return fmt.Errorf("%w: line %d: party size must be between 1 and %d", ErrInvalidInput, i, domain.MaxPartySizeLimit)
		}
		if err := line.Slot.Validate(); err != nil {
			return fmt.Errorf("%w: line %d: invalid slot: %v", ErrInvalidInput, i, err)
		}
	}

	for i, gc := range req.GiftCards {
		if gc.Amount <= 0 {
			return fmt.Errorf("%w: gift card %d: amount must be positive", ErrInvalidInput, i)
		}
	}

	return nil
}
