package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.PartySize < 0 {
		return fmt.Errorf("%w: partySize must not be negative", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// isDateInPast проверяет, что дата раньше сегодняшней
func isDateInPast(date, now time.Time) bool {
	return types.DateOnly(date).Before(types.DateOnly(now))
}
