package checkout

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxLines int) error {
	if len(req.Lines) == 0 {
		return fmt.Errorf("%w: cart has no service lines", ErrInvalidInput)
	}

	if maxLines > 0 && len(req.Lines) > maxLines {
		return fmt.Errorf("%w: cart has %d lines, limit is %d", ErrInvalidInput, len(req.Lines), maxLines)
	}

	for i, line := range req.Lines {
		if line.ServiceID <= 0 {
			return fmt.Errorf("%w: line %d: serviceID must be positive", ErrInvalidInput, i)
		}

		if line.Date.IsZero() {
			return fmt.Errorf("%w: line %d: date is required", ErrInvalidInput, i)
		}

		// Ноль гостей - некорректный ввод, а не отказ BELOW_MINIMUM_PARTY
		if line.PartySize <= 0 {
			return fmt.Errorf("%w: line %d: party size must be positive", ErrInvalidInput, i)
		}

		if line.PartySize > domain.MaxPartySizeLimit {
			return fmt.Errorf("%w: line %d: party size is too large", ErrInvalidInput, i)
		}

		if err := line.Slot.Validate(); err != nil {
			return fmt.Errorf("%w: line %d: invalid slot format: %v", ErrInvalidInput, i, err)
		}
	}

	for _, gc := range req.GiftCards {
		if gc.Amount <= 0 {
			return fmt.Errorf("%w: gift card %s: amount must be positive", ErrInvalidInput, gc.Code)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are too long", ErrInvalidInput)
	}

	return nil
}

// validateDates проверяет, что ни одна строка не датирована прошлым днем
func validateDates(lines []Line, now time.Time) error {
	today := types.DateOnly(now)
	for i, line := range lines {
		if types.DateOnly(line.Date).Before(today) {
			return fmt.Errorf("%w: line %d: %s is in the past", ErrInvalidDate, i, line.Date.Format(domain.DateFormat))
		}
	}
	return nil
}
