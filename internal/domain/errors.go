package domain

import "errors"

var (
	ErrInvalidService      = errors.New("domain: invalid service")
	ErrInvalidDiscountRule = errors.New("domain: invalid discount rule")
	ErrInvalidSlotBlock    = errors.New("domain: invalid slot block")
	ErrUnknownCategory     = errors.New("domain: unknown category")
	ErrUnknownWeekday      = errors.New("domain: unknown weekday")
)
