package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// DiscountRule is a fixed-amount pack discount applied when a cart holds
// every required category under the rule's date and weekday constraints.
type DiscountRule struct {
	ID                 int64
	Name               string
	Description        string
	RequiredCategories []Category
	ValidWeekdays      []time.Weekday // empty means any day
	StartDate          time.Time
	EndDate            *time.Time // nil means open-ended
	MinNights          int        // 0 is read as 1
	SameDateRequired   bool
	Priority           int
	Amount             int64
	MinPartySize       int // 0 is read as 1
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate reports a malformed rule. The resolver skips such rules.
func (r *DiscountRule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDiscountRule)
	}
	if len(r.Name) > MaxRuleNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidDiscountRule)
	}
	if len(r.RequiredCategories) == 0 {
		return fmt.Errorf("%w: required category set is empty", ErrInvalidDiscountRule)
	}
	seen := make(map[Category]struct{}, len(r.RequiredCategories))
	for _, c := range r.RequiredCategories {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidDiscountRule, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate category %s", ErrInvalidDiscountRule, c)
		}
		seen[c] = struct{}{}
	}
	for _, wd := range r.ValidWeekdays {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidDiscountRule, wd)
		}
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidDiscountRule)
	}
	if r.EndDate != nil && types.DateOnly(*r.EndDate).Before(types.DateOnly(r.StartDate)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidDiscountRule)
	}
	if r.MinNights < 0 {
		return fmt.Errorf("%w: minimum nights must not be negative", ErrInvalidDiscountRule)
	}
	if r.MinPartySize < 0 {
		return fmt.Errorf("%w: minimum party size must not be negative", ErrInvalidDiscountRule)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidDiscountRule)
	}
	return nil
}

// EffectiveMinNights returns the minimum span in nights, never below 1.
func (r *DiscountRule) EffectiveMinNights() int {
	if r.MinNights < DefaultMinNights {
		return DefaultMinNights
	}
	return r.MinNights
}

// EffectiveMinPartySize returns the minimum party size a line needs to
// satisfy a required category, never below 1.
func (r *DiscountRule) EffectiveMinPartySize() int {
	if r.MinPartySize < DefaultMinPartySize {
		return DefaultMinPartySize
	}
	return r.MinPartySize
}

// ActiveOn reports whether the rule is active and date lies within
// [StartDate, EndDate]; both bounds inclusive.
func (r *DiscountRule) ActiveOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	d := types.DateOnly(date)
	if d.Before(types.DateOnly(r.StartDate)) {
		return false
	}
	if r.EndDate != nil && d.After(types.DateOnly(*r.EndDate)) {
		return false
	}
	return true
}

// AllowsWeekday reports whether wd is allowed. Empty set allows every day.
func (r *DiscountRule) AllowsWeekday(wd time.Weekday) bool {
	if len(r.ValidWeekdays) == 0 {
		return true
	}
	for _, allowed := range r.ValidWeekdays {
		if allowed == wd {
			return true
		}
	}
	return false
}

// Requires reports whether c is in the required category set.
func (r *DiscountRule) Requires(c Category) bool {
	for _, req := range r.RequiredCategories {
		if req == c {
			return true
		}
	}
	return false
}
