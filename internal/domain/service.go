package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Category is the explicit service category used by pack rules.
type Category string

const (
	CategoryLodging    Category = "LODGING"
	CategoryHotTub     Category = "HOT_TUB"
	CategoryMassage    Category = "MASSAGE"
	CategoryDecoration Category = "DECORATION"
	CategoryOther      Category = "OTHER"
)

// AllCategories lists every known category in a stable order.
var AllCategories = []Category{
	CategoryLodging,
	CategoryHotTub,
	CategoryMassage,
	CategoryDecoration,
	CategoryOther,
}

// ParseCategory accepts only the known category names (case-insensitive).
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PricingMode defines how a line item quantity is derived.
type PricingMode string

const (
	// PricingPerPerson charges unit price for every guest.
	PricingPerPerson PricingMode = "per_person"
	// PricingFlat charges unit price once (e.g. a cabin booked as a unit).
	PricingFlat PricingMode = "flat"
)

func (p PricingMode) Valid() bool {
	return p == PricingPerPerson || p == PricingFlat
}

// Quantity returns the quantity-equivalent for a party of the given size.
func (p PricingMode) Quantity(partySize int) int64 {
	if p == PricingFlat {
		return 1
	}
	return int64(partySize)
}

// WeeklySlots maps a weekday to its ordered slot menu.
// A weekday with no entry means the service is closed that day.
type WeeklySlots map[time.Weekday][]types.TimeString

// Service is a bookable spa service with its schedule and capacity bounds.
type Service struct {
	ID           int64
	Name         string
	Category     Category
	Pricing      PricingMode
	UnitPrice    int64
	Slots        WeeklySlots
	MinPartySize int
	MaxPartySize int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the configuration invariants: max >= min >= 1,
// well-formed slots and no duplicate slot on the same weekday.
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidService)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidService, s.Category)
	}
	if !s.Pricing.Valid() {
		return fmt.Errorf("%w: unknown pricing mode %q", ErrInvalidService, s.Pricing)
	}
	if s.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidService)
	}
	if s.MinPartySize < 1 {
		return fmt.Errorf("%w: minimum party size must be at least 1", ErrInvalidService)
	}
	if s.MaxPartySize < s.MinPartySize {
		return fmt.Errorf("%w: maximum party size %d is below minimum %d", ErrInvalidService, s.MaxPartySize, s.MinPartySize)
	}
	return s.Slots.Validate()
}

// SlotsFor returns the slot menu for the weekday of date.
func (s *Service) SlotsFor(date time.Time) []types.TimeString {
	return s.Slots[date.Weekday()]
}

// OffersSlot reports whether slot is on the menu for the weekday of date.
func (s *Service) OffersSlot(date time.Time, slot types.TimeString) bool {
	for _, offered := range s.SlotsFor(date) {
		if offered == slot {
			return true
		}
	}
	return false
}

// Validate checks slot format and uniqueness per weekday.
func (w WeeklySlots) Validate() error {
	for day, slots := range w {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrInvalidService, day)
		}
		seen := make(map[types.TimeString]struct{}, len(slots))
		for _, slot := range slots {
			if err := slot.Validate(); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidService, WeekdayName(day), err)
			}
			if _, dup := seen[slot]; dup {
				return fmt.Errorf("%w: duplicate slot %s on %s", ErrInvalidService, slot, WeekdayName(day))
			}
			seen[slot] = struct{}{}
		}
	}
	return nil
}

// Normalize sorts every weekday menu chronologically and drops empty days.
func (w WeeklySlots) Normalize() WeeklySlots {
	out := make(WeeklySlots, len(w))
	for day, slots := range w {
		if len(slots) == 0 {
			continue
		}
		sorted := append([]types.TimeString(nil), slots...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].IsBefore(sorted[j]) })
		out[day] = sorted
	}
	return out
}

// MarshalJSON encodes the menu keyed by lowercase English weekday names.
func (w WeeklySlots) MarshalJSON() ([]byte, error) {
	named := make(map[string][]types.TimeString, len(w))
	for day, slots := range w {
		named[WeekdayName(day)] = slots
	}
	return json.Marshal(named)
}

// UnmarshalJSON decodes a menu keyed by weekday names.
func (w *WeeklySlots) UnmarshalJSON(data []byte) error {
	var named map[string][]string
	if err := json.Unmarshal(data, &named); err != nil {
		return err
	}

	out := make(WeeklySlots, len(named))
	for name, raw := range named {
		day, err := ParseWeekday(name)
		if err != nil {
			return err
		}
		slots := make([]types.TimeString, 0, len(raw))
		for _, r := range raw {
			ts, err := types.NewTimeStringFromString(r)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidService, name, err)
			}
			slots = append(slots, ts)
		}
		out[day] = slots
	}

	*w = out
	return nil
}

// Value stores the menu as JSON (JSONB column).
func (w WeeklySlots) Value() (driver.Value, error) {
	b, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the menu from a JSON column.
func (w *WeeklySlots) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = WeeklySlots{}
		return nil
	case []byte:
		return w.UnmarshalJSON(v)
	case string:
		return w.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("%w: unsupported slots type %T", ErrInvalidService, src)
	}
}

// WeekdayName returns the lowercase English weekday name.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ParseWeekday accepts lowercase or capitalized English weekday names.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if WeekdayName(d) == n {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
}
