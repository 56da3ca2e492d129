package domain

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// CartLineItem is one service line of a cart. It exists only for the
// duration of a single quote or checkout.
type CartLineItem struct {
	ServiceID   int64
	ServiceName string
	Category    Category
	Pricing     PricingMode
	Date        time.Time
	Slot        types.TimeString
	PartySize   int
	UnitPrice   int64
}

// Total returns unit price times the quantity-equivalent.
func (l CartLineItem) Total() int64 {
	return l.UnitPrice * l.Pricing.Quantity(l.PartySize)
}

// NewCartLineItem builds a line for service s.
func NewCartLineItem(s *Service, date time.Time, slot types.TimeString, partySize int) CartLineItem {
	return CartLineItem{
		ServiceID:   s.ID,
		ServiceName: s.Name,
		Category:    s.Category,
		Pricing:     s.Pricing,
		Date:        types.DateOnly(date),
		Slot:        slot,
		PartySize:   partySize,
		UnitPrice:   s.UnitPrice,
	}
}

// GiftCardLine is a gift card purchased in the same cart. It counts towards
// the subtotal but is never claimed by a pack rule.
type GiftCardLine struct {
	Code   string
	Amount int64
}

// Cart is the input of pack resolution.
type Cart struct {
	Lines     []CartLineItem
	GiftCards []GiftCardLine
	// AsOf is the date used for rule date-range checks; zero means today.
	AsOf time.Time
}

// AppliedDiscount is one selected pack rule.
type AppliedDiscount struct {
	RuleID      int64
	RuleName    string
	Amount      int64
	Categories  []Category
	LineIndexes []int
	Description string
}

// Resolution is the priced cart.
type Resolution struct {
	Subtotal      int64
	Applied       []AppliedDiscount
	DiscountTotal int64
	Total         int64
}

// PackSuggestion points at a rule the cart misses by exactly one category.
type PackSuggestion struct {
	RuleID          int64
	RuleName        string
	MissingCategory Category
	Amount          int64
	Message         string
}
