package events

import "time"

// Ключи маршрутизации
const (
	KeyCheckoutCompleted = "checkout.completed"
	KeyBookingCancelled  = "booking.cancelled"
	KeyBookingChanged    = "booking.changed"
)

// AppliedDiscount скидка в составе события оформления
type AppliedDiscount struct {
	RuleID int64  `json:"rule_id"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// CheckoutCompleted событие успешного оформления корзины
type CheckoutCompleted struct {
	CheckoutRef   string            `json:"checkout_ref"`
	BookingIDs    []int64           `json:"booking_ids"`
	Subtotal      int64             `json:"subtotal"`
	DiscountTotal int64             `json:"discount_total"`
	Total         int64             `json:"total"`
	Discounts     []AppliedDiscount `json:"discounts"`
	OccurredAt    time.Time         `json:"occurred_at"`
}

// BookingCancelled событие отмены бронирования
type BookingCancelled struct {
	BookingID   int64     `json:"booking_id"`
	CheckoutRef string    `json:"checkout_ref"`
	ServiceID   int64     `json:"service_id"`
	Date        string    `json:"date"`
	Slot        string    `json:"slot"`
	PartySize   int       `json:"party_size"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BookingChanged событие замены бронирования новым
type BookingChanged struct {
	OldBookingID int64     `json:"old_booking_id"`
	NewBookingID int64     `json:"new_booking_id"`
	CheckoutRef  string    `json:"checkout_ref"`
	OccurredAt   time.Time `json:"occurred_at"`
}
