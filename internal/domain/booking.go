package domain

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking is one committed reservation of a service at a date and slot.
// Bookings are only ever inserted as active or marked cancelled; party size
// changes go through a new booking.
type Booking struct {
	ID          int64
	CheckoutRef string // groups all bookings created by one checkout
	ServiceID   int64
	Date        time.Time
	Slot        types.TimeString
	PartySize   int
	Status      BookingStatus

	// Denormalized data for history
	ServiceName string
	Category    Category
	UnitPrice   int64
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking counts against capacity
func (b *Booking) IsActive() bool {
	return b.Status == StatusActive
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusActive
}

// CanBeChanged returns true if the booking can be replaced by a changed one
func (b *Booking) CanBeChanged() bool {
	return b.Status == StatusActive
}

// SlotKey identifies one capacity bucket.
type SlotKey struct {
	ServiceID int64
	Date      time.Time
	Slot      types.TimeString
}

// Key returns the capacity bucket of the booking
func (b *Booking) Key() SlotKey {
	return SlotKey{ServiceID: b.ServiceID, Date: types.DateOnly(b.Date), Slot: b.Slot}
}

// String renders the key as "service/date/slot", used for advisory locks.
func (k SlotKey) String() string {
	return formatInt(k.ServiceID) + "/" + k.Date.Format(DateFormat) + "/" + k.Slot.String()
}

// Less orders keys by service, date, slot. Locks are always taken in this order.
func (k SlotKey) Less(other SlotKey) bool {
	if k.ServiceID != other.ServiceID {
		return k.ServiceID < other.ServiceID
	}
	if !k.Date.Equal(other.Date) {
		return k.Date.Before(other.Date)
	}
	return k.Slot.IsBefore(other.Slot)
}
