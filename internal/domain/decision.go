package domain

import "github.com/m04kA/SMC-SpaBookingService/pkg/types"

// Reason explains why a proposed booking was rejected.
type Reason string

const (
	ReasonSlotNotOffered    Reason = "SLOT_NOT_OFFERED"
	ReasonSlotBlocked       Reason = "SLOT_BLOCKED"
	ReasonBelowMinimumParty Reason = "BELOW_MINIMUM_PARTY"
	ReasonCapacityExceeded  Reason = "CAPACITY_EXCEEDED"
	ReasonStorageError      Reason = "STORAGE_ERROR"
)

// Decision is the explanatory result of an availability check.
// Reason is empty when Available is true.
type Decision struct {
	Available bool
	Reason    Reason
	Committed int
	Capacity  int
}

// Accept builds a positive decision.
func Accept(committed, capacity int) Decision {
	return Decision{Available: true, Committed: committed, Capacity: capacity}
}

// Reject builds a negative decision with the given reason.
func Reject(reason Reason, committed, capacity int) Decision {
	return Decision{Reason: reason, Committed: committed, Capacity: capacity}
}

// Remaining returns the free capacity after the committed bookings.
func (d Decision) Remaining() int {
	if r := d.Capacity - d.Committed; r > 0 {
		return r
	}
	return 0
}

// SlotAvailability describes one slot of a day menu.
type SlotAvailability struct {
	Slot      types.TimeString
	Committed int
	Capacity  int
	Blocked   bool
}

// Remaining returns the number of guests that can still be booked.
func (s *SlotAvailability) Remaining() int {
	if s.Blocked {
		return 0
	}
	if r := s.Capacity - s.Committed; r > 0 {
		return r
	}
	return 0
}

// IsFull returns true if the slot cannot take any more guests
func (s *SlotAvailability) IsFull() bool {
	return s.Remaining() == 0
}

// CanHost reports whether a party of the given size still fits.
func (s *SlotAvailability) CanHost(partySize int) bool {
	return partySize > 0 && s.Remaining() >= partySize
}
