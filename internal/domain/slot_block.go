package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// SlotBlock closes a service for a date range, either for one slot or for
// whole days (Slot == nil).
type SlotBlock struct {
	ID        int64
	ServiceID int64
	DateFrom  time.Time
	DateTo    time.Time
	Slot      *types.TimeString
	Reason    string
	Active    bool
	CreatedAt time.Time
}

// Covers reports whether the block closes slot on date.
func (b *SlotBlock) Covers(date time.Time, slot types.TimeString) bool {
	if !b.Active {
		return false
	}
	d := types.DateOnly(date)
	if d.Before(types.DateOnly(b.DateFrom)) || d.After(types.DateOnly(b.DateTo)) {
		return false
	}
	return b.Slot == nil || *b.Slot == slot
}

func (b *SlotBlock) Validate() error {
	if b.ServiceID <= 0 {
		return fmt.Errorf("%w: service id is required", ErrInvalidSlotBlock)
	}
	if b.DateFrom.IsZero() || b.DateTo.IsZero() {
		return fmt.Errorf("%w: date range is required", ErrInvalidSlotBlock)
	}
	if types.DateOnly(b.DateTo).Before(types.DateOnly(b.DateFrom)) {
		return fmt.Errorf("%w: date_to is before date_from", ErrInvalidSlotBlock)
	}
	if b.Slot != nil {
		if err := b.Slot.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSlotBlock, err)
		}
	}
	if len(strings.TrimSpace(b.Reason)) > MaxNotesLength {
		return fmt.Errorf("%w: reason is too long", ErrInvalidSlotBlock)
	}
	return nil
}
