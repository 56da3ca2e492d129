package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// buildSlots собирает меню дня с занятостью и блокировками
func buildSlots(
	service *domain.Service,
	date time.Time,
	partySize int,
	committed map[types.TimeString]int,
	blocks []*domain.SlotBlock,
) []Slot {
	menu := append([]types.TimeString(nil), service.SlotsFor(date)...)
	sort.Slice(menu, func(i, j int) bool { return menu[i].IsBefore(menu[j]) })

	slots := make([]Slot, 0, len(menu))
	for _, ts := range menu {
		sa := domain.SlotAvailability{
			Slot:      ts,
			Committed: committed[ts],
			Capacity:  service.MaxPartySize,
			Blocked:   isBlocked(blocks, date, ts),
		}

		slots = append(slots, Slot{
			StartTime: sa.Slot,
			Committed: sa.Committed,
			Capacity:  sa.Capacity,
			Remaining: sa.Remaining(),
			Blocked:   sa.Blocked,
			Full:      sa.IsFull(),
			Fits:      fits(&sa, partySize),
		})
	}

	return slots
}

func isBlocked(blocks []*domain.SlotBlock, date time.Time, slot types.TimeString) bool {
	for _, b := range blocks {
		if b.Covers(date, slot) {
			return true
		}
	}
	return false
}

// fits без размера группы означает "есть хотя бы одно место"
func fits(sa *domain.SlotAvailability, partySize int) bool {
	if partySize == 0 {
		return !sa.IsFull()
	}
	return sa.CanHost(partySize)
}
