package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SpaBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date      string          `json:"date"`
	ServiceID int64           `json:"serviceId"`
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	Committed int    `json:"committed"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
	Blocked   bool   `json:"blocked"`
	Full      bool   `json:"full"`
	Fits      bool   `json:"fits"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			Committed: slot.Committed,
			Capacity:  slot.Capacity,
			Remaining: slot.Remaining,
			Blocked:   slot.Blocked,
			Full:      slot.Full,
			Fits:      slot.Fits,
		}
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		ServiceID: resp.ServiceID,
		Slots:     slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// parsePartySize разбирает необязательный размер группы
func parsePartySize(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errInvalidPartySize
	}
	return n, nil
}
