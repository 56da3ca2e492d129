package check_availability

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ServiceID int64  `json:"serviceId"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	PartySize int    `json:"partySize"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Committed int    `json:"committed"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
}

// ToUseCaseRequest создает запрос use case из query параметров
// date, slot, partySize обязательны; excludeBookingId опционален
func ToUseCaseRequest(serviceID int64, q url.Values) (*checkAvailability.Request, error) {
	date, err := types.ParseDate(q.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	slot, err := types.NewTimeStringFromString(q.Get("slot"))
	if err != nil {
		return nil, fmt.Errorf("slot: %w", err)
	}

	partySize, err := strconv.Atoi(q.Get("partySize"))
	if err != nil {
		return nil, fmt.Errorf("partySize: %w", err)
	}

	req := &checkAvailability.Request{
		ServiceID: serviceID,
		Date:      date,
		Slot:      slot,
		PartySize: partySize,
	}

	if raw := q.Get("excludeBookingId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("excludeBookingId: %w", err)
		}
		req.ExcludeBookingID = &id
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slot:      resp.Slot.String(),
		PartySize: resp.PartySize,
		Available: resp.Decision.Available,
		Reason:    string(resp.Decision.Reason),
		Committed: resp.Decision.Committed,
		Capacity:  resp.Decision.Capacity,
		Remaining: resp.Decision.Remaining(),
	}
}
