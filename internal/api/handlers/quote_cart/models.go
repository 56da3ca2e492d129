package quote_cart

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers/checkout"
	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	quoteCart "github.com/m04kA/SMC-SpaBookingService/internal/usecase/quote_cart"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// QuoteRequest HTTP request model
type QuoteRequest struct {
	Lines     []checkout.LineRequest     `json:"lines"`
	GiftCards []checkout.GiftCardRequest `json:"giftCards,omitempty"`
	AsOf      *string                    `json:"asOf,omitempty"` // "2025-11-10"
}

// LineResponse строка корзины с ценой
type LineResponse struct {
	ServiceID   int64  `json:"serviceId"`
	ServiceName string `json:"serviceName"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Slot        string `json:"slot"`
	PartySize   int    `json:"partySize"`
	UnitPrice   int64  `json:"unitPrice"`
	Total       int64  `json:"total"`
}

// SuggestionResponse подсказка пакета
type SuggestionResponse struct {
	RuleID          int64  `json:"ruleId"`
	RuleName        string `json:"ruleName"`
	MissingCategory string `json:"missingCategory"`
	Amount          int64  `json:"amount"`
	Message         string `json:"message"`
}

// QuoteResponse HTTP response model
type QuoteResponse struct {
	Lines       []LineResponse              `json:"lines"`
	Resolution  checkout.ResolutionResponse `json:"resolution"`
	Suggestions []SuggestionResponse        `json:"suggestions"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *QuoteRequest) ToUseCaseRequest() (*quoteCart.Request, error) {
	lines := make([]quoteCart.Line, len(r.Lines))
	for i, l := range r.Lines {
		date, err := types.ParseDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: date: %w", i, err)
		}
		slot, err := types.NewTimeStringFromString(l.Slot)
		if err != nil {
			return nil, fmt.Errorf("line %d: slot: %w", i, err)
		}
		lines[i] = quoteCart.Line{ServiceID: l.ServiceID, Date: date, Slot: slot, PartySize: l.PartySize}
	}

	var asOf *time.Time
	if r.AsOf != nil {
		d, err := types.ParseDate(*r.AsOf)
		if err != nil {
			return nil, fmt.Errorf("asOf: %w", err)
		}
		asOf = &d
	}

	return &quoteCart.Request{
		Lines:     lines,
		GiftCards: checkout.ToGiftCards(r.GiftCards),
		AsOf:      asOf,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *quoteCart.Response) *QuoteResponse {
	lines := make([]LineResponse, len(resp.Lines))
	for i, l := range resp.Lines {
		lines[i] = LineResponse{
			ServiceID:   l.ServiceID,
			ServiceName: l.ServiceName,
			Category:    string(l.Category),
			Date:        l.Date.Format(domain.DateFormat),
			Slot:        l.Slot.String(),
			PartySize:   l.PartySize,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		}
	}

	suggestions := make([]SuggestionResponse, len(resp.Suggestions))
	for i, s := range resp.Suggestions {
		suggestions[i] = SuggestionResponse{
			RuleID:          s.RuleID,
			RuleName:        s.RuleName,
			MissingCategory: string(s.MissingCategory),
			Amount:          s.Amount,
			Message:         s.Message,
		}
	}

	return &QuoteResponse{
		Lines:       lines,
		Resolution:  checkout.FromResolution(resp.Resolution),
		Suggestions: suggestions,
	}
}
