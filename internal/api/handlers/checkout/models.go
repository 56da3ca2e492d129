package checkout

import (
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	checkoutUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/checkout"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// LineRequest строка корзины
type LineRequest struct {
	ServiceID int64  `json:"serviceId"`
	Date      string `json:"date"` // "2025-11-10"
	Slot      string `json:"slot"` // "12:00"
	PartySize int    `json:"partySize"`
}

// GiftCardRequest подарочный сертификат в корзине
type GiftCardRequest struct {
	Code   string `json:"code"`
	Amount int64  `json:"amount"`
}

// CheckoutRequest HTTP request model
type CheckoutRequest struct {
	Lines     []LineRequest     `json:"lines"`
	GiftCards []GiftCardRequest `json:"giftCards,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
}

// AppliedDiscountResponse примененная пакетная скидка
type AppliedDiscountResponse struct {
	RuleID      int64    `json:"ruleId"`
	RuleName    string   `json:"ruleName"`
	Amount      int64    `json:"amount"`
	Categories  []string `json:"categories"`
	LineIndexes []int    `json:"lineIndexes"`
	Description string   `json:"description"`
}

// ResolutionResponse расчет корзины
type ResolutionResponse struct {
	Subtotal      int64                     `json:"subtotal"`
	Discounts     []AppliedDiscountResponse `json:"discounts"`
	DiscountTotal int64                     `json:"discountTotal"`
	Total         int64                     `json:"total"`
}

// CheckoutResponse HTTP response model
type CheckoutResponse struct {
	CheckoutRef string                   `json:"checkoutRef"`
	Bookings    []models.BookingResponse `json:"bookings"`
	Resolution  ResolutionResponse       `json:"resolution"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckoutRequest) ToUseCaseRequest() (*checkoutUC.Request, error) {
	lines := make([]checkoutUC.Line, len(r.Lines))
	for i, l := range r.Lines {
		date, err := types.ParseDate(l.Date)
		if err != nil {
			return nil, fmt.Errorf("line %d: date: %w", i, err)
		}
		slot, err := types.NewTimeStringFromString(l.Slot)
		if err != nil {
			return nil, fmt.Errorf("line %d: slot: %w", i, err)
		}
		lines[i] = checkoutUC.Line{
			ServiceID: l.ServiceID,
			Date:      date,
			Slot:      slot,
			PartySize: l.PartySize,
		}
	}

	return &checkoutUC.Request{
		Lines:     lines,
		GiftCards: ToGiftCards(r.GiftCards),
		Notes:     r.Notes,
	}, nil
}

// ToGiftCards конвертирует сертификаты запроса в доменные
func ToGiftCards(cards []GiftCardRequest) []domain.GiftCardLine {
	out := make([]domain.GiftCardLine, len(cards))
	for i, gc := range cards {
		out[i] = domain.GiftCardLine{Code: gc.Code, Amount: gc.Amount}
	}
	return out
}

// FromResolution конвертирует расчет корзины в HTTP модель
func FromResolution(res domain.Resolution) ResolutionResponse {
	discounts := make([]AppliedDiscountResponse, len(res.Applied))
	for i, a := range res.Applied {
		categories := make([]string, len(a.Categories))
		for j, c := range a.Categories {
			categories[j] = string(c)
		}
		discounts[i] = AppliedDiscountResponse{
			RuleID:      a.RuleID,
			RuleName:    a.RuleName,
			Amount:      a.Amount,
			Categories:  categories,
			LineIndexes: a.LineIndexes,
			Description: a.Description,
		}
	}

	return ResolutionResponse{
		Subtotal:      res.Subtotal,
		Discounts:     discounts,
		DiscountTotal: res.DiscountTotal,
		Total:         res.Total,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkoutUC.Response) *CheckoutResponse {
	return &CheckoutResponse{
		CheckoutRef: resp.CheckoutRef,
		Bookings:    models.FromDomainBookingList(resp.Bookings).Bookings,
		Resolution:  FromResolution(resp.Resolution),
	}
}
