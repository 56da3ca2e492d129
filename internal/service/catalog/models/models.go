package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модели

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	Name         string             `json:"name"`
	Category     string             `json:"category"`    // LODGING, HOT_TUB, MASSAGE, DECORATION, OTHER
	PricingMode  string             `json:"pricingMode"` // per_person | flat
	UnitPrice    int64              `json:"unitPrice"`
	Slots        domain.WeeklySlots `json:"slots"` // {"monday": ["12:00", "14:30"]}
	MinPartySize int                `json:"minPartySize"`
	MaxPartySize int                `json:"maxPartySize"`
}

// ToDomainService конвертирует запрос в domain модель
func (r *CreateServiceRequest) ToDomainService() (*domain.Service, error) {
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return nil, err
	}

	return &domain.Service{
		Name:         r.Name,
		Category:     category,
		Pricing:      domain.PricingMode(r.PricingMode),
		UnitPrice:    r.UnitPrice,
		Slots:        r.Slots.Normalize(),
		MinPartySize: r.MinPartySize,
		MaxPartySize: r.MaxPartySize,
		Active:       true,
	}, nil
}

// UpdateServiceRequest запрос на обновление услуги
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRequest struct {
	Name         *string             `json:"name,omitempty"`
	UnitPrice    *int64              `json:"unitPrice,omitempty"`
	Slots        *domain.WeeklySlots `json:"slots,omitempty"`
	MinPartySize *int                `json:"minPartySize,omitempty"`
	MaxPartySize *int                `json:"maxPartySize,omitempty"`
	Active       *bool               `json:"active,omitempty"`
}

// Apply применяет изменения к услуге
func (r *UpdateServiceRequest) Apply(s *domain.Service) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.UnitPrice != nil {
		s.UnitPrice = *r.UnitPrice
	}
	if r.Slots != nil {
		s.Slots = r.Slots.Normalize()
	}
	if r.MinPartySize != nil {
		s.MinPartySize = *r.MinPartySize
	}
	if r.MaxPartySize != nil {
		s.MaxPartySize = *r.MaxPartySize
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}

// CreateDiscountRuleRequest запрос на создание пакетной скидки
type CreateDiscountRuleRequest struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	RequiredCategories []string `json:"requiredCategories"`
	ValidWeekdays      []string `json:"validWeekdays,omitempty"` // пусто = любой день
	StartDate          string   `json:"startDate"`               // "2025-01-01"
	EndDate            *string  `json:"endDate,omitempty"`       // nil = бессрочно
	MinNights          int      `json:"minNights"`
	SameDateRequired   bool     `json:"sameDateRequired"`
	Priority           int      `json:"priority"`
	Amount             int64    `json:"amount"`
	MinPartySize       int      `json:"minPartySize"`
}

// ToDomainRule конвертирует запрос в domain модель
func (r *CreateDiscountRuleRequest) ToDomainRule() (*domain.DiscountRule, error) {
	categories := make([]domain.Category, 0, len(r.RequiredCategories))
	for _, raw := range r.RequiredCategories {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	weekdays := make([]time.Weekday, 0, len(r.ValidWeekdays))
	for _, raw := range r.ValidWeekdays {
		wd, err := domain.ParseWeekday(raw)
		if err != nil {
			return nil, err
		}
		weekdays = append(weekdays, wd)
	}

	start, err := types.ParseDate(r.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}

	rule := &domain.DiscountRule{
		Name:               r.Name,
		Description:        r.Description,
		RequiredCategories: categories,
		ValidWeekdays:      weekdays,
		StartDate:          start,
		MinNights:          r.MinNights,
		SameDateRequired:   r.SameDateRequired,
		Priority:           r.Priority,
		Amount:             r.Amount,
		MinPartySize:       r.MinPartySize,
		Active:             true,
	}

	if r.EndDate != nil {
		end, err := types.ParseDate(*r.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		rule.EndDate = &end
	}

	return rule, nil
}

// CreateSlotBlockRequest запрос на закрытие слота или дней
type CreateSlotBlockRequest struct {
	ServiceID int64   `json:"serviceId"`
	DateFrom  string  `json:"dateFrom"`
	DateTo    string  `json:"dateTo"`
	Slot      *string `json:"slot,omitempty"` // nil = весь день
	Reason    string  `json:"reason"`
}

// ToDomainBlock конвертирует запрос в domain модель
func (r *CreateSlotBlockRequest) ToDomainBlock() (*domain.SlotBlock, error) {
	from, err := types.ParseDate(r.DateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid dateFrom: %w", err)
	}
	to, err := types.ParseDate(r.DateTo)
	if err != nil {
		return nil, fmt.Errorf("invalid dateTo: %w", err)
	}

	block := &domain.SlotBlock{
		ServiceID: r.ServiceID,
		DateFrom:  from,
		DateTo:    to,
		Reason:    r.Reason,
		Active:    true,
	}

	if r.Slot != nil {
		slot, err := types.NewTimeStringFromString(*r.Slot)
		if err != nil {
			return nil, fmt.Errorf("invalid slot: %w", err)
		}
		block.Slot = &slot
	}

	return block, nil
}

// Response модели

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Category     string             `json:"category"`
	PricingMode  string             `json:"pricingMode"`
	UnitPrice    int64              `json:"unitPrice"`
	Slots        domain.WeeklySlots `json:"slots"`
	MinPartySize int                `json:"minPartySize"`
	MaxPartySize int                `json:"maxPartySize"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// DiscountRuleResponse ответ с данными пакетной скидки
type DiscountRuleResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	RequiredCategories []string  `json:"requiredCategories"`
	ValidWeekdays      []string  `json:"validWeekdays"`
	StartDate          string    `json:"startDate"`
	EndDate            *string   `json:"endDate,omitempty"`
	MinNights          int       `json:"minNights"`
	SameDateRequired   bool      `json:"sameDateRequired"`
	Priority           int       `json:"priority"`
	Amount             int64     `json:"amount"`
	MinPartySize       int       `json:"minPartySize"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// DiscountRuleListResponse ответ со списком скидок
type DiscountRuleListResponse struct {
	Rules []DiscountRuleResponse `json:"rules"`
}

// SlotBlockResponse ответ с данными блокировки
type SlotBlockResponse struct {
	ID        int64     `json:"id"`
	ServiceID int64     `json:"serviceId"`
	DateFrom  string    `json:"dateFrom"`
	DateTo    string    `json:"dateTo"`
	Slot      *string   `json:"slot,omitempty"`
	Reason    string    `json:"reason"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:           s.ID,
		Name:         s.Name,
		Category:     string(s.Category),
		PricingMode:  string(s.Pricing),
		UnitPrice:    s.UnitPrice,
		Slots:        s.Slots,
		MinPartySize: s.MinPartySize,
		MaxPartySize: s.MaxPartySize,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.DiscountRule) *DiscountRuleResponse {
	if r == nil {
		return nil
	}

	resp := &DiscountRuleResponse{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		RequiredCategories: make([]string, 0, len(r.RequiredCategories)),
		ValidWeekdays:      make([]string, 0, len(r.ValidWeekdays)),
		StartDate:          r.StartDate.Format(domain.DateFormat),
		MinNights:          r.MinNights,
		SameDateRequired:   r.SameDateRequired,
		Priority:           r.Priority,
		Amount:             r.Amount,
		MinPartySize:       r.MinPartySize,
		Active:             r.Active,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	for _, c := range r.RequiredCategories {
		resp.RequiredCategories = append(resp.RequiredCategories, string(c))
	}
	for _, wd := range r.ValidWeekdays {
		resp.ValidWeekdays = append(resp.ValidWeekdays, domain.WeekdayName(wd))
	}
	if r.EndDate != nil {
		end := r.EndDate.Format(domain.DateFormat)
		resp.EndDate = &end
	}

	return resp
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.DiscountRule) *DiscountRuleListResponse {
	resp := &DiscountRuleListResponse{Rules: make([]DiscountRuleResponse, 0, len(rules))}
	for _, r := range rules {
		if dto := FromDomainRule(r); dto != nil {
			resp.Rules = append(resp.Rules, *dto)
		}
	}
	return resp
}

// FromDomainBlock конвертирует domain модель в DTO
func FromDomainBlock(b *domain.SlotBlock) *SlotBlockResponse {
	if b == nil {
		return nil
	}

	resp := &SlotBlockResponse{
		ID:        b.ID,
		ServiceID: b.ServiceID,
		DateFrom:  b.DateFrom.Format(domain.DateFormat),
		DateTo:    b.DateTo.Format(domain.DateFormat),
		Reason:    b.Reason,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
	}
	if b.Slot != nil {
		slot := b.Slot.String()
		resp.Slot = &slot
	}

	return resp
}
