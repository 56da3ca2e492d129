package models

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	CheckoutRef string `json:"checkoutRef"`
	ServiceID   int64  `json:"serviceId"`
	Date        string `json:"date"` // "2025-11-10"
	Slot        string `json:"slot"` // "12:00"
	PartySize   int    `json:"partySize"`
	Status      string `json:"status"`

	// Денормализованные данные
	ServiceName string  `json:"serviceName"`
	Category    string  `json:"category"`
	UnitPrice   int64   `json:"unitPrice"`
	Notes       *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CheckoutRef:        b.CheckoutRef,
		ServiceID:          b.ServiceID,
		Date:               b.Date.Format(domain.DateFormat),
		Slot:               b.Slot.String(),
		PartySize:          b.PartySize,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		Category:           string(b.Category),
		UnitPrice:          b.UnitPrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
