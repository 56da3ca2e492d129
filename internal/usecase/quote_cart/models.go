package quote_cart

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Line строка корзины
type Line struct {
	ServiceID int64
	Date      time.Time
	Slot      types.TimeString
	PartySize int
}

// Request модель запроса расчета корзины
// Вместимость не проверяется: расчет ничего не бронирует
type Request struct {
	Lines     []Line
	GiftCards []domain.GiftCardLine
	AsOf      *time.Time // дата проверки сроков правил; по умолчанию сегодня
}

// Response модель ответа
type Response struct {
	Lines       []domain.CartLineItem
	GiftCards   []domain.GiftCardLine
	Resolution  domain.Resolution
	Suggestions []domain.PackSuggestion
}
