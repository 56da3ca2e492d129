package checkout

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Line строка корзины
type Line struct {
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата (без времени)
	Slot      types.TimeString // Слот, например "12:00"
	PartySize int              // Количество гостей
}

// Request модель запроса на оформление корзины
type Request struct {
	Lines     []Line
	GiftCards []domain.GiftCardLine
	Notes     *string
}

// Response модель ответа: созданные бронирования в порядке строк и расчет корзины
type Response struct {
	CheckoutRef string
	Bookings    []*domain.Booking
	Resolution  domain.Resolution
}
