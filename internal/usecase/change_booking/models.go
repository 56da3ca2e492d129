package change_booking

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модель запроса на изменение бронирования
// Незаданные поля берутся из исходного бронирования
type Request struct {
	BookingID int64
	Date      *time.Time
	Slot      *types.TimeString
	PartySize *int
	Notes     *string
}

// Response модель ответа: отмененное исходное и новое бронирование
type Response struct {
	Previous *domain.Booking
	Booking  *domain.Booking
}
