package check_availability

import (
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// Request модель запроса проверки слота
type Request struct {
	ServiceID        int64
	Date             time.Time
	Slot             types.TimeString
	PartySize        int
	ExcludeBookingID *int64 // редактируемое бронирование не учитывается в занятости
}

// Response модель ответа с решением
type Response struct {
	ServiceID int64
	Date      time.Time
	Slot      types.TimeString
	PartySize int
	Decision  domain.Decision
}
