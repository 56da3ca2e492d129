package change_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("change_booking: invalid input data")

	// ErrInvalidDate возвращается при новой дате в прошлом
	ErrInvalidDate = errors.New("change_booking: invalid booking date")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("change_booking: booking not found")

	// ErrCannotChange бронирование уже отменено
	ErrCannotChange = errors.New("change_booking: booking cannot be changed")

	// ErrServiceNotFound услуга бронирования не найдена или выключена
	ErrServiceNotFound = errors.New("change_booking: service not found")

	// ErrSlotNotOffered слот отсутствует в меню дня недели
	ErrSlotNotOffered = errors.New("change_booking: slot is not offered")

	// ErrSlotBlocked слот закрыт администратором
	ErrSlotBlocked = errors.New("change_booking: slot is blocked")

	// ErrBelowMinimumParty гостей меньше минимума услуги
	ErrBelowMinimumParty = errors.New("change_booking: party is below service minimum")

	// ErrCapacityExceeded слот заполнен
	ErrCapacityExceeded = errors.New("change_booking: slot capacity exceeded")

	// ErrStorage хранилище недоступно или истек таймаут транзакции
	ErrStorage = errors.New("change_booking: storage error")

	// ErrConflict конкурентная транзакция помешала изменению, можно повторить
	ErrConflict = errors.New("change_booking: concurrent update, retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_booking: internal error")
)

// RejectionError новое время или состав отклонены; исходное бронирование не тронуто
type RejectionError struct {
	Reason   domain.Reason
	Decision domain.Decision
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("change_booking: rejected: %s", e.Reason)
}

// Unwrap позволяет сравнивать отказ с ErrCapacityExceeded и другими через errors.Is
func (e *RejectionError) Unwrap() error {
	switch e.Reason {
	case domain.ReasonSlotNotOffered:
		return ErrSlotNotOffered
	case domain.ReasonSlotBlocked:
		return ErrSlotBlocked
	case domain.ReasonBelowMinimumParty:
		return ErrBelowMinimumParty
	case domain.ReasonCapacityExceeded:
		return ErrCapacityExceeded
	case domain.ReasonStorageError:
		return ErrStorage
	default:
		return ErrInternal
	}
}
