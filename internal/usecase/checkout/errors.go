package checkout

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("checkout: invalid input data")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("checkout: invalid booking date")

	// ErrServiceNotFound возвращается, когда услуга не найдена или выключена
	ErrServiceNotFound = errors.New("checkout: service not found")

	// ErrSlotNotOffered слот отсутствует в меню дня недели
	ErrSlotNotOffered = errors.New("checkout: slot is not offered")

	// ErrSlotBlocked слот закрыт администратором
	ErrSlotBlocked = errors.New("checkout: slot is blocked")

	// ErrBelowMinimumParty гостей меньше минимума услуги
	ErrBelowMinimumParty = errors.New("checkout: party is below service minimum")

	// ErrCapacityExceeded слот заполнен
	ErrCapacityExceeded = errors.New("checkout: slot capacity exceeded")

	// ErrStorage хранилище недоступно или истек таймаут транзакции
	ErrStorage = errors.New("checkout: storage error")

	// ErrConflict конкурентная транзакция помешала оформлению, можно повторить
	ErrConflict = errors.New("checkout: concurrent update, retry")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("checkout: internal error")
)

// RejectionError отказ по строке корзины; вся корзина откатывается
type RejectionError struct {
	Reason    domain.Reason
	LineIndex int
	Decision  domain.Decision
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("checkout: line %d rejected: %s", e.LineIndex, e.Reason)
}

// Unwrap позволяет сравнивать отказ с ErrCapacityExceeded и другими через errors.Is
func (e *RejectionError) Unwrap() error {
	return reasonError(e.Reason)
}

func reasonError(reason domain.Reason) error {
	switch reason {
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
