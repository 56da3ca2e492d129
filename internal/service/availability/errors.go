package availability

import "errors"

var (
	// ErrInvalidPartySize количество гостей не положительное: некорректный ввод,
	// отличается от отказа BELOW_MINIMUM_PARTY
	ErrInvalidPartySize = errors.New("availability: party size must be positive")

	// ErrServiceRequired проверка вызвана без услуги
	ErrServiceRequired = errors.New("availability: service is required")

	// ErrStorageUnavailable занятость или блокировки прочитать не удалось
	ErrStorageUnavailable = errors.New("availability: storage unavailable")
)
