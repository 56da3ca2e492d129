package check_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или выключена
	ErrServiceNotFound = errors.New("check_availability: service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("check_availability: invalid input data")

	// ErrStorage хранилище недоступно; решение STORAGE_ERROR
	ErrStorage = errors.New("check_availability: storage error")
)
