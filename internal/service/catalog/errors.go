package catalog

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceAlreadyExists возвращается при попытке создать услугу с занятым именем
	ErrServiceAlreadyExists = errors.New("service already exists")

	// ErrRuleNotFound возвращается, когда пакетная скидка не найдена
	ErrRuleNotFound = errors.New("discount rule not found")

	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = errors.New("slot block not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
