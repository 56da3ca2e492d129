package quote_cart

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("quote_cart: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга корзины не найдена или выключена
	ErrServiceNotFound = errors.New("quote_cart: service not found")

	// ErrStorage услуги или правила скидок прочитать не удалось
	ErrStorage = errors.New("quote_cart: storage error")
)
