package events

import "errors"

var (
	// ErrPublish возвращается, когда событие не удалось отправить брокеру
	ErrPublish = errors.New("events client: publish failed")
)
