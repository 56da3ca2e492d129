package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Publisher транспорт событий (RabbitMQ)
type Publisher interface {
	PublishJSON(ctx context.Context, key string, messageID string, v any) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправляет доменные события
// Публикация идет после коммита транзакции, поэтому ошибки брокера
// не откатывают бронирования: вызывающий их только логирует
type Client struct {
	publisher Publisher
	timeout   time.Duration
	log       Logger
}

// NewClient создает клиента событий. Без publisher события отбрасываются
func NewClient(publisher Publisher, timeout time.Duration, log Logger) *Client {
	return &Client{
		publisher: publisher,
		timeout:   timeout,
		log:       log,
	}
}

// NewNoop клиент, который ничего не отправляет (events.enabled = false)
func NewNoop(log Logger) *Client {
	return &Client{log: log}
}

// CheckoutCompleted публикует итог оформления
func (c *Client) CheckoutCompleted(ctx context.Context, e CheckoutCompleted) error {
	return c.publish(ctx, KeyCheckoutCompleted, e.CheckoutRef, e)
}

// BookingCancelled публикует отмену бронирования
func (c *Client) BookingCancelled(ctx context.Context, e BookingCancelled) error {
	return c.publish(ctx, KeyBookingCancelled, strconv.FormatInt(e.BookingID, 10), e)
}

// BookingChanged публикует замену бронирования
func (c *Client) BookingChanged(ctx context.Context, e BookingChanged) error {
	return c.publish(ctx, KeyBookingChanged, strconv.FormatInt(e.NewBookingID, 10), e)
}

func (c *Client) publish(ctx context.Context, key, subject string, v any) error {
	if c.publisher == nil {
		return nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messageID := uuid.NewString()
	if err := c.publisher.PublishJSON(ctx, key, messageID, v); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrPublish, key, subject, err)
	}

	c.log.Info("publish: %s sent for %s (message=%s)", key, subject, messageID)
	return nil
}
