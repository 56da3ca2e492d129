package quote_cart

import (
	"context"

	quoteCart "github.com/m04kA/SMC-SpaBookingService/internal/usecase/quote_cart"
)

type QuoteCartUseCase interface {
	Execute(ctx context.Context, req *quoteCart.Request) (*quoteCart.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
