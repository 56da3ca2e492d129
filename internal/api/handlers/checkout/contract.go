package checkout

import (
	"context"

	checkoutUC "github.com/m04kA/SMC-SpaBookingService/internal/usecase/checkout"
)

type CheckoutUseCase interface {
	Execute(ctx context.Context, req *checkoutUC.Request) (*checkoutUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
