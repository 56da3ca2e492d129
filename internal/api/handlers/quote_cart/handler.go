package quote_cart

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SpaBookingService/internal/api/handlers"
	quoteCart "github.com/m04kA/SMC-SpaBookingService/internal/usecase/quote_cart"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLine        = "некорректная позиция корзины: ожидается дата YYYY-MM-DD и слот HH:MM"
	msgInvalidData        = "некорректные данные корзины"
	msgServiceNotFound    = "услуга не найдена"
	msgStorageError       = "хранилище временно недоступно"
)

type Handler struct {
	useCase QuoteCartUseCase
	logger  Logger
}

func NewHandler(useCase QuoteCartUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/cart/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /cart/quote - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /cart/quote - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLine)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, quoteCart.ErrInvalidInput):
			h.logger.Warn("POST /cart/quote - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, quoteCart.ErrServiceNotFound):
			h.logger.Warn("POST /cart/quote - Service not found: %v", err)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, quoteCart.ErrStorage):
			h.logger.Error("POST /cart/quote - Storage error: %v", err)
			handlers.RespondServiceUnavailable(w, msgStorageError)

		default:
			h.logger.Error("POST /cart/quote - Failed to quote cart: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /cart/quote - Cart quoted: lines=%d, discounts=%d, total=%d",
		len(result.Lines), len(result.Resolution.Applied), result.Resolution.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
