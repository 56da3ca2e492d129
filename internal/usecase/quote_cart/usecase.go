package quote_cart

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// UseCase use case предварительного расчета корзины
type UseCase struct {
	serviceRepo  ServiceRepository
	resolver     PackResolver
	timeProvider TimeProvider
	logger       Logger
	maxLines     int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(serviceRepo ServiceRepository, resolver PackResolver, logger Logger, maxLines int) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		resolver:     resolver,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		maxLines:     maxLines,
	}
}

// Execute считает подытог, пакетные скидки и подсказки для корзины
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QuoteCart: lines=%d, giftCards=%d", len(req.Lines), len(req.GiftCards))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxLines); err != nil {
		uc.logger.Warn("QuoteCart: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимок услуг
	services, err := uc.loadServices(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	// 3. Корзина
	asOf := types.DateOnly(uc.timeProvider.Now())
	if req.AsOf != nil {
		asOf = types.DateOnly(*req.AsOf)
	}

	cart := domain.Cart{
		Lines:     make([]domain.CartLineItem, len(req.Lines)),
		GiftCards: req.GiftCards,
		AsOf:      asOf,
	}
	for i, line := range req.Lines {
		cart.Lines[i] = domain.NewCartLineItem(services[line.ServiceID], line.Date, line.Slot, line.PartySize)
	}

	// 4. Скидки и подсказки по одному снимку правил
	resolution, suggestions, err := uc.resolver.Quote(ctx, cart)
	if err != nil {
		uc.logger.Error("QuoteCart: failed to resolve packs: %v", err)
		return nil, fmt.Errorf("%w: QuoteCart - resolve: %v", ErrStorage, err)
	}

	if suggestions == nil {
		suggestions = []domain.PackSuggestion{}
	}

	return &Response{
		Lines:       cart.Lines,
		GiftCards:   cart.GiftCards,
		Resolution:  resolution,
		Suggestions: suggestions,
	}, nil
}

func (uc *UseCase) loadServices(ctx context.Context, lines []Line) (map[int64]*domain.Service, error) {
	ids := make([]int64, 0, len(lines))
	seen := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ServiceID]; ok {
			continue
		}
		seen[line.ServiceID] = struct{}{}
		ids = append(ids, line.ServiceID)
	}

	if len(ids) == 0 {
		return map[int64]*domain.Service{}, nil
	}

	services, err := uc.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("QuoteCart: failed to load services %v: %v", ids, err)
		return nil, fmt.Errorf("%w: QuoteCart - load services: %v", ErrStorage, err)
	}

	for _, id := range ids {
		s, ok := services[id]
		if !ok || s == nil || !s.Active {
			uc.logger.Warn("QuoteCart: service id=%d not found or inactive", id)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
	}

	return services, nil
}
