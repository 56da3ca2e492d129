package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

const metricsSource = "checkout"

// UseCase use case оформления корзины
type UseCase struct {
	serviceRepo  ServiceRepository
	bookingRepo  BookingRepository
	checker      AvailabilityChecker
	resolver     PackResolver
	txManager    TransactionManager
	events       EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	timeout  time.Duration
	maxLines int
}

// NewUseCase создает новый экземпляр use case
// timeout ограничивает транзакцию вставки; 0 означает без ограничения
func NewUseCase(
	serviceRepo ServiceRepository,
	bookingRepo BookingRepository,
	checker AvailabilityChecker,
	resolver PackResolver,
	txManager TransactionManager,
	events EventPublisher,
	metrics Metrics,
	logger Logger,
	timeout time.Duration,
	maxLines int,
) *UseCase {
	return &UseCase{
		serviceRepo:  serviceRepo,
		bookingRepo:  bookingRepo,
		checker:      checker,
		resolver:     resolver,
		txManager:    txManager,
		events:       events,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		timeout:      timeout,
		maxLines:     maxLines,
	}
}

// Execute оформляет корзину целиком или не оформляет ничего
//
// Скидки считаются по снимку правил до транзакции. Затем в одной
// READ COMMITTED транзакции для каждой строки (в порядке услуга, дата, слот)
// берется advisory-блокировка слота, повторно проверяется доступность
// и вставляется бронирование. Любой отказ откатывает все строки.
// SERIALIZABLE здесь не подходит: снимок фиксируется первым запросом,
// то есть до получения блокировки, и конкурент видит устаревшую занятость
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Checkout: lines=%d, giftCards=%d", len(req.Lines), len(req.GiftCards))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxLines); err != nil {
		uc.logger.Warn("Checkout: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if err := validateDates(req.Lines, now); err != nil {
		uc.logger.Warn("Checkout: date validation failed: %v", err)
		return nil, err
	}

	// 2. Снимок услуг
	services, err := uc.loadServices(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	// 3. Корзина и пакетные скидки
	cart := domain.Cart{
		Lines:     make([]domain.CartLineItem, len(req.Lines)),
		GiftCards: req.GiftCards,
		AsOf:      types.DateOnly(now),
	}
	for i, line := range req.Lines {
		cart.Lines[i] = domain.NewCartLineItem(services[line.ServiceID], line.Date, line.Slot, line.PartySize)
	}

	rules, err := uc.resolver.Snapshot(ctx)
	if err != nil {
		uc.logger.Error("Checkout: failed to load discount rules: %v", err)
		return nil, fmt.Errorf("%w: Checkout - load discount rules: %v", ErrStorage, err)
	}
	resolution := uc.resolver.ResolveWith(cart, rules)

	// 4. Атомарная вставка
	checkoutRef := uuid.NewString()
	bookings, err := uc.persist(ctx, req, services, checkoutRef)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Checkout: checkout=%s created %d bookings, subtotal=%d discount=%d total=%d",
		checkoutRef, len(bookings), resolution.Subtotal, resolution.DiscountTotal, resolution.Total)
	if uc.metrics != nil {
		uc.metrics.RecordBookings(metricsSource, len(bookings))
	}

	// 5. Событие после коммита; ошибка брокера не отменяет оформление
	uc.publish(ctx, checkoutRef, bookings, resolution, now)

	return &Response{
		CheckoutRef: checkoutRef,
		Bookings:    bookings,
		Resolution:  resolution,
	}, nil
}

// loadServices читает все услуги корзины одним запросом
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

	services, err := uc.serviceRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("Checkout: failed to load services %v: %v", ids, err)
		return nil, fmt.Errorf("%w: Checkout - load services: %v", ErrStorage, err)
	}

	for _, id := range ids {
		s, ok := services[id]
		if !ok || s == nil || !s.Active {
			uc.logger.Warn("Checkout: service id=%d not found or inactive", id)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
	}

	return services, nil
}

// persist вставляет бронирования всех строк в одной транзакции
func (uc *UseCase) persist(
	ctx context.Context,
	req *Request,
	services map[int64]*domain.Service,
	checkoutRef string,
) ([]*domain.Booking, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	order := lockOrder(req.Lines)
	bookings := make([]*domain.Booking, len(req.Lines))

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, i := range order {
			line := req.Lines[i]
			service := services[line.ServiceID]
			key := lineKey(line)

			if err := uc.bookingRepo.LockSlot(txCtx, key); err != nil {
				uc.logger.Error("Checkout: failed to lock slot %s: %v", key, err)
				return fmt.Errorf("%w: Checkout - lock slot %s: %v", ErrStorage, key, err)
			}

			// Повторная проверка под блокировкой: видит зафиксированные конкурентами строки
			// и строки, вставленные ранее в этой же транзакции
			decision, err := uc.checker.Check(txCtx, service, availability.Request{
				Date:      line.Date,
				Slot:      line.Slot,
				PartySize: line.PartySize,
			})
			if err != nil {
				if errors.Is(err, availability.ErrStorageUnavailable) {
					return fmt.Errorf("%w: Checkout - check line %d: %v", ErrStorage, i, err)
				}
				return fmt.Errorf("%w: Checkout - check line %d: %v", ErrInvalidInput, i, err)
			}
			if !decision.Available {
				uc.logger.Warn("Checkout: line %d (%s) rejected: %s, committed=%d/%d",
					i, key, decision.Reason, decision.Committed, decision.Capacity)
				return &RejectionError{Reason: decision.Reason, LineIndex: i, Decision: decision}
			}

			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				CheckoutRef: checkoutRef,
				ServiceID:   service.ID,
				Date:        key.Date,
				Slot:        line.Slot,
				PartySize:   line.PartySize,
				Status:      domain.StatusActive,
				ServiceName: service.Name,
				Category:    service.Category,
				UnitPrice:   service.UnitPrice,
				Notes:       req.Notes,
			})
			if err != nil {
				uc.logger.Error("Checkout: failed to create booking for line %d: %v", i, err)
				return fmt.Errorf("%w: Checkout - create booking: %v", ErrStorage, err)
			}

			bookings[i] = created
		}
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(ctx, err)
	}

	return bookings, nil
}

func (uc *UseCase) mapTxError(ctx context.Context, err error) error {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection):
		return rejection
	case errors.Is(err, txmanager.ErrSerialization):
		// взаимная блокировка (40P01) при гонке с другими писателями
		uc.logger.Warn("Checkout: serialization conflict: %v", err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case ctx.Err() != nil:
		// Истек таймаут: считаем отказом хранилища, никогда не "доступно"
		uc.logger.Error("Checkout: transaction timed out: %v", err)
		return &RejectionError{Reason: domain.ReasonStorageError, LineIndex: -1}
	case errors.Is(err, ErrStorage), errors.Is(err, ErrInvalidInput):
		return err
	default:
		uc.logger.Error("Checkout: transaction error: %v", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, checkoutRef string, bookings []*domain.Booking, res domain.Resolution, now time.Time) {
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}

	discounts := make([]events.AppliedDiscount, 0, len(res.Applied))
	for _, a := range res.Applied {
		discounts = append(discounts, events.AppliedDiscount{RuleID: a.RuleID, Name: a.RuleName, Amount: a.Amount})
	}

	err := uc.events.CheckoutCompleted(ctx, events.CheckoutCompleted{
		CheckoutRef:   checkoutRef,
		BookingIDs:    ids,
		Subtotal:      res.Subtotal,
		DiscountTotal: res.DiscountTotal,
		Total:         res.Total,
		Discounts:     discounts,
		OccurredAt:    now.UTC(),
	})
	if err != nil {
		uc.logger.Warn("Checkout: failed to publish event for checkout=%s: %v", checkoutRef, err)
	}
}

func lineKey(line Line) domain.SlotKey {
	return domain.SlotKey{ServiceID: line.ServiceID, Date: types.DateOnly(line.Date), Slot: line.Slot}
}

// lockOrder индексы строк в порядке (услуга, дата, слот)
// Одинаковый порядок блокировок во всех оформлениях исключает взаимные блокировки
func lockOrder(lines []Line) []int {
	order := make([]int, len(lines))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lineKey(lines[order[a]]).Less(lineKey(lines[order[b]]))
	})
	return order
}
