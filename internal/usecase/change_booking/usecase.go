package change_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

const metricsSource = "change"

// UseCase use case изменения даты, слота или состава бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	checker      AvailabilityChecker
	txManager    TransactionManager
	events       EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	timeout      time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	checker AvailabilityChecker,
	txManager TransactionManager,
	events EventPublisher,
	metrics Metrics,
	logger Logger,
	timeout time.Duration,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		checker:      checker,
		txManager:    txManager,
		events:       events,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		timeout:      timeout,
	}
}

// Execute заменяет бронирование новым
//
// Размер существующей брони на месте не меняется: в одной READ COMMITTED
// транзакции под advisory-блокировкой нового слота время проверяется без
// учета старой брони, вставляется замена с тем же CheckoutRef, затем
// старая отменяется. Отмена условная (только активной брони), поэтому
// конкурентная отмена или замена той же брони откатывает транзакцию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ChangeBooking: bookingID=%d", req.BookingID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ChangeBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	if req.Date != nil && types.DateOnly(*req.Date).Before(types.DateOnly(now)) {
		uc.logger.Warn("ChangeBooking: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, req.Date.Format(domain.DateFormat))
	}

	txCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var previous, replacement *domain.Booking

	// 2. Замена в одной транзакции
	err := uc.txManager.Do(txCtx, func(txCtx context.Context) error {
		old, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: ChangeBooking - get booking: %v", ErrStorage, err)
		}
		if !old.CanBeChanged() {
			return fmt.Errorf("%w: status is %s", ErrCannotChange, old.Status)
		}

		service, err := uc.serviceRepo.GetByID(txCtx, old.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("%w: ChangeBooking - get service: %v", ErrStorage, err)
		}
		if !service.Active {
			return ErrServiceNotFound
		}

		next := applyChanges(old, req)
		key := next.Key()

		if err := uc.bookingRepo.LockSlot(txCtx, key); err != nil {
			return fmt.Errorf("%w: ChangeBooking - lock slot %s: %v", ErrStorage, key, err)
		}

		decision, err := uc.checker.Check(txCtx, service, availability.Request{
			Date:             key.Date,
			Slot:             key.Slot,
			PartySize:        next.PartySize,
			ExcludeBookingID: &old.ID,
		})
		if err != nil {
			if errors.Is(err, availability.ErrStorageUnavailable) {
				return fmt.Errorf("%w: ChangeBooking - check: %v", ErrStorage, err)
			}
			return fmt.Errorf("%w: ChangeBooking - check: %v", ErrInvalidInput, err)
		}
		if !decision.Available {
			uc.logger.Warn("ChangeBooking: booking %d to %s rejected: %s, committed=%d/%d",
				old.ID, key, decision.Reason, decision.Committed, decision.Capacity)
			return &RejectionError{Reason: decision.Reason, Decision: decision}
		}

		created, err := uc.bookingRepo.Create(txCtx, next)
		if err != nil {
			return fmt.Errorf("%w: ChangeBooking - create replacement: %v", ErrStorage, err)
		}

		reason := fmt.Sprintf("replaced by booking %d", created.ID)
		if err := uc.bookingRepo.Cancel(txCtx, old.ID, reason); err != nil {
			if errors.Is(err, bookingRepo.ErrCannotCancel) {
				return fmt.Errorf("%w: %v", ErrCannotChange, err)
			}
			return fmt.Errorf("%w: ChangeBooking - cancel previous: %v", ErrStorage, err)
		}

		cancelledAt := now
		old.Status = domain.StatusCancelled
		old.CancellationReason = &reason
		old.CancelledAt = &cancelledAt

		previous, replacement = old, created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(txCtx, req.BookingID, err)
	}

	uc.logger.Info("ChangeBooking: booking %d replaced by %d (checkout=%s)",
		previous.ID, replacement.ID, replacement.CheckoutRef)
	if uc.metrics != nil {
		uc.metrics.RecordBookings(metricsSource, 1)
	}

	// 3. Событие после коммита
	if err := uc.events.BookingChanged(ctx, events.BookingChanged{
		OldBookingID: previous.ID,
		NewBookingID: replacement.ID,
		CheckoutRef:  replacement.CheckoutRef,
		OccurredAt:   now.UTC(),
	}); err != nil {
		uc.logger.Warn("ChangeBooking: failed to publish event for booking=%d: %v", replacement.ID, err)
	}

	return &Response{Previous: previous, Booking: replacement}, nil
}

func (uc *UseCase) mapTxError(ctx context.Context, bookingID int64, err error) error {
	var rejection *RejectionError
	switch {
	case errors.As(err, &rejection):
		return rejection
	case errors.Is(err, ErrBookingNotFound):
		uc.logger.Warn("ChangeBooking: booking id=%d not found", bookingID)
		return err
	case errors.Is(err, ErrCannotChange), errors.Is(err, ErrServiceNotFound), errors.Is(err, ErrInvalidInput):
		uc.logger.Warn("ChangeBooking: booking id=%d: %v", bookingID, err)
		return err
	case errors.Is(err, txmanager.ErrSerialization):
		uc.logger.Warn("ChangeBooking: serialization conflict: %v", err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case ctx.Err() != nil:
		uc.logger.Error("ChangeBooking: transaction timed out: %v", err)
		return &RejectionError{Reason: domain.ReasonStorageError}
	case errors.Is(err, ErrStorage):
		uc.logger.Error("ChangeBooking: %v", err)
		return err
	default:
		uc.logger.Error("ChangeBooking: transaction error: %v", err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

// applyChanges строит замену; денормализованные поля копируются из исходной брони
func applyChanges(old *domain.Booking, req *Request) *domain.Booking {
	next := &domain.Booking{
		CheckoutRef: old.CheckoutRef,
		ServiceID:   old.ServiceID,
		Date:        old.Date,
		Slot:        old.Slot,
		PartySize:   old.PartySize,
		Status:      domain.StatusActive,
		ServiceName: old.ServiceName,
		Category:    old.Category,
		UnitPrice:   old.UnitPrice,
		Notes:       old.Notes,
	}
	if req.Date != nil {
		next.Date = types.DateOnly(*req.Date)
	}
	if req.Slot != nil {
		next.Slot = *req.Slot
	}
	if req.PartySize != nil {
		next.PartySize = *req.PartySize
	}
	if req.Notes != nil {
		next.Notes = req.Notes
	}
	return next
}
