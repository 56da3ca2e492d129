package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	events      EventPublisher
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	events EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// ListByCheckout получает все бронирования одного оформления
func (s *Service) ListByCheckout(ctx context.Context, checkoutRef string) (*models.BookingListResponse, error) {
	s.logger.Info("ListByCheckout: fetching bookings for checkout=%s", checkoutRef)

	if strings.TrimSpace(checkoutRef) == "" {
		return nil, fmt.Errorf("%w: checkout reference is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByCheckoutRef(ctx, checkoutRef)
	if err != nil {
		s.logger.Error("ListByCheckout: repository error for checkout=%s: %v", checkoutRef, err)
		return nil, fmt.Errorf("%w: ListByCheckout - repository error: %v", ErrInternal, err)
	}
	if len(bookings) == 0 {
		s.logger.Warn("ListByCheckout: checkout=%s has no bookings", checkoutRef)
		return nil, ErrBookingNotFound
	}

	s.logger.Info("ListByCheckout: successfully fetched %d bookings for checkout=%s", len(bookings), checkoutRef)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет активное бронирование
// Строка читается с блокировкой FOR UPDATE в той же транзакции, что и отмена.
// Освобожденная вместимость сразу доступна новым оформлениям
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d", bookingID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason is too long", ErrInvalidInput)
	}

	var cancelled *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		booking, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				s.logger.Warn("Cancel: booking id=%d not found", bookingID)
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Проверяем, можно ли отменить бронирование
		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrCannotCancel) {
				return ErrCannotCancel
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrCannotCancel) || errors.Is(err, ErrInternal) {
			return err
		}
		s.logger.Error("Cancel: transaction error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)

	// Событие уходит после коммита; ошибка брокера не отменяет отмену
	if err := s.events.BookingCancelled(ctx, events.BookingCancelled{
		BookingID:   cancelled.ID,
		CheckoutRef: cancelled.CheckoutRef,
		ServiceID:   cancelled.ServiceID,
		Date:        cancelled.Date.Format(domain.DateFormat),
		Slot:        cancelled.Slot.String(),
		PartySize:   cancelled.PartySize,
		Reason:      req.CancellationReason,
		OccurredAt:  time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("Cancel: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	return nil
}
