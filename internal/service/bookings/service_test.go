package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListByCheckoutRef(ctx context.Context, checkoutRef string) ([]*domain.Booking, error) {
	args := m.Called(ctx, checkoutRef)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) Cancel(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) BookingCancelled(ctx context.Context, e events.BookingCancelled) error {
	return m.Called(ctx, e).Error(0)
}

// passTx выполняет fn без реальной транзакции
type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func activeBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		CheckoutRef: "2b1f4c3e-0000-4000-8000-000000000001",
		ServiceID:   1,
		Date:        time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
		Slot:        "12:00",
		PartySize:   4,
		Status:      domain.StatusActive,
		ServiceName: "HotTub",
		Category:    domain.CategoryHotTub,
		UnitPrice:   30000,
	}
}

func newService(repo *mockRepo, ev *mockEvents) *Service {
	return NewService(repo, passTx{}, ev, logger.NewNop())
}

func TestService_GetByID_Success(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockEvents{})

	repo.On("GetByID", mock.Anything, int64(1)).Return(activeBooking(1), nil)

	resp, err := svc.GetByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "2025-11-10", resp.Date)
	assert.Equal(t, "12:00", resp.Slot)
	assert.Equal(t, "HOT_TUB", resp.Category)
}

func TestService_GetByID_NotFound(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockEvents{})

	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := svc.GetByID(context.Background(), 9)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListByCheckout(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockEvents{})

	ref := activeBooking(1).CheckoutRef
	repo.On("ListByCheckoutRef", mock.Anything, ref).Return([]*domain.Booking{activeBooking(1), activeBooking(2)}, nil)
	repo.On("ListByCheckoutRef", mock.Anything, "unknown").Return([]*domain.Booking{}, nil)

	resp, err := svc.ListByCheckout(context.Background(), ref)
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = svc.ListByCheckout(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.ListByCheckout(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Cancel_Success(t *testing.T) {
	repo := &mockRepo{}
	ev := &mockEvents{}
	svc := newService(repo, ev)

	repo.On("GetByID", mock.Anything, int64(1)).Return(activeBooking(1), nil)
	repo.On("Cancel", mock.Anything, int64(1), "guest request").Return(nil)
	ev.On("BookingCancelled", mock.Anything, mock.MatchedBy(func(e events.BookingCancelled) bool {
		return e.BookingID == 1 && e.Slot == "12:00" && e.Reason == "guest request"
	})).Return(nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{CancellationReason: "guest request"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
	ev.AssertExpectations(t)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	repo := &mockRepo{}
	ev := &mockEvents{}
	svc := newService(repo, ev)

	b := activeBooking(1)
	b.Status = domain.StatusCancelled
	repo.On("GetByID", mock.Anything, int64(1)).Return(b, nil)

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrCannotCancel)
	repo.AssertNumberOfCalls(t, "Cancel", 0)
	ev.AssertNumberOfCalls(t, "BookingCancelled", 0)
}

func TestService_Cancel_EventFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{}
	ev := &mockEvents{}
	svc := newService(repo, ev)

	repo.On("GetByID", mock.Anything, int64(1)).Return(activeBooking(1), nil)
	repo.On("Cancel", mock.Anything, int64(1), "").Return(nil)
	ev.On("BookingCancelled", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	assert.NoError(t, err)
}

func TestService_Cancel_RepositoryError(t *testing.T) {
	repo := &mockRepo{}
	svc := newService(repo, &mockEvents{})

	repo.On("GetByID", mock.Anything, int64(1)).Return(activeBooking(1), nil)
	repo.On("Cancel", mock.Anything, int64(1), "").Return(errors.New("connection reset"))

	err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{})

	assert.ErrorIs(t, err, ErrInternal)
}
