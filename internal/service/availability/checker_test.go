package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Committed(ctx context.Context, serviceID int64, date time.Time, slot types.TimeString, excludeBookingID *int64) (int, error) {
	args := m.Called(ctx, serviceID, date, slot, excludeBookingID)
	return args.Int(0), args.Error(1)
}

type mockBlocks struct {
	mock.Mock
}

func (m *mockBlocks) GetActiveForDate(ctx context.Context, serviceID int64, date time.Time) ([]*domain.SlotBlock, error) {
	args := m.Called(ctx, serviceID, date)
	if v := args.Get(0); v != nil {
		return v.([]*domain.SlotBlock), args.Error(1)
	}
	return nil, args.Error(1)
}

type countingMetrics struct {
	reasons []string
}

func (m *countingMetrics) RecordAvailability(reason string) {
	m.reasons = append(m.reasons, reason)
}

var monday = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func hotTub() *domain.Service {
	return &domain.Service{
		ID:           1,
		Name:         "HotTub",
		Category:     domain.CategoryHotTub,
		Pricing:      domain.PricingFlat,
		UnitPrice:    30000,
		Slots:        domain.WeeklySlots{time.Monday: {"12:00", "14:30"}},
		MinPartySize: 1,
		MaxPartySize: 6,
		Active:       true,
	}
}

func newChecker(l CapacityLedger, b BlockRepository) (*Checker, *countingMetrics) {
	m := &countingMetrics{}
	return NewChecker(l, b, m, logger.NewNop()), m
}

func TestChecker_Check_CapacityExceeded(t *testing.T) {
	// Вторая бронь на 4 гостя при занятых 4 из 6 не помещается
	l := &mockLedger{}
	c, m := newChecker(l, nil)

	l.On("Committed", mock.Anything, int64(1), monday, types.TimeString("12:00"), (*int64)(nil)).Return(4, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 4})

	require.NoError(t, err)
	assert.False(t, d.Available)
	assert.Equal(t, domain.ReasonCapacityExceeded, d.Reason)
	assert.Equal(t, 4, d.Committed)
	assert.Equal(t, 6, d.Capacity)
	assert.Equal(t, []string{"CAPACITY_EXCEEDED"}, m.reasons)
}

func TestChecker_Check_FirstBookingAccepted(t *testing.T) {
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	l.On("Committed", mock.Anything, int64(1), monday, types.TimeString("12:00"), (*int64)(nil)).Return(0, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 4})

	require.NoError(t, err)
	assert.True(t, d.Available)
	assert.Empty(t, d.Reason)
	assert.Equal(t, 6, d.Remaining())
}

func TestChecker_Check_ExactFillAllowed(t *testing.T) {
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	l.On("Committed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(4, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 2})

	require.NoError(t, err)
	assert.True(t, d.Available)
}

func TestChecker_Check_SlotNotOffered(t *testing.T) {
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "16:00", PartySize: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.ReasonSlotNotOffered, d.Reason)
	// вместимость не запрашивается
	l.AssertNumberOfCalls(t, "Committed", 0)
}

func TestChecker_Check_ClosedWeekday(t *testing.T) {
	c, _ := newChecker(&mockLedger{}, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday.AddDate(0, 0, 1), Slot: "12:00", PartySize: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.ReasonSlotNotOffered, d.Reason)
}

func TestChecker_Check_ZeroPartyIsMalformed(t *testing.T) {
	s := hotTub()
	s.MinPartySize = 2
	c, m := newChecker(&mockLedger{}, nil)

	_, err := c.Check(context.Background(), s, Request{Date: monday, Slot: "12:00", PartySize: 0})

	assert.ErrorIs(t, err, ErrInvalidPartySize)
	assert.Empty(t, m.reasons)

	_, err = c.Check(context.Background(), s, Request{Date: monday, Slot: "12:00", PartySize: -3})
	assert.ErrorIs(t, err, ErrInvalidPartySize)
}

func TestChecker_Check_BelowMinimumParty(t *testing.T) {
	s := hotTub()
	s.MinPartySize = 2
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	d, err := c.Check(context.Background(), s, Request{Date: monday, Slot: "12:00", PartySize: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.ReasonBelowMinimumParty, d.Reason)
	l.AssertNumberOfCalls(t, "Committed", 0)
}

func TestChecker_Check_StorageError(t *testing.T) {
	l := &mockLedger{}
	c, m := newChecker(l, nil)

	l.On("Committed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, errors.New("connection refused"))

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 1})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.False(t, d.Available)
	assert.Equal(t, domain.ReasonStorageError, d.Reason)
	assert.Equal(t, []string{"STORAGE_ERROR"}, m.reasons)
	assert.False(t, c.IsAvailable(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 1}))
}

func TestChecker_Check_ExcludesEditedBooking(t *testing.T) {
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	exclude := ptr.Ptr(int64(7))
	// без исключения занято 6 из 6, без редактируемой брони (4 гостя) - 2
	l.On("Committed", mock.Anything, int64(1), monday, types.TimeString("12:00"), exclude).Return(2, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 4, ExcludeBookingID: exclude})

	require.NoError(t, err)
	assert.True(t, d.Available)
	l.AssertExpectations(t)
}

func TestChecker_Check_SlotBlocked(t *testing.T) {
	l := &mockLedger{}
	b := &mockBlocks{}
	c, _ := newChecker(l, b)

	b.On("GetActiveForDate", mock.Anything, int64(1), monday).Return([]*domain.SlotBlock{
		{ServiceID: 1, DateFrom: monday, DateTo: monday, Slot: ptr.Ptr(types.TimeString("12:00")), Active: true},
	}, nil)
	l.On("Committed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(0, nil)

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonSlotBlocked, d.Reason)

	// другой слот того же дня открыт
	d, err = c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "14:30", PartySize: 1})
	require.NoError(t, err)
	assert.True(t, d.Available)
}

func TestChecker_Check_BlockLookupFailure(t *testing.T) {
	b := &mockBlocks{}
	c, _ := newChecker(&mockLedger{}, b)

	b.On("GetActiveForDate", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	d, err := c.Check(context.Background(), hotTub(), Request{Date: monday, Slot: "12:00", PartySize: 1})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, domain.ReasonStorageError, d.Reason)
}

func TestChecker_Check_Idempotent(t *testing.T) {
	l := &mockLedger{}
	c, _ := newChecker(l, nil)

	l.On("Committed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(5, nil)

	req := Request{Date: monday, Slot: "14:30", PartySize: 2}
	first, err1 := c.Check(context.Background(), hotTub(), req)
	second, err2 := c.Check(context.Background(), hotTub(), req)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.Equal(t, domain.ReasonCapacityExceeded, first.Reason)
}

func TestChecker_Check_NilService(t *testing.T) {
	c, _ := newChecker(&mockLedger{}, nil)

	_, err := c.Check(context.Background(), nil, Request{Date: monday, Slot: "12:00", PartySize: 1})

	assert.ErrorIs(t, err, ErrServiceRequired)
}
