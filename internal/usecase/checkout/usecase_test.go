package checkout

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	"github.com/m04kA/SMC-SpaBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/availability"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/ledger"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/packs"
	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

// memStore хранилище бронирований в памяти
type memStore struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64
	locked   []domain.SlotKey
	failOn   error
}

func (s *memStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failOn != nil {
		return nil, s.failOn
	}
	s.nextID++
	created := *b
	created.ID = s.nextID
	s.bookings = append(s.bookings, &created)
	return &created, nil
}

func (s *memStore) LockSlot(_ context.Context, key domain.SlotKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = append(s.locked, key)
	return nil
}

func (s *memStore) SumPartySize(_ context.Context, key domain.SlotKey, exclude *int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0
	for _, b := range s.bookings {
		if b.IsActive() && b.Key() == key && (exclude == nil || b.ID != *exclude) {
			sum += b.PartySize
		}
	}
	return sum, nil
}

func (s *memStore) SumPartySizeBySlot(_ context.Context, serviceID int64, date time.Time) (map[types.TimeString]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[types.TimeString]int{}
	for _, b := range s.bookings {
		if b.IsActive() && b.ServiceID == serviceID && b.Date.Equal(date) {
			out[b.Slot] += b.PartySize
		}
	}
	return out, nil
}

func (s *memStore) committed(key domain.SlotKey) int {
	sum, _ := s.SumPartySize(context.Background(), key, nil)
	return sum
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// serialTx выполняет транзакции строго по одной и откатывает вставки при ошибке
type serialTx struct {
	mu    sync.Mutex
	store *memStore
}

func (tx *serialTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	tx.store.mu.Lock()
	mark, nextID := len(tx.store.bookings), tx.store.nextID
	tx.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.store.mu.Lock()
		tx.store.bookings = tx.store.bookings[:mark]
		tx.store.nextID = nextID
		tx.store.mu.Unlock()
		return err
	}
	return nil
}

type memServices map[int64]*domain.Service

func (m memServices) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Service, error) {
	out := make(map[int64]*domain.Service, len(ids))
	for _, id := range ids {
		if s, ok := m[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

type staticRules []*domain.DiscountRule

func (r staticRules) GetActive(context.Context) ([]*domain.DiscountRule, error) {
	return r, nil
}

type recordingEvents struct {
	mu        sync.Mutex
	completed []events.CheckoutCompleted
	err       error
}

func (e *recordingEvents) CheckoutCompleted(_ context.Context, ev events.CheckoutCompleted) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.completed = append(e.completed, ev)
	return e.err
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var monday = time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

func spaServices() memServices {
	return memServices{
		1: {
			ID: 1, Name: "Cabin", Category: domain.CategoryLodging, Pricing: domain.PricingFlat,
			UnitPrice: 80000, Slots: domain.WeeklySlots{time.Monday: {"15:00"}},
			MinPartySize: 1, MaxPartySize: 4, Active: true,
		},
		2: {
			ID: 2, Name: "HotTub", Category: domain.CategoryHotTub, Pricing: domain.PricingFlat,
			UnitPrice: 30000, Slots: domain.WeeklySlots{time.Monday: {"12:00", "14:30"}},
			MinPartySize: 1, MaxPartySize: 6, Active: true,
		},
		3: {
			ID: 3, Name: "Massage", Category: domain.CategoryMassage, Pricing: domain.PricingPerPerson,
			UnitPrice: 25000, Slots: domain.WeeklySlots{time.Monday: {"10:00"}},
			MinPartySize: 1, MaxPartySize: 2, Active: false,
		},
	}
}

type fixture struct {
	uc     *UseCase
	store  *memStore
	events *recordingEvents
}

func newFixture(rules ...*domain.DiscountRule) *fixture {
	store := &memStore{}
	log := logger.NewNop()
	checker := availability.NewChecker(ledger.New(store), nil, nil, log)
	resolver := packs.NewResolver(staticRules(rules), nil, log)
	ev := &recordingEvents{}

	uc := NewUseCase(spaServices(), store, checker, resolver, &serialTx{store: store}, ev, nil, log, time.Second, 10)
	uc.timeProvider = fixedClock{t: monday.Add(8 * time.Hour)}

	return &fixture{uc: uc, store: store, events: ev}
}

func packRule() *domain.DiscountRule {
	return &domain.DiscountRule{
		ID: 1, Name: "Cabin + HotTub", RequiredCategories: []domain.Category{domain.CategoryLodging, domain.CategoryHotTub},
		ValidWeekdays: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), SameDateRequired: true, Amount: 45000, Active: true,
	}
}

func TestUseCase_Execute_Success(t *testing.T) {
	f := newFixture(packRule())

	resp, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{
			{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 4},
			{ServiceID: 1, Date: monday, Slot: "15:00", PartySize: 2},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, int64(2), resp.Bookings[0].ServiceID)
	assert.Equal(t, int64(1), resp.Bookings[1].ServiceID)
	assert.Equal(t, resp.CheckoutRef, resp.Bookings[0].CheckoutRef)
	assert.Equal(t, domain.StatusActive, resp.Bookings[0].Status)
	assert.Equal(t, int64(110000), resp.Resolution.Subtotal)
	assert.Equal(t, int64(65000), resp.Resolution.Total)

	require.Len(t, f.events.completed, 1)
	assert.Equal(t, resp.CheckoutRef, f.events.completed[0].CheckoutRef)
	assert.Len(t, f.events.completed[0].BookingIDs, 2)
}

func TestUseCase_Execute_LocksInKeyOrder(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{
			{ServiceID: 2, Date: monday, Slot: "14:30", PartySize: 1},
			{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1},
			{ServiceID: 1, Date: monday, Slot: "15:00", PartySize: 1},
		},
	})

	require.NoError(t, err)
	require.Len(t, f.store.locked, 3)
	assert.Equal(t, int64(1), f.store.locked[0].ServiceID)
	assert.Equal(t, types.TimeString("12:00"), f.store.locked[1].Slot)
	assert.Equal(t, types.TimeString("14:30"), f.store.locked[2].Slot)
}

func TestUseCase_Execute_SecondBookingExceedsCapacity(t *testing.T) {
	f := newFixture()
	line := Line{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 4}

	_, err := f.uc.Execute(context.Background(), &Request{Lines: []Line{line}})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{Lines: []Line{line}})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, domain.ReasonCapacityExceeded, rejection.Reason)
	assert.Equal(t, 4, rejection.Decision.Committed)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 1, f.store.count())
}

func TestUseCase_Execute_RejectionRollsBackWholeCart(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{
			{ServiceID: 1, Date: monday, Slot: "15:00", PartySize: 2},
			{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 4},
			{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 3},
		},
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, 2, rejection.LineIndex)
	assert.Zero(t, f.store.count())
	assert.Empty(t, f.events.completed)
}

func TestUseCase_Execute_SlotNotOffered(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "16:00", PartySize: 1}},
	})

	assert.ErrorIs(t, err, ErrSlotNotOffered)
}

func TestUseCase_Execute_InvalidInput(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{name: "empty cart", req: &Request{}, want: ErrInvalidInput},
		{name: "zero party", req: &Request{Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00"}}}, want: ErrInvalidInput},
		{name: "bad slot", req: &Request{Lines: []Line{{ServiceID: 2, Date: monday, Slot: "noon", PartySize: 1}}}, want: ErrInvalidInput},
		{name: "past date", req: &Request{Lines: []Line{{ServiceID: 2, Date: monday.AddDate(0, 0, -7), Slot: "12:00", PartySize: 1}}}, want: ErrInvalidDate},
		{name: "unknown service", req: &Request{Lines: []Line{{ServiceID: 99, Date: monday, Slot: "12:00", PartySize: 1}}}, want: ErrServiceNotFound},
		{name: "inactive service", req: &Request{Lines: []Line{{ServiceID: 3, Date: monday, Slot: "10:00", PartySize: 1}}}, want: ErrServiceNotFound},
		{name: "negative gift card", req: &Request{
			Lines:     []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1}},
			GiftCards: []domain.GiftCardLine{{Code: "GC", Amount: -1}},
		}, want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, f.store.count())
}

func TestUseCase_Execute_StorageFailure(t *testing.T) {
	f := newFixture()
	f.store.failOn = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1}},
	})

	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, f.events.completed)
}

func TestUseCase_Execute_SerializationConflict(t *testing.T) {
	f := newFixture()
	f.uc.txManager = conflictTx{}

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1}},
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestUseCase_Execute_TimeoutIsStorageError(t *testing.T) {
	f := newFixture()
	f.uc.timeout = time.Millisecond
	f.uc.txManager = slowTx{}

	_, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1}},
	})

	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, domain.ReasonStorageError, rejection.Reason)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestUseCase_Execute_EventFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.events.err = errors.New("broker down")

	resp, err := f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 1}},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

// Сумма гостей слота никогда не превышает вместимость при конкурентных оформлениях
func TestUseCase_Execute_ConcurrentCapacityInvariant(t *testing.T) {
	f := newFixture()
	key := domain.SlotKey{ServiceID: 2, Date: monday, Slot: "12:00"}

	const workers = 24
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(party int) {
			defer wg.Done()

			_, err := f.uc.Execute(context.Background(), &Request{
				Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: party}},
			})
			if err == nil {
				mu.Lock()
				accepted += party
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrCapacityExceeded)
		}(1 + w%3)
	}
	wg.Wait()

	assert.LessOrEqual(t, f.store.committed(key), 6)
	assert.Equal(t, accepted, f.store.committed(key))
	assert.Positive(t, accepted)
}

type conflictTx struct{}

func (conflictTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return txmanager.ErrSerialization
}

type slowTx struct{}

func (slowTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	<-ctx.Done()
	return ctx.Err()
}

// nopTx транзакция без запросов: хранилище в памяти транзакцию не использует
type nopTx struct{}

func (nopTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (nopTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (nopTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// recordingBeginner запоминает параметры каждой открытой транзакции
type recordingBeginner struct {
	mu   sync.Mutex
	opts []*sql.TxOptions
}

func (b *recordingBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opts = append(b.opts, opts)
	return nopTx{}, nil
}

// Блокировка слота и повторная проверка идут в READ COMMITTED:
// бронь, зафиксированная конкурентом до получения блокировки, видна,
// поэтому второй покупатель получает CAPACITY_EXCEEDED, а не конфликт сериализации
func TestUseCase_Execute_RechecksUnderReadCommitted(t *testing.T) {
	f := newFixture()
	beginner := &recordingBeginner{}
	f.uc.txManager = txmanager.NewTransactionManager(beginner)

	key := domain.SlotKey{ServiceID: 2, Date: monday, Slot: "12:00"}

	// бронь конкурента уже зафиксирована
	_, err := f.store.Create(context.Background(), &domain.Booking{
		ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 2, Status: domain.StatusActive,
	})
	require.NoError(t, err)

	// 2 + 2 <= 6: обе брони помещаются
	_, err = f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, f.store.committed(key))

	// 4 + 4 > 6: отказ по вместимости
	_, err = f.uc.Execute(context.Background(), &Request{
		Lines: []Line{{ServiceID: 2, Date: monday, Slot: "12:00", PartySize: 4}},
	})
	var rejection *RejectionError
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, domain.ReasonCapacityExceeded, rejection.Reason)
	assert.NotErrorIs(t, err, ErrConflict)

	require.Len(t, beginner.opts, 2)
	for _, opts := range beginner.opts {
		require.NotNil(t, opts)
		assert.Equal(t, sql.LevelDefault, opts.Isolation)
		assert.False(t, opts.ReadOnly)
	}
}
