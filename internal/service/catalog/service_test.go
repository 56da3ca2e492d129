package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/catalog"
	discountRepo "github.com/m04kA/SMC-SpaBookingService/internal/infra/storage/discount"
	"github.com/m04kA/SMC-SpaBookingService/internal/service/catalog/models"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
	"github.com/m04kA/SMC-SpaBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SpaBookingService/pkg/types"
)

type mockServiceRepo struct {
	mock.Mock
}

func (m *mockServiceRepo) Create(ctx context.Context, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, s)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, id int64, s *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, id, s)
	if v := args.Get(0); v != nil {
		return v.(*domain.Service), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRuleRepo struct {
	mock.Mock
}

func (m *mockRuleRepo) Create(ctx context.Context, r *domain.DiscountRule) (*domain.DiscountRule, error) {
	args := m.Called(ctx, r)
	if v := args.Get(0); v != nil {
		return v.(*domain.DiscountRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) GetByID(ctx context.Context, id int64) (*domain.DiscountRule, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.DiscountRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) GetActive(ctx context.Context) ([]*domain.DiscountRule, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]*domain.DiscountRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRuleRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type mockBlockRepo struct {
	mock.Mock
}

func (m *mockBlockRepo) Create(ctx context.Context, b *domain.SlotBlock) (*domain.SlotBlock, error) {
	args := m.Called(ctx, b)
	if v := args.Get(0); v != nil {
		return v.(*domain.SlotBlock), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlockRepo) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func newService() (*Service, *mockServiceRepo, *mockRuleRepo, *mockBlockRepo) {
	sr, rr, br := &mockServiceRepo{}, &mockRuleRepo{}, &mockBlockRepo{}
	return NewService(sr, rr, br, logger.NewNop()), sr, rr, br
}

func hotTubRequest() *models.CreateServiceRequest {
	return &models.CreateServiceRequest{
		Name:         "HotTub",
		Category:     "hot_tub",
		PricingMode:  "flat",
		UnitPrice:    30000,
		Slots:        domain.WeeklySlots{time.Monday: {"14:30", "12:00"}},
		MinPartySize: 1,
		MaxPartySize: 6,
	}
}

func TestService_CreateService_Success(t *testing.T) {
	svc, sr, _, _ := newService()

	sr.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Service) bool {
		// меню дня сортируется перед сохранением
		return s.Category == domain.CategoryHotTub &&
			s.Slots[time.Monday][0] == types.TimeString("12:00") && s.Active
	})).Return(&domain.Service{ID: 1, Name: "HotTub", Category: domain.CategoryHotTub}, nil)

	resp, err := svc.CreateService(context.Background(), hotTubRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	sr.AssertExpectations(t)
}

func TestService_CreateService_Invalid(t *testing.T) {
	svc, sr, _, _ := newService()

	req := hotTubRequest()
	req.MaxPartySize = 0
	_, err := svc.CreateService(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = hotTubRequest()
	req.Category = "sauna"
	_, err = svc.CreateService(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	sr.AssertNumberOfCalls(t, "Create", 0)
}

func TestService_CreateService_Duplicate(t *testing.T) {
	svc, sr, _, _ := newService()

	sr.On("Create", mock.Anything, mock.Anything).Return(nil, catalogRepo.ErrDuplicateService)

	_, err := svc.CreateService(context.Background(), hotTubRequest())

	assert.ErrorIs(t, err, ErrServiceAlreadyExists)
}

func TestService_UpdateService_Partial(t *testing.T) {
	svc, sr, _, _ := newService()

	existing := &domain.Service{
		ID: 1, Name: "HotTub", Category: domain.CategoryHotTub, Pricing: domain.PricingFlat,
		UnitPrice: 30000, MinPartySize: 1, MaxPartySize: 6, Active: true,
	}
	sr.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)
	sr.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(s *domain.Service) bool {
		return s.MaxPartySize == 8 && s.UnitPrice == 30000
	})).Return(existing, nil)

	resp, err := svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{MaxPartySize: ptr.Ptr(8)})

	require.NoError(t, err)
	assert.Equal(t, 8, resp.MaxPartySize)
}

func TestService_UpdateService_BreaksInvariant(t *testing.T) {
	svc, sr, _, _ := newService()

	sr.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{
		ID: 1, Name: "HotTub", Category: domain.CategoryHotTub, Pricing: domain.PricingFlat,
		MinPartySize: 2, MaxPartySize: 6,
	}, nil)

	_, err := svc.UpdateService(context.Background(), 1, &models.UpdateServiceRequest{MaxPartySize: ptr.Ptr(1)})

	assert.ErrorIs(t, err, ErrInvalidInput)
	sr.AssertNumberOfCalls(t, "Update", 0)
}

func TestService_UpdateService_NotFound(t *testing.T) {
	svc, sr, _, _ := newService()

	sr.On("GetByID", mock.Anything, int64(5)).Return(nil, catalogRepo.ErrServiceNotFound)

	_, err := svc.UpdateService(context.Background(), 5, &models.UpdateServiceRequest{})

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_CreateDiscountRule(t *testing.T) {
	svc, _, rr, _ := newService()

	req := &models.CreateDiscountRuleRequest{
		Name:               "Cabin + HotTub",
		RequiredCategories: []string{"LODGING", "HOT_TUB"},
		ValidWeekdays:      []string{"sunday", "monday", "tuesday", "wednesday", "thursday"},
		StartDate:          "2025-01-01",
		SameDateRequired:   true,
		Priority:           10,
		Amount:             45000,
	}

	rr.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.DiscountRule) bool {
		return len(r.RequiredCategories) == 2 && len(r.ValidWeekdays) == 5 && r.EndDate == nil
	})).Return(&domain.DiscountRule{ID: 3, Name: req.Name, RequiredCategories: []domain.Category{domain.CategoryLodging, domain.CategoryHotTub}}, nil)

	resp, err := svc.CreateDiscountRule(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, []string{"LODGING", "HOT_TUB"}, resp.RequiredCategories)
}

func TestService_CreateDiscountRule_Malformed(t *testing.T) {
	svc, _, rr, _ := newService()

	tests := []struct {
		name string
		req  models.CreateDiscountRuleRequest
	}{
		{name: "no categories", req: models.CreateDiscountRuleRequest{Name: "x", StartDate: "2025-01-01", Amount: 1}},
		{name: "unknown weekday", req: models.CreateDiscountRuleRequest{Name: "x", RequiredCategories: []string{"LODGING"}, ValidWeekdays: []string{"funday"}, StartDate: "2025-01-01", Amount: 1}},
		{name: "zero amount", req: models.CreateDiscountRuleRequest{Name: "x", RequiredCategories: []string{"LODGING"}, StartDate: "2025-01-01"}},
		{name: "end before start", req: models.CreateDiscountRuleRequest{Name: "x", RequiredCategories: []string{"LODGING"}, StartDate: "2025-02-01", EndDate: ptr.Ptr("2025-01-01"), Amount: 1}},
		{name: "bad date", req: models.CreateDiscountRuleRequest{Name: "x", RequiredCategories: []string{"LODGING"}, StartDate: "01.01.2025", Amount: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDiscountRule(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
	rr.AssertNumberOfCalls(t, "Create", 0)
}

func TestService_SetDiscountRuleActive(t *testing.T) {
	svc, _, rr, _ := newService()

	rr.On("SetActive", mock.Anything, int64(1), false).Return(nil)
	rr.On("SetActive", mock.Anything, int64(2), false).Return(discountRepo.ErrRuleNotFound)

	assert.NoError(t, svc.SetDiscountRuleActive(context.Background(), 1, false))
	assert.ErrorIs(t, svc.SetDiscountRuleActive(context.Background(), 2, false), ErrRuleNotFound)
}

func TestService_CreateSlotBlock(t *testing.T) {
	svc, sr, _, br := newService()

	sr.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1}, nil)
	br.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.SlotBlock) bool {
		return b.Slot != nil && *b.Slot == "12:00" && b.Active
	})).Return(&domain.SlotBlock{ID: 4, ServiceID: 1, Slot: ptr.Ptr(types.TimeString("12:00"))}, nil)

	resp, err := svc.CreateSlotBlock(context.Background(), &models.CreateSlotBlockRequest{
		ServiceID: 1, DateFrom: "2025-11-10", DateTo: "2025-11-12", Slot: ptr.Ptr("12:00"), Reason: "maintenance",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.ID)
	assert.Equal(t, "12:00", *resp.Slot)
}

func TestService_CreateSlotBlock_Invalid(t *testing.T) {
	svc, sr, _, br := newService()

	_, err := svc.CreateSlotBlock(context.Background(), &models.CreateSlotBlockRequest{
		ServiceID: 1, DateFrom: "2025-11-12", DateTo: "2025-11-10",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	sr.On("GetByID", mock.Anything, int64(9)).Return(nil, catalogRepo.ErrServiceNotFound)
	_, err = svc.CreateSlotBlock(context.Background(), &models.CreateSlotBlockRequest{
		ServiceID: 9, DateFrom: "2025-11-10", DateTo: "2025-11-10",
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	br.AssertNumberOfCalls(t, "Create", 0)
}

func TestService_ListActiveDiscountRules_StorageError(t *testing.T) {
	svc, _, rr, _ := newService()

	rr.On("GetActive", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.ListActiveDiscountRules(context.Background())

	assert.ErrorIs(t, err, ErrInternal)
}
