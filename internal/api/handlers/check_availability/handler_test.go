package check_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
	checkAvailability "github.com/m04kA/SMC-SpaBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *checkAvailability.Request) (*checkAvailability.Response, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*checkAvailability.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

func serve(h *Handler, url string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/services/{serviceId}/availability", h.Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestHandler_Handle_RejectionIsOK(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	monday := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *checkAvailability.Request) bool {
		return req.ServiceID == 1 && req.PartySize == 4 && req.Slot == "12:00" && req.ExcludeBookingID != nil && *req.ExcludeBookingID == 7
	})).Return(&checkAvailability.Response{
		ServiceID: 1, Date: monday, Slot: "12:00", PartySize: 4,
		Decision: domain.Reject(domain.ReasonCapacityExceeded, 4, 6),
	}, nil)

	w := serve(h, "/api/v1/services/1/availability?date=2025-11-10&slot=12:00&partySize=4&excludeBookingId=7")

	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Equal(t, "CAPACITY_EXCEEDED", resp.Reason)
	assert.Equal(t, 4, resp.Committed)
	assert.Equal(t, 6, resp.Capacity)
}

func TestHandler_Handle_BadQuery(t *testing.T) {
	urls := []string{
		"/api/v1/services/abc/availability?date=2025-11-10&slot=12:00&partySize=1",
		"/api/v1/services/1/availability?slot=12:00&partySize=1",
		"/api/v1/services/1/availability?date=2025-11-10&slot=12&partySize=1",
		"/api/v1/services/1/availability?date=2025-11-10&slot=12:00",
	}

	for _, url := range urls {
		t.Run(url, func(t *testing.T) {
			uc := &mockUseCase{}
			h := NewHandler(uc, logger.NewNop())

			w := serve(h, url)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNumberOfCalls(t, "Execute", 0)
		})
	}
}

func TestHandler_Handle_StorageError(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	uc.On("Execute", mock.Anything, mock.Anything).Return(&checkAvailability.Response{
		ServiceID: 1, Slot: "12:00", PartySize: 1,
		Decision: domain.Reject(domain.ReasonStorageError, 0, 6),
	}, checkAvailability.ErrStorage)

	w := serve(h, "/api/v1/services/1/availability?date=2025-11-10&slot=12:00&partySize=1")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "STORAGE_ERROR")
}
