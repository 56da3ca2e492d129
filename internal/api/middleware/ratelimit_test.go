package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SpaBookingService/pkg/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func request(ip string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	r.RemoteAddr = ip + ":51234"
	return r
}

func TestRateLimiter_Limit_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, logger.NewNop())
	h := rl.Limit(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, request("10.0.0.1"))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_Limit_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, logger.NewNop())
	h := rl.Limit(okHandler())

	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, request("10.0.0.1"))
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, request("10.0.0.2"))

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1, logger.NewNop())
	now := time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(visitorTTL + time.Second)
	rl.getLimiter("10.0.0.2")

	assert.Len(t, rl.visitors, 1)
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestClientIP_ForwardedFor(t *testing.T) {
	r := request("10.0.0.1")
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", clientIP(r))
}
