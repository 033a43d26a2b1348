package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cabin-booking/pkg/utils"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T) (*RateLimiter, redismock.ClientMock, time.Time) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	l := NewRateLimiter(db, utils.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillInterval: time.Second,
		Prefix:         "rl",
	}, zap.NewNop())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	return l, mock, fixed
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_Allows(t *testing.T) {
	l, mock, now := newTestLimiter(t)
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:ip:10.0.0.1"},
		now.UnixMilli(), int64(2), int64(1000), int64(3)).
		SetVal([]interface{}{int64(1), int64(1), int64(0)})

	req := httptest.NewRequest(http.MethodGet, "/api/cabins", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()

	l.Handler(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_Blocks(t *testing.T) {
	l, mock, now := newTestLimiter(t)
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:ip:10.0.0.1"},
		now.UnixMilli(), int64(2), int64(1000), int64(3)).
		SetVal([]interface{}{int64(0), int64(0), int64(1500)})

	req := httptest.NewRequest(http.MethodGet, "/api/cabins", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()

	l.Handler(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	l, mock, now := newTestLimiter(t)
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{"rl:ip:10.0.0.1"},
		now.UnixMilli(), int64(2), int64(1000), int64(3)).
		SetErr(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/api/cabins", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()

	l.Handler(okHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter(nil, utils.RateLimitConfig{Enabled: false}, zap.NewNop())

	rec := httptest.NewRecorder()
	l.Handler(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	rec := httptest.NewRecorder()
	CORS()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/reservations", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
