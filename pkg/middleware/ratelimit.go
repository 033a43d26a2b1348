package middleware

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"cabin-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// tokenBucketScript refills the bucket for the elapsed whole intervals, then
// takes one token if available. Returns {allowed, remaining, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals)
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RateLimiter is a per-client token bucket kept in Redis so every replica
// shares the same budget.
type RateLimiter struct {
	rdb    redis.Scripter
	cfg    utils.RateLimitConfig
	logger *zap.Logger
	now    func() time.Time
}

func NewRateLimiter(rdb redis.Scripter, cfg utils.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		cfg:    cfg,
		logger: logger.With(zap.String("middleware", "ratelimit")),
		now:    time.Now,
	}
}

// Handler fails open: a Redis error lets the request through.
func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	if l == nil || !l.cfg.Enabled || l.rdb == nil || l.cfg.Capacity <= 0 {
		return next
	}

	ttl := int64(math.Ceil(float64(l.cfg.Capacity)*l.cfg.RefillInterval.Seconds())) + 1

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)

		vals, err := tokenBucketScript.Run(r.Context(), l.rdb, []string{key},
			l.now().UnixMilli(),
			int64(l.cfg.Capacity),
			l.cfg.RefillInterval.Milliseconds(),
			ttl,
		).Int64Slice()
		if err != nil || len(vals) != 3 {
			l.logger.Warn("Rate limit check failed", zap.String("key", key), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(vals[1], 10))

		if vals[0] != 1 {
			secs := int64(math.Ceil(float64(vals[2]) / 1000.0))
			w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
			l.logger.Info("Rate limit exceeded", zap.String("key", key))
			utils.ResponseTooManyRequests(w, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) key(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || ip == "" {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("%s:ip:%s", l.cfg.Prefix, ip)
}
