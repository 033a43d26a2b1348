package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cabin-booking/internal/booking"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Generation identifies the state of a cabin's reservations as seen by the
// cache. Invalidate advances it, and Set only stores an answer computed under
// the generation that is still current.
type Generation int64

// AvailabilityCache memoises availability answers per cabin. Every write to a
// cabin's reservations must call Invalidate for that cabin after it commits.
type AvailabilityCache interface {
	// Get returns the cached answer, if any, and the generation to hand back
	// to Set when the answer has to be computed.
	Get(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID) (available, found bool, gen Generation, err error)
	Set(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID, gen Generation, available bool) error
	Invalidate(ctx context.Context, cabinID uuid.UUID) error
}

// setIfCurrent writes the answer only when the cabin's generation still
// matches the one read before the answer was computed.
//
// KEYS[1] answers hash, KEYS[2] generation counter
// ARGV[1] generation, ARGV[2] field, ARGV[3] value, ARGV[4] ttl in ms
var setIfCurrent = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
  return 0
end
redis.call("HSET", KEYS[1], ARGV[2], ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

type redisAvailabilityCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewAvailabilityCache(rdb redis.Cmdable, ttl time.Duration) AvailabilityCache {
	if rdb == nil {
		return NoopAvailabilityCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisAvailabilityCache{rdb: rdb, ttl: ttl}
}

// Key and GenKey share a hash tag so the script touches a single slot.
func Key(cabinID uuid.UUID) string {
	return "availability:{" + cabinID.String() + "}"
}

func GenKey(cabinID uuid.UUID) string {
	return Key(cabinID) + ":gen"
}

func Field(stay booking.Stay, excludeID *uuid.UUID) string {
	f := stay.Start.Format(booking.DateLayout) + ":" + stay.End.Format(booking.DateLayout)
	if excludeID != nil {
		f += ":" + excludeID.String()
	}
	return f
}

func (c *redisAvailabilityCache) Get(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID) (bool, bool, Generation, error) {
	gen, err := c.rdb.Get(ctx, GenKey(cabinID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, false, 0, fmt.Errorf("availability cache generation: %w", err)
	}

	v, err := c.rdb.HGet(ctx, Key(cabinID), Field(stay, excludeID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, Generation(gen), nil
	}
	if err != nil {
		return false, false, 0, fmt.Errorf("availability cache get: %w", err)
	}
	return v == "1", true, Generation(gen), nil
}

// Set stores the answer and refreshes the TTL of the cabin's hash. It is a
// no-op when the cabin was invalidated after gen was read.
func (c *redisAvailabilityCache) Set(ctx context.Context, cabinID uuid.UUID, stay booking.Stay, excludeID *uuid.UUID, gen Generation, available bool) error {
	v := "0"
	if available {
		v = "1"
	}

	keys := []string{Key(cabinID), GenKey(cabinID)}
	err := setIfCurrent.Run(ctx, c.rdb, keys, int64(gen), Field(stay, excludeID), v, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("availability cache set: %w", err)
	}
	return nil
}

// Invalidate advances the generation before dropping the answers, so a
// reader that computed its answer against the old state cannot store it.
func (c *redisAvailabilityCache) Invalidate(ctx context.Context, cabinID uuid.UUID) error {
	if err := c.rdb.Incr(ctx, GenKey(cabinID)).Err(); err != nil {
		return fmt.Errorf("availability cache generation: %w", err)
	}
	if err := c.rdb.Del(ctx, Key(cabinID)).Err(); err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}

// NoopAvailabilityCache is used when Redis is not configured.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, uuid.UUID, booking.Stay, *uuid.UUID) (bool, bool, Generation, error) {
	return false, false, 0, nil
}

func (NoopAvailabilityCache) Set(context.Context, uuid.UUID, booking.Stay, *uuid.UUID, Generation, bool) error {
	return nil
}

func (NoopAvailabilityCache) Invalidate(context.Context, uuid.UUID) error { return nil }
