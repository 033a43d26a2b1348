package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"cabin-booking/internal/booking"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStay() booking.Stay {
	return booking.NewStay(
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
	)
}

func TestField(t *testing.T) {
	exclude := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	assert.Equal(t, "2024-07-01:2024-07-04", Field(testStay(), nil))
	assert.Equal(t, "2024-07-01:2024-07-04:11111111-2222-3333-4444-555555555555", Field(testStay(), &exclude))
}

func TestKeysShareHashTag(t *testing.T) {
	cabin := uuid.MustParse("11111111-2222-3333-4444-555555555555")

	assert.Equal(t, "availability:{11111111-2222-3333-4444-555555555555}", Key(cabin))
	assert.Equal(t, "availability:{11111111-2222-3333-4444-555555555555}:gen", GenKey(cabin))
}

func TestAvailabilityCache_GetHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	mock.ExpectGet(GenKey(cabin)).SetVal("7")
	mock.ExpectHGet(Key(cabin), "2024-07-01:2024-07-04").SetVal("1")

	available, found, gen, err := c.Get(context.Background(), cabin, testStay(), nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, available)
	assert.Equal(t, Generation(7), gen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_GetMissReturnsGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	mock.ExpectGet(GenKey(cabin)).RedisNil()
	mock.ExpectHGet(Key(cabin), "2024-07-01:2024-07-04").RedisNil()

	_, found, gen, err := c.Get(context.Background(), cabin, testStay(), nil)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Generation(0), gen)
}

func TestAvailabilityCache_GetError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	mock.ExpectGet(GenKey(cabin)).SetVal("2")
	mock.ExpectHGet(Key(cabin), "2024-07-01:2024-07-04").SetErr(errors.New("down"))

	_, found, _, err := c.Get(context.Background(), cabin, testStay(), nil)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestAvailabilityCache_SetChecksGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	mock.ExpectEvalSha(setIfCurrent.Hash(), []string{Key(cabin), GenKey(cabin)},
		int64(3), "2024-07-01:2024-07-04", "0", int64(60000)).SetVal(int64(1))

	require.NoError(t, c.Set(context.Background(), cabin, testStay(), nil, 3, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_SetSkippedWhenStale(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	// the script declines the write; that is not an error
	mock.ExpectEvalSha(setIfCurrent.Hash(), []string{Key(cabin), GenKey(cabin)},
		int64(3), "2024-07-01:2024-07-04", "1", int64(60000)).SetVal(int64(0))

	require.NoError(t, c.Set(context.Background(), cabin, testStay(), nil, 3, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityCache_InvalidateAdvancesGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewAvailabilityCache(db, time.Minute)
	cabin := uuid.New()

	mock.ExpectIncr(GenKey(cabin)).SetVal(4)
	mock.ExpectDel(Key(cabin)).SetVal(1)

	require.NoError(t, c.Invalidate(context.Background(), cabin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAvailabilityCache_NilClient(t *testing.T) {
	c := NewAvailabilityCache(nil, time.Minute)

	_, found, _, err := c.Get(context.Background(), uuid.New(), testStay(), nil)
	assert.NoError(t, err)
	assert.False(t, found)
}
