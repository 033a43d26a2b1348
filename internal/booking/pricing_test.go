package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice(t *testing.T) {
	stay := NewStay(date(t, "2021-01-01"), date(t, "2021-01-03"))

	q, err := Price(stay, decimal.NewFromInt(100), []decimal.Decimal{decimal.NewFromInt(10)})
	require.NoError(t, err)

	assert.Equal(t, 2, q.Nights)
	assert.True(t, q.CabinSubtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, q.ServicesSubtotal.Equal(decimal.NewFromInt(10)))
	assert.True(t, q.Total.Equal(decimal.NewFromInt(210)))
}

func TestPrice_NoServices(t *testing.T) {
	stay := NewStay(date(t, "2021-01-01"), date(t, "2021-01-02"))

	q, err := Price(stay, decimal.RequireFromString("89.90"), nil)
	require.NoError(t, err)

	assert.True(t, q.ServicesSubtotal.IsZero())
	assert.Equal(t, "89.90", q.Total.StringFixed(2))
}

func TestPrice_KeepsCents(t *testing.T) {
	stay := NewStay(date(t, "2021-01-01"), date(t, "2021-01-04"))
	services := []decimal.Decimal{
		decimal.RequireFromString("0.10"),
		decimal.RequireFromString("0.20"),
	}

	q, err := Price(stay, decimal.RequireFromString("33.33"), services)
	require.NoError(t, err)

	assert.Equal(t, "99.99", q.CabinSubtotal.StringFixed(2))
	assert.Equal(t, "0.30", q.ServicesSubtotal.StringFixed(2))
	assert.Equal(t, "100.29", q.Total.StringFixed(2))
}

func TestPrice_InvertedRange(t *testing.T) {
	stay := NewStay(date(t, "2021-01-04"), date(t, "2021-01-01"))

	_, err := Price(stay, decimal.NewFromInt(100), nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPrice_Idempotent(t *testing.T) {
	stay := NewStay(date(t, "2021-01-01"), date(t, "2021-01-03"))
	rate := decimal.NewFromInt(100)
	services := []decimal.Decimal{decimal.NewFromInt(10)}

	first, err := Price(stay, rate, services)
	require.NoError(t, err)
	second, err := Price(stay, rate, services)
	require.NoError(t, err)

	assert.True(t, first.Total.Equal(second.Total))
}
