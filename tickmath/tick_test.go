package tickmath_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/tickmath"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPriceToTickAnchors(t *testing.T) {
	// Price one is tick zero by construction.
	tick, err := tickmath.PriceToTick(dec("1"), -6, 100, tickmath.BoundLower)
	assert.NoError(t, err)
	assert.Equal(t, tick, int64(0))

	// One full decade up spans 9 * 10^6 ticks.
	tick, err = tickmath.PriceToTick(dec("10"), -6, 100, tickmath.BoundUpper)
	assert.NoError(t, err)
	assert.Equal(t, tick, int64(9_000_000))

	// Half a decade down.
	tick, err = tickmath.PriceToTick(dec("0.5"), -6, 100, tickmath.BoundLower)
	assert.NoError(t, err)
	assert.Equal(t, tick, int64(-5_000_000))
}

func TestPriceToTickSnapsToSpacing(t *testing.T) {
	cases := []struct {
		price string
		bound tickmath.Bound
		want  int64
	}{
		{"1.000050", tickmath.BoundLower, 0},
		{"1.000050", tickmath.BoundUpper, 100},
		{"2", tickmath.BoundLower, 1_000_000},
		{"2", tickmath.BoundUpper, 1_000_000},
		{"1.234567", tickmath.BoundLower, 234_500},
		{"1.234567", tickmath.BoundUpper, 234_600},
	}
	for _, c := range cases {
		tick, err := tickmath.PriceToTick(dec(c.price), -6, 100, c.bound)
		assert.NoError(t, err)
		t.Logf("price=%s bound=%d tick=%d", c.price, c.bound, tick)
		assert.Equal(t, tick, c.want)
		assert.Equal(t, tick%100, int64(0))
	}
}

func TestLowerNeverExceedsUpper(t *testing.T) {
	prices := []string{"0.000123", "0.7", "1", "1.5", "42", "99999.5"}
	for _, p := range prices {
		lower, err := tickmath.PriceToTick(dec(p), -6, 100, tickmath.BoundLower)
		assert.NoError(t, err)
		upper, err := tickmath.PriceToTick(dec(p), -6, 100, tickmath.BoundUpper)
		assert.NoError(t, err)
		assert.True(t, lower <= upper)
	}
}

func TestTickToPriceRoundTrip(t *testing.T) {
	ticks := []int64{0, 100, 9_000_000, 4_500_000, -5_000_000, -9_000_000, 13_459_200}
	for _, tick := range ticks {
		price, err := tickmath.TickToPrice(tick, -6)
		assert.NoError(t, err)
		assert.True(t, price.Sign() > 0)

		back, err := tickmath.PriceToTick(price, -6, 100, tickmath.BoundLower)
		assert.NoError(t, err)
		t.Logf("tick=%d price=%s back=%d", tick, price, back)
		assert.Equal(t, back, tick)
	}
}

func TestCoarserExponent(t *testing.T) {
	// With exponent -4 a decade spans 90000 ticks.
	tick, err := tickmath.PriceToTick(dec("10"), -4, 1, tickmath.BoundLower)
	assert.NoError(t, err)
	assert.Equal(t, tick, int64(90_000))

	price, err := tickmath.TickToPrice(45_000, -4)
	assert.NoError(t, err)
	assert.True(t, price.Equal(dec("5.5")))
}

func TestInvalidTickParams(t *testing.T) {
	_, err := tickmath.PriceToTick(dec("1"), 0, 100, tickmath.BoundLower)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidTickParams))

	_, err = tickmath.PriceToTick(dec("1"), -13, 100, tickmath.BoundLower)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidTickParams))

	_, err = tickmath.PriceToTick(dec("1"), -6, 0, tickmath.BoundLower)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidTickParams))

	_, err = tickmath.PriceToTick(dec("-1"), -6, 100, tickmath.BoundLower)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidPrice))

	_, err = tickmath.TickToPrice(0, -13)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidTickParams))
}
