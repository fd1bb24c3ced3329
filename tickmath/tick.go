// Package tickmath converts between human prices and concentrated-liquidity
// tick indexes using geometric exponent spacing: each decade of price spans
// 9 * 10^(-exponentAtPriceOne) ticks, and within a decade ticks advance by a
// constant additive increment of 10^exponent.
package tickmath

import (
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/dexerrors"
)

// Bound selects the rounding direction when snapping a raw tick to the pool
// tick spacing. A lower bound floors so the position never overshoots above
// the requested price; an upper bound ceils so it never undershoots below.
type Bound int8

const (
	BoundLower Bound = iota + 1
	BoundUpper
)

const (
	minExponentAtPriceOne int64 = -12
	maxExponentAtPriceOne int64 = -1
)

var (
	one   = decimal.New(1, 0)
	ten   = decimal.New(1, 1)
	tenth = decimal.New(1, -1)

	// snapPrecision is the division precision used when snapping the raw
	// tick to the spacing grid. High enough that exact multiples survive.
	snapPrecision int32 = 24
)

func validateTickParams(exponentAtPriceOne, tickSpacing int64) error {
	if tickSpacing <= 0 {
		return dexerrors.ErrInvalidTickParams.Wrapf("tick spacing %d must be positive", tickSpacing)
	}
	if exponentAtPriceOne < minExponentAtPriceOne || exponentAtPriceOne > maxExponentAtPriceOne {
		return dexerrors.ErrInvalidTickParams.Wrapf("exponent at price one %d outside [%d, %d]",
			exponentAtPriceOne, minExponentAtPriceOne, maxExponentAtPriceOne)
	}
	return nil
}

// geometricIncrementTicks is the tick count of one price decade.
func geometricIncrementTicks(exponentAtPriceOne int64) int64 {
	n := int64(1)
	for i := int64(0); i < -exponentAtPriceOne; i++ {
		n *= 10
	}
	return 9 * n
}

// PriceToTick converts a desired price to the nearest valid tick for the
// given spacing, walking price decades from 1 until the decade containing
// the price is found, then snapping per the bound's rounding direction.
func PriceToTick(price decimal.Decimal, exponentAtPriceOne, tickSpacing int64, bound Bound) (int64, error) {
	if err := validateTickParams(exponentAtPriceOne, tickSpacing); err != nil {
		return 0, err
	}
	if price.Sign() <= 0 {
		return 0, dexerrors.ErrInvalidPrice.Wrapf("price %s must be positive", price)
	}

	decadeTicks := geometricIncrementTicks(exponentAtPriceOne)
	currentPrice := one
	ticksPassed := int64(0)
	exponent := exponentAtPriceOne

	if price.GreaterThan(one) {
		for price.GreaterThan(currentPrice.Mul(ten)) {
			currentPrice = currentPrice.Mul(ten)
			ticksPassed += decadeTicks
			exponent++
		}
	} else {
		for price.LessThan(currentPrice) {
			currentPrice = currentPrice.Mul(tenth)
			ticksPassed -= decadeTicks
			exponent--
		}
	}

	// Fractional position inside the decade. Multiplying by 10^-exponent is
	// an exact shift, unlike a decimal division.
	fraction := price.Sub(currentPrice).Mul(decimal.New(1, int32(-exponent)))
	rawTick := decimal.NewFromInt(ticksPassed).Add(fraction)

	spacing := decimal.NewFromInt(tickSpacing)
	quotient := rawTick.DivRound(spacing, snapPrecision)
	switch bound {
	case BoundLower:
		quotient = quotient.Floor()
	case BoundUpper:
		quotient = quotient.Ceil()
	default:
		return 0, dexerrors.ErrInvalidTickParams.Wrapf("unknown bound %d", bound)
	}

	return quotient.Mul(spacing).IntPart(), nil
}

// TickToPrice is the inverse conversion: the exact price a tick maps to.
func TickToPrice(tick, exponentAtPriceOne int64) (decimal.Decimal, error) {
	if exponentAtPriceOne < minExponentAtPriceOne || exponentAtPriceOne > maxExponentAtPriceOne {
		return decimal.Zero, dexerrors.ErrInvalidTickParams.Wrapf("exponent at price one %d outside [%d, %d]",
			exponentAtPriceOne, minExponentAtPriceOne, maxExponentAtPriceOne)
	}

	decadeTicks := geometricIncrementTicks(exponentAtPriceOne)
	ticksRemaining := tick
	currentPrice := one
	exponent := exponentAtPriceOne

	if tick >= 0 {
		for ticksRemaining >= decadeTicks {
			ticksRemaining -= decadeTicks
			currentPrice = currentPrice.Mul(ten)
			exponent++
		}
	} else {
		for ticksRemaining < 0 {
			ticksRemaining += decadeTicks
			currentPrice = currentPrice.Mul(tenth)
			exponent--
		}
	}

	increment := decimal.NewFromInt(ticksRemaining).Mul(decimal.New(1, int32(exponent)))
	return currentPrice.Add(increment), nil
}
