// Package poolmath implements the weighted constant-product invariant used
// by Balancer-style pools: spot price, output-given-input, input-given-output
// and price impact. All functions are pure; amounts cross the boundary as
// integer base units and every internal ratio is an arbitrary-precision
// decimal. The weight-ratio exponentiation runs through the decimal power
// function rather than float64 math so 18-decimal tokens do not drift in the
// last digit.
package poolmath

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/models"
)

// powPrecision is the decimal digit precision for the weight-ratio power.
const powPrecision int32 = 32

var one = decimal.New(1, 0)

func decFromInt(i sdkmath.Int) decimal.Decimal {
	return decimal.NewFromBigInt(i.BigInt(), 0)
}

// SpotPrice returns the instantaneous input-per-output price of a weighted
// pool, fee-adjusted:
//
//	price = (balanceIn/weightIn) / (balanceOut/weightOut) / (1 - fee)
func SpotPrice(balanceIn, weightIn, balanceOut, weightOut, fee decimal.Decimal) (decimal.Decimal, error) {
	if weightIn.IsZero() || weightOut.IsZero() || balanceOut.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("degenerate pool weights or balance")
	}
	oneMinusFee := one.Sub(fee)
	if oneMinusFee.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("swap fee is 100%")
	}

	numerator := balanceIn.Div(weightIn)
	denominator := balanceOut.Div(weightOut)
	return numerator.Div(denominator).Div(oneMinusFee), nil
}

// OutGivenIn solves the weighted constant-product invariant for the output
// amount of a swap:
//
//	adjustedIn = amountIn * (1 - fee)
//	out        = balanceOut * (1 - (balanceIn / (balanceIn + adjustedIn))^(weightIn/weightOut))
func OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn, fee decimal.Decimal) (decimal.Decimal, error) {
	if weightOut.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("zero output weight")
	}
	if balanceIn.Sign() <= 0 || balanceOut.Sign() <= 0 {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("non-positive pool balance")
	}
	if amountIn.IsZero() {
		return decimal.Zero, nil
	}
	if amountIn.IsNegative() {
		return decimal.Zero, dexerrors.ErrInvalidAmount.Wrap("negative input amount")
	}

	adjustedIn := amountIn.Mul(one.Sub(fee))
	base := balanceIn.Div(balanceIn.Add(adjustedIn))
	exponent := weightIn.Div(weightOut)

	power, err := base.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, dexerrors.ErrInvalidAmount.Wrapf("power calculation failed: %v", err)
	}
	return balanceOut.Mul(one.Sub(power)), nil
}

// InGivenOut is the inverse of OutGivenIn: the input amount required to
// withdraw amountOut from the pool.
//
//	in = balanceIn * ((balanceOut / (balanceOut - amountOut))^(weightOut/weightIn) - 1) / (1 - fee)
func InGivenOut(balanceIn, weightIn, balanceOut, weightOut, amountOut, fee decimal.Decimal) (decimal.Decimal, error) {
	if weightIn.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("zero input weight")
	}
	oneMinusFee := one.Sub(fee)
	if oneMinusFee.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("swap fee is 100%")
	}
	if balanceIn.Sign() <= 0 || balanceOut.Sign() <= 0 {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("non-positive pool balance")
	}
	if amountOut.IsZero() {
		return decimal.Zero, nil
	}
	if amountOut.IsNegative() || amountOut.GreaterThanOrEqual(balanceOut) {
		return decimal.Zero, dexerrors.ErrInvalidAmount.Wrapf("requested output %s exceeds pool liquidity %s", amountOut, balanceOut)
	}

	ratio := balanceOut.Div(balanceOut.Sub(amountOut))
	exponent := weightOut.Div(weightIn)

	power, err := ratio.PowWithPrecision(exponent, powPrecision)
	if err != nil {
		return decimal.Zero, dexerrors.ErrInvalidAmount.Wrapf("power calculation failed: %v", err)
	}
	return balanceIn.Mul(power.Sub(one)).Div(oneMinusFee), nil
}

// PriceImpact compares the pre-trade spot price against the realized
// effective price of swapping tokenIn for tokenOutDenom and returns
// effective/spot - 1. A zero input has zero impact by definition.
func PriceImpact(tokenIn sdk.Coin, tokenOutDenom string, pool *models.WeightedPool) (decimal.Decimal, error) {
	if tokenIn.Amount.IsZero() {
		return decimal.Zero, nil
	}

	assetIn := pool.Asset(tokenIn.Denom)
	assetOut := pool.Asset(tokenOutDenom)
	if assetIn == nil || assetOut == nil {
		return decimal.Zero, dexerrors.ErrInvalidPool.Wrapf("pool %d does not pair %s and %s", pool.ID, tokenIn.Denom, tokenOutDenom)
	}

	balanceIn := decFromInt(assetIn.Balance)
	weightIn := decFromInt(assetIn.Weight)
	balanceOut := decFromInt(assetOut.Balance)
	weightOut := decFromInt(assetOut.Weight)
	amountIn := decFromInt(tokenIn.Amount)

	spot, err := SpotPrice(balanceIn, weightIn, balanceOut, weightOut, pool.SwapFee)
	if err != nil {
		return decimal.Zero, err
	}

	amountOut, err := OutGivenIn(balanceIn, weightIn, balanceOut, weightOut, amountIn, pool.SwapFee)
	if err != nil {
		return decimal.Zero, err
	}
	if amountOut.IsZero() {
		return decimal.Zero, dexerrors.ErrDivisionByZero.Wrap("swap output rounds to zero")
	}

	effective := amountIn.Div(amountOut)
	return effective.Div(spot).Sub(one), nil
}
