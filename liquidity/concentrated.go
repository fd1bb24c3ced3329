package liquidity

import (
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/models"
	"github.com/halcyon-labs/dexcore/tickmath"
)

// SizePosition sizes a concentrated-liquidity position between two price
// bounds. When the caller's token ordering is reversed relative to the
// pool's, both tokens and amounts are swapped and Reversed is set so the
// result always speaks the pool's ordering.
func (s *Sizer) SizePosition(req models.PositionRequest, pool models.Pool, prices models.PriceSnapshot) (*models.PositionSizing, error) {
	if pool.Kind != models.PoolKindConcentrated {
		return nil, dexerrors.ErrInvalidPool.Wrapf("position sizing requires a concentrated pool, got %s", pool.Kind)
	}
	cl := pool.Concentrated
	if cl.ID != req.PoolID {
		return nil, dexerrors.ErrPoolNotFound.Wrapf("pool %d not in request snapshot (snapshot holds %d)", req.PoolID, cl.ID)
	}
	if err := validateSlippage(req.Slippage); err != nil {
		return nil, err
	}
	if err := s.checkGas(s.cfg.Gas.PositionGas); err != nil {
		return nil, err
	}

	denom0, denom1 := req.Token0Denom, req.Token1Denom
	amount0, amount1 := req.Amount0, req.Amount1
	reversed := false
	switch {
	case denom0 == cl.Token0Denom && denom1 == cl.Token1Denom:
	case denom0 == cl.Token1Denom && denom1 == cl.Token0Denom:
		denom0, denom1 = denom1, denom0
		amount0, amount1 = amount1, amount0
		reversed = true
	default:
		return nil, dexerrors.ErrInvalidPool.Wrapf("pool %d pairs %s/%s, not %s/%s",
			cl.ID, cl.Token0Denom, cl.Token1Denom, req.Token0Denom, req.Token1Denom)
	}

	if amount0.Sign() < 0 || amount1.Sign() < 0 {
		return nil, dexerrors.ErrInvalidAmount.Wrap("position amounts must not be negative")
	}
	if amount0.IsZero() && amount1.IsZero() {
		return nil, dexerrors.ErrInvalidAmount.Wrap("position requires at least one positive amount")
	}
	if req.LowerPrice.Sign() <= 0 || !req.UpperPrice.GreaterThan(req.LowerPrice) {
		return nil, dexerrors.ErrInvalidPrice.Wrapf("price range [%s, %s] is not a positive ascending interval",
			req.LowerPrice, req.UpperPrice)
	}

	lowerTick, err := tickmath.PriceToTick(req.LowerPrice, cl.ExponentAtPriceOne, cl.TickSpacing, tickmath.BoundLower)
	if err != nil {
		return nil, err
	}
	upperTick, err := tickmath.PriceToTick(req.UpperPrice, cl.ExponentAtPriceOne, cl.TickSpacing, tickmath.BoundUpper)
	if err != nil {
		return nil, err
	}
	if lowerTick >= upperTick {
		return nil, dexerrors.ErrInvalidPrice.Wrapf("price range [%s, %s] collapses to a single tick at spacing %d",
			req.LowerPrice, req.UpperPrice, cl.TickSpacing)
	}

	base0 := models.DisplayToBase(amount0, prices.Exponent(denom0))
	base1 := models.DisplayToBase(amount1, prices.Exponent(denom1))
	if base0.IsZero() && base1.IsZero() {
		return nil, dexerrors.ErrInvalidAmount.Wrap("position amounts round below one base unit")
	}

	log.Debug().
		Uint64("pool", cl.ID).
		Int64("lower_tick", lowerTick).
		Int64("upper_tick", upperTick).
		Bool("reversed", reversed).
		Msg("Position sized")

	oneMinusSlippage := one.Sub(req.Slippage)
	return &models.PositionSizing{
		PoolID:          cl.ID,
		LowerTick:       lowerTick,
		UpperTick:       upperTick,
		Reversed:        reversed,
		Amount0:         base0,
		Amount1:         base1,
		TokenMinAmount0: slippageFloor(base0, oneMinusSlippage),
		TokenMinAmount1: slippageFloor(base1, oneMinusSlippage),
	}, nil
}

func slippageFloor(amount sdkmath.Int, oneMinusSlippage decimal.Decimal) sdkmath.Int {
	if amount.IsZero() {
		return sdkmath.ZeroInt()
	}
	return sdkmath.NewIntFromBigInt(
		decimal.NewFromBigInt(amount.BigInt(), 0).Mul(oneMinusSlippage).Floor().BigInt(),
	)
}
