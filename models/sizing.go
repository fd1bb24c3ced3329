package models

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
)

// JoinRequest sizes a weighted-pool join. When Denom1 is empty the join is
// single-sided: Amount0 of Denom0 is converted to the proportional basket of
// pool coins by USD value. Otherwise both amounts form the basket directly.
// Amounts are display units.
type JoinRequest struct {
	PoolID   uint64          `json:"pool_id"`
	Denom0   string          `json:"denom0"`
	Amount0  decimal.Decimal `json:"amount0"`
	Denom1   string          `json:"denom1,omitempty"`
	Amount1  decimal.Decimal `json:"amount1,omitempty"`
	Slippage decimal.Decimal `json:"slippage"`
}

// DualSided reports whether the caller supplied both basket legs.
func (r JoinRequest) DualSided() bool {
	return r.Denom1 != ""
}

// ExitRequest sizes a proportional withdrawal of Percent (0-100) of the
// caller's share balance.
type ExitRequest struct {
	PoolID     uint64          `json:"pool_id"`
	UserShares sdkmath.Int     `json:"user_shares"`
	Percent    decimal.Decimal `json:"percent"`
	Slippage   decimal.Decimal `json:"slippage"`
}

// PositionRequest sizes a concentrated-liquidity position between two price
// bounds. Either amount may be zero for a single-sided position. Token0Denom
// and Token1Denom are the caller's designation; when it is reversed relative
// to the pool's internal ordering the sizer swaps both tokens and amounts.
type PositionRequest struct {
	PoolID      uint64          `json:"pool_id"`
	Token0Denom string          `json:"token0_denom"`
	Token1Denom string          `json:"token1_denom"`
	Amount0     decimal.Decimal `json:"amount0"`
	Amount1     decimal.Decimal `json:"amount1"`
	LowerPrice  decimal.Decimal `json:"lower_price"`
	UpperPrice  decimal.Decimal `json:"upper_price"`
	Slippage    decimal.Decimal `json:"slippage"`
}

// JoinSizing is the computed input basket and share expectation for a
// weighted-pool join.
type JoinSizing struct {
	PoolID         uint64      `json:"pool_id"`
	RequiredCoins  sdk.Coins   `json:"required_coins"`
	ExpectedShares sdkmath.Int `json:"expected_shares"`
	// MinShares is the slippage floor, ceiling-rounded so it is never looser
	// than the requested tolerance.
	MinShares sdkmath.Int `json:"min_shares"`
}

// ExitSizing is the computed share burn and coin basket for a withdrawal.
// Coins whose slippage floor rounds below one base unit are dropped from
// MinAmounts rather than sent as zero.
type ExitSizing struct {
	PoolID        uint64      `json:"pool_id"`
	SharesIn      sdkmath.Int `json:"shares_in"`
	ExpectedCoins sdk.Coins   `json:"expected_coins"`
	MinAmounts    sdk.Coins   `json:"min_amounts"`
}

// PositionSizing is the tick-bounded sizing for a concentrated-liquidity
// position, expressed in the pool's own token ordering.
type PositionSizing struct {
	PoolID    uint64 `json:"pool_id"`
	LowerTick int64  `json:"lower_tick"`
	UpperTick int64  `json:"upper_tick"`
	// Reversed records that the caller's token designation was swapped to
	// match the pool ordering.
	Reversed bool `json:"reversed"`

	Amount0 sdkmath.Int `json:"amount0"`
	Amount1 sdkmath.Int `json:"amount1"`

	TokenMinAmount0 sdkmath.Int `json:"token_min_amount0"`
	TokenMinAmount1 sdkmath.Int `json:"token_min_amount1"`
}
