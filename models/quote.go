package models

import (
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// TradeSide distinguishes the direction a caller expresses an order in.
// The quote pipeline itself always reasons in SELL terms; BUY requests are
// normalized by swapping the sell/buy roles up front.
type TradeSide int8

const (
	SideSell TradeSide = iota + 1
	SideBuy
)

func (s TradeSide) String() string {
	switch s {
	case SideSell:
		return "SELL"
	case SideBuy:
		return "BUY"
	default:
		return "UNKNOWN"
	}
}

// QuoteRequest asks for a slippage-bounded trade quote. Amount is in display
// units of the sell asset (after side normalization). Slippage is a fraction
// in [0, 1]; FeeTier selects a configured nominal fee preset and defaults to
// the engine's default tier when empty.
type QuoteRequest struct {
	SellDenom string          `json:"sell_denom"`
	BuyDenom  string          `json:"buy_denom"`
	Amount    decimal.Decimal `json:"amount"`
	Side      TradeSide       `json:"side"`
	Slippage  decimal.Decimal `json:"slippage"`
	FeeTier   string          `json:"fee_tier,omitempty"`
}

// RouteHop is one pool traversal. OutDenom is the denom the hop produces.
type RouteHop struct {
	PoolID   uint64 `json:"pool_id"`
	OutDenom string `json:"out_denom"`
}

// Route is an ordered sequence of one or two hops. The final hop's OutDenom
// always equals the requested buy denom.
type Route struct {
	Hops []RouteHop `json:"hops"`
}

// PoolIDs lists the pool ids along the route, in hop order.
func (r Route) PoolIDs() []uint64 {
	ids := make([]uint64, 0, len(r.Hops))
	for _, h := range r.Hops {
		ids = append(ids, h.PoolID)
	}
	return ids
}

// TradeQuote is the full pricing result for one trade request. All amounts
// are integer base units; prices and fractions are arbitrary-precision
// decimals.
type TradeQuote struct {
	SellDenom string `json:"sell_denom"`
	BuyDenom  string `json:"buy_denom"`

	InputAmount    sdkmath.Int `json:"input_amount"`
	ExpectedOutput sdkmath.Int `json:"expected_output"`
	// MinimumOutput is the slippage-adjusted floor. At 100% tolerance it
	// collapses to one base unit, never zero, so the downstream protocol
	// message stays valid.
	MinimumOutput sdkmath.Int `json:"minimum_output"`

	// ExecutionPrice is output over input in base units.
	ExecutionPrice decimal.Decimal `json:"execution_price"`
	// PriceImpact is the summed per-hop impact fraction.
	PriceImpact decimal.Decimal `json:"price_impact"`

	Route      Route             `json:"route"`
	HopFees    []decimal.Decimal `json:"hop_fees"`
	BlendedFee decimal.Decimal   `json:"blended_fee"`

	GasEstimate uint64 `json:"gas_estimate"`
}
