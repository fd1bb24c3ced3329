package models

import (
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/dexerrors"
)

// PoolKind tags the pool union. Every consumer switches on it exhaustively;
// a pool never carries both variants.
type PoolKind int8

const (
	PoolKindWeighted PoolKind = iota + 1
	PoolKindConcentrated
)

func (k PoolKind) String() string {
	switch k {
	case PoolKindWeighted:
		return "weighted"
	case PoolKindConcentrated:
		return "concentrated"
	default:
		return "unknown"
	}
}

// PoolAsset is one leg of a weighted pool.
type PoolAsset struct {
	Denom   string      `json:"denom"`
	Weight  sdkmath.Int `json:"weight"`
	Balance sdkmath.Int `json:"balance"`
}

// WeightedPool is a Balancer-style constant-product pool snapshot.
// SwapFee is a fraction in [0, 1), never a percentage.
type WeightedPool struct {
	ID          uint64          `json:"id"`
	Assets      []PoolAsset     `json:"assets"`
	SwapFee     decimal.Decimal `json:"swap_fee"`
	TotalShares sdk.Coin        `json:"total_shares"`
}

// Asset returns the pool asset for a denom, or nil when the pool does not
// hold it.
func (p *WeightedPool) Asset(denom string) *PoolAsset {
	for i := range p.Assets {
		if p.Assets[i].Denom == denom {
			return &p.Assets[i]
		}
	}
	return nil
}

// TotalWeight sums the asset weights.
func (p *WeightedPool) TotalWeight() sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, a := range p.Assets {
		total = total.Add(a.Weight)
	}
	return total
}

// ConcentratedPool is a concentrated-liquidity pool snapshot. Liquidity sits
// between discrete ticks mapped to prices by geometric exponent spacing.
type ConcentratedPool struct {
	ID                 uint64          `json:"id"`
	Token0Denom        string          `json:"token0_denom"`
	Token1Denom        string          `json:"token1_denom"`
	TickSpacing        int64           `json:"tick_spacing"`
	ExponentAtPriceOne int64           `json:"exponent_at_price_one"`
	CurrentTick        int64           `json:"current_tick"`
	SpreadFactor       decimal.Decimal `json:"spread_factor"`
}

// Pool is the tagged union over the two pool shapes. Exactly one of the
// variant pointers is set, matching Kind.
type Pool struct {
	Kind         PoolKind          `json:"kind"`
	Weighted     *WeightedPool     `json:"weighted,omitempty"`
	Concentrated *ConcentratedPool `json:"concentrated,omitempty"`
}

// ID returns the protocol pool id regardless of variant.
func (p *Pool) ID() uint64 {
	switch p.Kind {
	case PoolKindWeighted:
		return p.Weighted.ID
	case PoolKindConcentrated:
		return p.Concentrated.ID
	default:
		return 0
	}
}

// Denoms lists every denom the pool holds, in pool order.
func (p *Pool) Denoms() []string {
	switch p.Kind {
	case PoolKindWeighted:
		denoms := make([]string, 0, len(p.Weighted.Assets))
		for _, a := range p.Weighted.Assets {
			denoms = append(denoms, a.Denom)
		}
		return denoms
	case PoolKindConcentrated:
		return []string{p.Concentrated.Token0Denom, p.Concentrated.Token1Denom}
	default:
		return nil
	}
}

// HasDenom reports whether the pool holds the denom on either side.
func (p *Pool) HasDenom(denom string) bool {
	for _, d := range p.Denoms() {
		if d == denom {
			return true
		}
	}
	return false
}

// PairsDenoms reports whether the pool holds both denoms and can therefore
// serve as a hop between them.
func (p *Pool) PairsDenoms(a, b string) bool {
	return a != b && p.HasDenom(a) && p.HasDenom(b)
}

// SwapFeeFraction returns the pool's fee as a fraction of the input amount.
func (p *Pool) SwapFeeFraction() decimal.Decimal {
	switch p.Kind {
	case PoolKindWeighted:
		return p.Weighted.SwapFee
	case PoolKindConcentrated:
		return p.Concentrated.SpreadFactor
	default:
		return decimal.Zero
	}
}

// Validate checks the structural invariants of the snapshot: the variant
// matches the kind, weights and balances are positive, fees are fractions,
// and tick spacing is positive.
func (p *Pool) Validate() error {
	switch p.Kind {
	case PoolKindWeighted:
		if p.Weighted == nil || p.Concentrated != nil {
			return dexerrors.ErrInvalidPool.Wrap("weighted pool variant mismatch")
		}
		w := p.Weighted
		if len(w.Assets) < 2 {
			return dexerrors.ErrInvalidPool.Wrapf("pool %d holds %d assets, need at least 2", w.ID, len(w.Assets))
		}
		for _, a := range w.Assets {
			if !a.Weight.IsPositive() || !a.Balance.IsPositive() {
				return dexerrors.ErrInvalidPool.Wrapf("pool %d asset %s has non-positive weight or balance", w.ID, a.Denom)
			}
		}
		if w.SwapFee.IsNegative() || w.SwapFee.GreaterThanOrEqual(decimal.New(1, 0)) {
			return dexerrors.ErrInvalidPool.Wrapf("pool %d swap fee %s outside [0, 1)", w.ID, w.SwapFee)
		}
		return nil
	case PoolKindConcentrated:
		if p.Concentrated == nil || p.Weighted != nil {
			return dexerrors.ErrInvalidPool.Wrap("concentrated pool variant mismatch")
		}
		c := p.Concentrated
		if c.TickSpacing <= 0 {
			return dexerrors.ErrInvalidPool.Wrapf("pool %d tick spacing %d must be positive", c.ID, c.TickSpacing)
		}
		if c.Token0Denom == "" || c.Token1Denom == "" || c.Token0Denom == c.Token1Denom {
			return dexerrors.ErrInvalidPool.Wrapf("pool %d token pair is degenerate", c.ID)
		}
		return nil
	default:
		return dexerrors.ErrInvalidPool.Wrapf("unknown pool kind %d", p.Kind)
	}
}

// IsShareDenom reports whether a denom is a pool-share (liquidity token)
// denom. Share denoms never participate in routing.
func IsShareDenom(denom string) bool {
	return strings.HasPrefix(denom, "gamm/") || strings.HasPrefix(denom, "cl/")
}
