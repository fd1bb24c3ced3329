// Package liquidity sizes pool joins, exits and concentrated-liquidity
// positions: the coin basket a join requires, the share amount it should
// produce, and the slippage floors a transaction may enforce.
package liquidity

import (
	"os"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/config"
	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/models"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "liquidity-sizer").Logger()
}

var (
	one     = decimal.New(1, 0)
	hundred = decimal.New(1, 2)
)

// Sizer computes liquidity-provision sizings from pool and price snapshots.
// Stateless apart from configuration; safe for concurrent use.
type Sizer struct {
	cfg *config.EngineConfig
}

// NewSizer creates a sizer with the given configuration.
func NewSizer(cfg *config.EngineConfig) *Sizer {
	return &Sizer{cfg: cfg}
}

func validateSlippage(slippage decimal.Decimal) error {
	if slippage.IsNegative() || slippage.GreaterThan(one) {
		return dexerrors.ErrInvalidSlippage.Wrapf("slippage %s outside [0, 1]", slippage)
	}
	return nil
}

// checkGas fails fast when the adjusted estimate for the operation exceeds
// the configured ceiling, before any sizing work.
func (s *Sizer) checkGas(baseGas uint64) error {
	estimate := s.cfg.Gas.Estimate(baseGas)
	if estimate > s.cfg.Gas.GasCeiling {
		return dexerrors.ErrGasLimitExceeded.Wrapf("estimated gas %d exceeds ceiling %d", estimate, s.cfg.Gas.GasCeiling)
	}
	return nil
}

// SizeJoin sizes a weighted-pool join. Single-sided requests are converted
// to the proportional basket of pool coins by USD value; dual-sided
// requests use the provided amounts directly. The minimum share floor is
// ceiling-rounded so it is never looser than the requested tolerance.
func (s *Sizer) SizeJoin(req models.JoinRequest, pool models.Pool, prices models.PriceSnapshot) (*models.JoinSizing, error) {
	if pool.Kind != models.PoolKindWeighted {
		return nil, dexerrors.ErrInvalidPool.Wrapf("join sizing requires a weighted pool, got %s", pool.Kind)
	}
	w := pool.Weighted
	if w.ID != req.PoolID {
		return nil, dexerrors.ErrPoolNotFound.Wrapf("pool %d not in request snapshot (snapshot holds %d)", req.PoolID, w.ID)
	}
	if err := validateSlippage(req.Slippage); err != nil {
		return nil, err
	}
	if err := s.checkGas(s.cfg.Gas.JoinGas); err != nil {
		return nil, err
	}

	var coins sdk.Coins
	var err error
	if req.DualSided() {
		coins, err = s.dualSidedBasket(req, w, prices)
	} else {
		coins, err = s.singleSidedBasket(req, w, prices)
	}
	if err != nil {
		return nil, err
	}

	shares, err := calcShareOutAmount(w, coins)
	if err != nil {
		return nil, err
	}

	minShares := sdkmath.NewIntFromBigInt(
		decimal.NewFromBigInt(shares.BigInt(), 0).Mul(one.Sub(req.Slippage)).Ceil().BigInt(),
	)

	log.Debug().
		Uint64("pool", w.ID).
		Str("coins", coins.String()).
		Str("shares", shares.String()).
		Str("min_shares", minShares.String()).
		Msg("Join sized")

	return &models.JoinSizing{
		PoolID:         w.ID,
		RequiredCoins:  coins,
		ExpectedShares: shares,
		MinShares:      minShares,
	}, nil
}

// singleSidedBasket converts the single provided amount to its USD value
// and splits it across the pool assets by weight.
func (s *Sizer) singleSidedBasket(req models.JoinRequest, pool *models.WeightedPool, prices models.PriceSnapshot) (sdk.Coins, error) {
	if req.Amount0.Sign() <= 0 {
		return nil, dexerrors.ErrInvalidAmount.Wrapf("join amount %s must be positive", req.Amount0)
	}
	inPrice, ok := prices.Price(req.Denom0)
	if !ok {
		return nil, dexerrors.ErrPriceUnavailable.Wrapf("no usd price for %s", req.Denom0)
	}
	usdValue := req.Amount0.Mul(inPrice)

	totalWeight := decimal.NewFromBigInt(pool.TotalWeight().BigInt(), 0)
	if totalWeight.IsZero() {
		return nil, dexerrors.ErrDivisionByZero.Wrapf("pool %d has zero total weight", pool.ID)
	}

	coins := make(sdk.Coins, 0, len(pool.Assets))
	for _, asset := range pool.Assets {
		assetPrice, ok := prices.Price(asset.Denom)
		if !ok {
			return nil, dexerrors.ErrPriceUnavailable.Wrapf("no usd price for pool asset %s", asset.Denom)
		}
		weightFraction := decimal.NewFromBigInt(asset.Weight.BigInt(), 0).Div(totalWeight)
		display := usdValue.Mul(weightFraction).Div(assetPrice)
		base := models.DisplayToBase(display, prices.Exponent(asset.Denom))
		if base.IsZero() {
			return nil, dexerrors.ErrInvalidAmount.Wrapf("join value too small: %s leg rounds to zero", asset.Denom)
		}
		coins = append(coins, sdk.Coin{Denom: asset.Denom, Amount: base})
	}
	return coins.Sort(), nil
}

// dualSidedBasket uses both provided amounts as the basket directly.
func (s *Sizer) dualSidedBasket(req models.JoinRequest, pool *models.WeightedPool, prices models.PriceSnapshot) (sdk.Coins, error) {
	if req.Amount0.Sign() <= 0 || req.Amount1.Sign() <= 0 {
		return nil, dexerrors.ErrInvalidAmount.Wrap("dual-sided join requires two positive amounts")
	}
	if pool.Asset(req.Denom0) == nil || pool.Asset(req.Denom1) == nil {
		return nil, dexerrors.ErrInvalidPool.Wrapf("pool %d does not hold %s and %s", pool.ID, req.Denom0, req.Denom1)
	}

	base0 := models.DisplayToBase(req.Amount0, prices.Exponent(req.Denom0))
	base1 := models.DisplayToBase(req.Amount1, prices.Exponent(req.Denom1))
	if base0.IsZero() || base1.IsZero() {
		return nil, dexerrors.ErrInvalidAmount.Wrap("join amounts round below one base unit")
	}
	return sdk.Coins{
		{Denom: req.Denom0, Amount: base0},
		{Denom: req.Denom1, Amount: base1},
	}.Sort(), nil
}

// calcShareOutAmount computes the pool shares a coin basket mints: the
// minimum share ratio across the provided legs, scaled by total shares.
func calcShareOutAmount(pool *models.WeightedPool, coins sdk.Coins) (sdkmath.Int, error) {
	var shares sdkmath.Int
	first := true
	for _, coin := range coins {
		asset := pool.Asset(coin.Denom)
		if asset == nil {
			return sdkmath.ZeroInt(), dexerrors.ErrInvalidPool.Wrapf("pool %d does not hold %s", pool.ID, coin.Denom)
		}
		legShares := pool.TotalShares.Amount.Mul(coin.Amount).Quo(asset.Balance)
		if first || legShares.LT(shares) {
			shares = legShares
			first = false
		}
	}
	if first || shares.IsZero() {
		return sdkmath.ZeroInt(), dexerrors.ErrInvalidAmount.Wrap("join produces zero shares")
	}
	return shares, nil
}

// SizeExit sizes a proportional withdrawal of a percentage of the caller's
// shares. The slippage floor is applied per coin; coins whose floor rounds
// below one base unit are dropped from the minimum list rather than sent as
// zero.
func (s *Sizer) SizeExit(req models.ExitRequest, pool models.Pool) (*models.ExitSizing, error) {
	if pool.Kind != models.PoolKindWeighted {
		return nil, dexerrors.ErrInvalidPool.Wrapf("exit sizing requires a weighted pool, got %s", pool.Kind)
	}
	w := pool.Weighted
	if w.ID != req.PoolID {
		return nil, dexerrors.ErrPoolNotFound.Wrapf("pool %d not in request snapshot (snapshot holds %d)", req.PoolID, w.ID)
	}
	if err := validateSlippage(req.Slippage); err != nil {
		return nil, err
	}
	if err := s.checkGas(s.cfg.Gas.ExitGas); err != nil {
		return nil, err
	}
	if req.Percent.Sign() <= 0 || req.Percent.GreaterThan(hundred) {
		return nil, dexerrors.ErrInvalidAmount.Wrapf("withdraw percent %s outside (0, 100]", req.Percent)
	}
	if !req.UserShares.IsPositive() {
		return nil, dexerrors.ErrInvalidAmount.Wrap("no shares to withdraw")
	}

	sharesIn := sdkmath.NewIntFromBigInt(
		decimal.NewFromBigInt(req.UserShares.BigInt(), 0).Mul(req.Percent).Div(hundred).Floor().BigInt(),
	)
	if sharesIn.IsZero() {
		return nil, dexerrors.ErrInvalidAmount.Wrapf("withdrawing %s%% of %s shares rounds to zero", req.Percent, req.UserShares)
	}

	oneMinusSlippage := one.Sub(req.Slippage)
	expected := make(sdk.Coins, 0, len(w.Assets))
	minAmounts := make(sdk.Coins, 0, len(w.Assets))
	for _, asset := range w.Assets {
		amount := asset.Balance.Mul(sharesIn).Quo(w.TotalShares.Amount)
		if amount.IsZero() {
			continue
		}
		expected = append(expected, sdk.Coin{Denom: asset.Denom, Amount: amount})

		floor := sdkmath.NewIntFromBigInt(
			decimal.NewFromBigInt(amount.BigInt(), 0).Mul(oneMinusSlippage).Floor().BigInt(),
		)
		// A floor below one base unit cannot be expressed on-chain; the
		// coin is dropped from the minimums instead of sent as zero.
		if floor.GTE(sdkmath.OneInt()) {
			minAmounts = append(minAmounts, sdk.Coin{Denom: asset.Denom, Amount: floor})
		}
	}

	log.Debug().
		Uint64("pool", w.ID).
		Str("shares_in", sharesIn.String()).
		Str("expected", expected.String()).
		Str("min_amounts", minAmounts.String()).
		Msg("Exit sized")

	return &models.ExitSizing{
		PoolID:        w.ID,
		SharesIn:      sharesIn,
		ExpectedCoins: expected.Sort(),
		MinAmounts:    minAmounts.Sort(),
	}, nil
}
