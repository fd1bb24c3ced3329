// Package quote orchestrates route discovery and pool math into a full
// trade quote: expected output, slippage-bounded minimum, execution price,
// price impact and fee attribution.
package quote

import (
	"os"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/config"
	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/metrics"
	"github.com/halcyon-labs/dexcore/models"
	"github.com/halcyon-labs/dexcore/poolmath"
	"github.com/halcyon-labs/dexcore/router"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "quote-engine").Logger()
}

var one = decimal.New(1, 0)

// Engine produces trade quotes from (pool, price) snapshot pairs. It holds
// only configuration and is safe for concurrent use.
type Engine struct {
	cfg *config.EngineConfig
}

// NewEngine creates a quote engine with the given configuration.
func NewEngine(cfg *config.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Quote computes a slippage-bounded trade quote. The caller supplies a
// consistent pool and price snapshot pair; the engine never fetches.
//
// Pipeline: side normalization, USD conversion of the requested amount,
// route discovery, slippage floor, per-hop price impact and fee
// attribution, and the configured gas pre-check.
func (e *Engine) Quote(req models.QuoteRequest, pools []models.Pool, prices models.PriceSnapshot) (*models.TradeQuote, error) {
	if req.Amount.Sign() <= 0 {
		metrics.QuoteComputed("invalid_amount")
		return nil, dexerrors.ErrInvalidAmount.Wrapf("trade amount %s must be positive", req.Amount)
	}
	if req.Slippage.IsNegative() || req.Slippage.GreaterThan(one) {
		metrics.QuoteComputed("invalid_slippage")
		return nil, dexerrors.ErrInvalidSlippage.Wrapf("slippage %s outside [0, 1]", req.Slippage)
	}

	// Gas pre-check happens before any pricing work so a misconfigured
	// ceiling fails fast.
	gasEstimate := e.cfg.Gas.Estimate(e.cfg.Gas.SwapGas)
	if gasEstimate > e.cfg.Gas.GasCeiling {
		metrics.QuoteComputed("gas_exceeded")
		return nil, dexerrors.ErrGasLimitExceeded.Wrapf("estimated gas %d exceeds ceiling %d", gasEstimate, e.cfg.Gas.GasCeiling)
	}

	// BUY inverts the roles so the rest of the pipeline reasons in SELL
	// terms only.
	sellDenom, buyDenom := req.SellDenom, req.BuyDenom
	if req.Side == models.SideBuy {
		sellDenom, buyDenom = buyDenom, sellDenom
	}

	sellPrice, ok := prices.Price(sellDenom)
	if !ok {
		metrics.QuoteComputed("price_unavailable")
		return nil, dexerrors.ErrPriceUnavailable.Wrapf("no usd price for %s", sellDenom)
	}
	buyPrice, ok := prices.Price(buyDenom)
	if !ok {
		metrics.QuoteComputed("price_unavailable")
		return nil, dexerrors.ErrPriceUnavailable.Wrapf("no usd price for %s", buyDenom)
	}

	usdValue := req.Amount.Mul(sellPrice)
	outputDisplay := usdValue.Div(buyPrice)

	inputAmount := models.DisplayToBase(req.Amount, prices.Exponent(sellDenom))
	expectedOutput := models.DisplayToBase(outputDisplay, prices.Exponent(buyDenom))
	if inputAmount.IsZero() {
		metrics.QuoteComputed("invalid_amount")
		return nil, dexerrors.ErrInvalidAmount.Wrapf("amount %s is below one base unit of %s", req.Amount, sellDenom)
	}

	idx := router.BuildPairIndex(pools, prices)
	finder := router.NewFinder(idx, e.cfg.PrimaryHubDenom, e.cfg.SecondaryHubDenom)
	route, err := finder.FindRoute(sellDenom, buyDenom)
	if err != nil {
		metrics.RouteNotFound()
		metrics.QuoteComputed("no_route")
		return nil, err
	}
	if len(route.Hops) == 0 || len(route.Hops) > 2 {
		metrics.QuoteComputed("no_route")
		return nil, dexerrors.ErrNoTradeRoute.Wrapf("route has %d hops, supported are 1 or 2", len(route.Hops))
	}

	minimumOutput := slippageFloor(expectedOutput, req.Slippage)

	priceImpact, hopFees, err := e.routeImpactAndFees(route, sellDenom, inputAmount, idx, prices)
	if err != nil {
		metrics.QuoteComputed("impact_failed")
		return nil, err
	}

	blendedFee, err := e.blendFees(hopFees, req.FeeTier)
	if err != nil {
		metrics.QuoteComputed("bad_fee_tier")
		return nil, err
	}

	executionPrice := decimal.NewFromBigInt(expectedOutput.BigInt(), 0).
		Div(decimal.NewFromBigInt(inputAmount.BigInt(), 0))

	quote := &models.TradeQuote{
		SellDenom:      sellDenom,
		BuyDenom:       buyDenom,
		InputAmount:    inputAmount,
		ExpectedOutput: expectedOutput,
		MinimumOutput:  minimumOutput,
		ExecutionPrice: executionPrice,
		PriceImpact:    priceImpact,
		Route:          route,
		HopFees:        hopFees,
		BlendedFee:     blendedFee,
		GasEstimate:    gasEstimate,
	}

	log.Info().
		Str("sell", sellDenom).
		Str("buy", buyDenom).
		Str("in", inputAmount.String()).
		Str("out", expectedOutput.String()).
		Str("min_out", minimumOutput.String()).
		Str("impact", priceImpact.String()).
		Int("hops", len(route.Hops)).
		Msg("Quote computed")
	metrics.QuoteComputed("ok")
	return quote, nil
}

// slippageFloor applies the tolerance to the expected output. At 100%
// tolerance the floor collapses to one base unit rather than zero so the
// downstream protocol message stays valid.
func slippageFloor(expected sdkmath.Int, slippage decimal.Decimal) sdkmath.Int {
	if slippage.Equal(one) {
		return sdkmath.OneInt()
	}
	floor := decimal.NewFromBigInt(expected.BigInt(), 0).Mul(one.Sub(slippage)).Floor()
	return sdkmath.NewIntFromBigInt(floor.BigInt())
}

// routeImpactAndFees walks the route accumulating per-hop price impact and
// collecting each hop's fee fraction. Two-hop impact is the sum of the
// independently computed hop impacts, matching the reference protocol
// client's displayed values rather than a compounded formula.
func (e *Engine) routeImpactAndFees(
	route models.Route,
	sellDenom string,
	inputAmount sdkmath.Int,
	idx *router.PairIndex,
	prices models.PriceSnapshot,
) (decimal.Decimal, []decimal.Decimal, error) {
	totalImpact := decimal.Zero
	hopFees := make([]decimal.Decimal, 0, len(route.Hops))

	currentDenom := sellDenom
	currentAmount := inputAmount

	for _, hop := range route.Hops {
		pool := idx.PoolByID(hop.PoolID)
		if pool == nil {
			return decimal.Zero, nil, dexerrors.ErrPoolNotFound.Wrapf("pool %d missing from snapshot", hop.PoolID)
		}
		hopFees = append(hopFees, pool.SwapFeeFraction())

		switch pool.Kind {
		case models.PoolKindWeighted:
			tokenIn := sdk.Coin{Denom: currentDenom, Amount: currentAmount}
			impact, err := poolmath.PriceImpact(tokenIn, hop.OutDenom, pool.Weighted)
			if err != nil {
				return decimal.Zero, nil, err
			}
			totalImpact = totalImpact.Add(impact)

			nextAmount, err := weightedHopOutput(pool.Weighted, currentDenom, hop.OutDenom, currentAmount)
			if err != nil {
				return decimal.Zero, nil, err
			}
			currentAmount = nextAmount
		case models.PoolKindConcentrated:
			// The core carries no concentrated-liquidity swap math; a CL hop
			// contributes no impact and its output is estimated through the
			// price snapshot so a following weighted hop still gets a
			// realistic input.
			nextAmount, err := convertByPrice(currentAmount, currentDenom, hop.OutDenom, prices)
			if err != nil {
				return decimal.Zero, nil, err
			}
			currentAmount = nextAmount
		default:
			return decimal.Zero, nil, dexerrors.ErrInvalidPool.Wrapf("unknown pool kind %d", pool.Kind)
		}

		currentDenom = hop.OutDenom
	}

	return totalImpact, hopFees, nil
}

// blendFees attributes the displayed route fee. A single hop shows that
// pool's fee directly. A two-hop route shows the configured nominal tier
// fee weighted by the highest individual hop fee over the total, preserving
// the reference client's quote-display convention.
func (e *Engine) blendFees(hopFees []decimal.Decimal, feeTier string) (decimal.Decimal, error) {
	if len(hopFees) == 1 {
		return hopFees[0], nil
	}

	tierFee, err := e.cfg.TierFee(feeTier)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	highest := decimal.Zero
	for _, fee := range hopFees {
		total = total.Add(fee)
		if fee.GreaterThan(highest) {
			highest = fee
		}
	}
	if total.IsZero() {
		return decimal.Zero, nil
	}
	return tierFee.Mul(highest).Div(total), nil
}

func weightedHopOutput(pool *models.WeightedPool, denomIn, denomOut string, amountIn sdkmath.Int) (sdkmath.Int, error) {
	assetIn := pool.Asset(denomIn)
	assetOut := pool.Asset(denomOut)
	if assetIn == nil || assetOut == nil {
		return sdkmath.ZeroInt(), dexerrors.ErrInvalidPool.Wrapf("pool %d does not pair %s and %s", pool.ID, denomIn, denomOut)
	}
	out, err := poolmath.OutGivenIn(
		decimal.NewFromBigInt(assetIn.Balance.BigInt(), 0),
		decimal.NewFromBigInt(assetIn.Weight.BigInt(), 0),
		decimal.NewFromBigInt(assetOut.Balance.BigInt(), 0),
		decimal.NewFromBigInt(assetOut.Weight.BigInt(), 0),
		decimal.NewFromBigInt(amountIn.BigInt(), 0),
		pool.SwapFee,
	)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	return sdkmath.NewIntFromBigInt(out.Floor().BigInt()), nil
}

// convertByPrice estimates an equivalent amount of another denom through
// the USD price snapshot.
func convertByPrice(amount sdkmath.Int, fromDenom, toDenom string, prices models.PriceSnapshot) (sdkmath.Int, error) {
	fromPrice, ok := prices.Price(fromDenom)
	if !ok {
		return sdkmath.ZeroInt(), dexerrors.ErrPriceUnavailable.Wrapf("no usd price for %s", fromDenom)
	}
	toPrice, ok := prices.Price(toDenom)
	if !ok {
		return sdkmath.ZeroInt(), dexerrors.ErrPriceUnavailable.Wrapf("no usd price for %s", toDenom)
	}
	display := models.BaseToDisplay(amount, prices.Exponent(fromDenom))
	converted := display.Mul(fromPrice).Div(toPrice)
	return models.DisplayToBase(converted, prices.Exponent(toDenom)), nil
}
