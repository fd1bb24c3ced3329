package liquidity_test

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/halcyon-labs/dexcore/config"
	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/liquidity"
	"github.com/halcyon-labs/dexcore/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Balanced 50/50 pool with one million display units on each side and one
// hundred million outstanding shares.
func balancedPool() models.Pool {
	return models.Pool{
		Kind: models.PoolKindWeighted,
		Weighted: &models.WeightedPool{
			ID: 1,
			Assets: []models.PoolAsset{
				{Denom: "uosmo", Weight: sdkmath.NewInt(1), Balance: sdkmath.NewInt(1_000_000_000_000)},
				{Denom: "uion", Weight: sdkmath.NewInt(1), Balance: sdkmath.NewInt(1_000_000_000_000)},
			},
			SwapFee:     dec("0.002"),
			TotalShares: sdk.Coin{Denom: "gamm/pool/1", Amount: sdkmath.NewInt(100_000_000)},
		},
	}
}

func snapshot() models.PriceSnapshot {
	return models.PriceSnapshot{
		"uosmo": {Denom: "uosmo", USDPrice: dec("1"), Exponent: 6},
		"uion":  {Denom: "uion", USDPrice: dec("1"), Exponent: 6},
	}
}

func TestSizeJoinSingleSided(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())

	sizing, err := sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  dec("2"),
		Slippage: dec("0.01"),
	}, balancedPool(), snapshot())
	assert.NoError(t, err)
	t.Logf("sizing: %+v", sizing)

	// Two dollars split evenly across two equally weighted dollar assets.
	assert.Equal(t, len(sizing.RequiredCoins), 2)
	assert.True(t, sizing.RequiredCoins.AmountOf("uosmo").Equal(sdkmath.NewInt(1_000_000)))
	assert.True(t, sizing.RequiredCoins.AmountOf("uion").Equal(sdkmath.NewInt(1_000_000)))

	// One millionth of the pool mints one millionth of the shares.
	assert.True(t, sizing.ExpectedShares.Equal(sdkmath.NewInt(100)))
	assert.True(t, sizing.MinShares.Equal(sdkmath.NewInt(99)))
	assert.True(t, sizing.MinShares.LTE(sizing.ExpectedShares))
}

func TestSizeJoinDualSided(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())

	sizing, err := sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  dec("1"),
		Denom1:   "uion",
		Amount1:  dec("2"),
		Slippage: dec("0.01"),
	}, balancedPool(), snapshot())
	assert.NoError(t, err)

	assert.True(t, sizing.RequiredCoins.AmountOf("uosmo").Equal(sdkmath.NewInt(1_000_000)))
	assert.True(t, sizing.RequiredCoins.AmountOf("uion").Equal(sdkmath.NewInt(2_000_000)))

	// The lopsided leg does not mint extra: shares follow the smaller ratio.
	assert.True(t, sizing.ExpectedShares.Equal(sdkmath.NewInt(100)))
}

func TestSizeJoinErrors(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())
	pool := balancedPool()

	_, err := sizer.SizeJoin(models.JoinRequest{
		PoolID:   2,
		Denom0:   "uosmo",
		Amount0:  dec("1"),
		Slippage: dec("0.01"),
	}, pool, snapshot())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrPoolNotFound))

	_, err = sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  decimal.Zero,
		Slippage: dec("0.01"),
	}, pool, snapshot())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidAmount))

	_, err = sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  dec("1"),
		Slippage: dec("2"),
	}, pool, snapshot())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidSlippage))

	// Unpriced pool asset blocks the USD split.
	_, err = sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  dec("1"),
		Slippage: dec("0.01"),
	}, pool, models.PriceSnapshot{
		"uosmo": {Denom: "uosmo", USDPrice: dec("1"), Exponent: 6},
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrPriceUnavailable))
}

func TestSizeExit(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())

	sizing, err := sizer.SizeExit(models.ExitRequest{
		PoolID:     1,
		UserShares: sdkmath.NewInt(1000),
		Percent:    dec("50"),
		Slippage:   dec("0.01"),
	}, balancedPool())
	assert.NoError(t, err)
	t.Logf("sizing: %+v", sizing)

	assert.True(t, sizing.SharesIn.Equal(sdkmath.NewInt(500)))
	// 500 of 100M shares redeems five millionths of each billion-unit side.
	assert.True(t, sizing.ExpectedCoins.AmountOf("uosmo").Equal(sdkmath.NewInt(5_000_000)))
	assert.True(t, sizing.ExpectedCoins.AmountOf("uion").Equal(sdkmath.NewInt(5_000_000)))
	assert.True(t, sizing.MinAmounts.AmountOf("uosmo").Equal(sdkmath.NewInt(4_950_000)))
	assert.True(t, sizing.MinAmounts.AmountOf("uion").Equal(sdkmath.NewInt(4_950_000)))
}

func TestSizeExitDropsDustFloors(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())
	pool := balancedPool()
	pool.Weighted.Assets = append(pool.Weighted.Assets, models.PoolAsset{
		Denom: "udust", Weight: sdkmath.NewInt(1), Balance: sdkmath.NewInt(300_000),
	})

	sizing, err := sizer.SizeExit(models.ExitRequest{
		PoolID:     1,
		UserShares: sdkmath.NewInt(1000),
		Percent:    dec("50"),
		Slippage:   dec("0.01"),
	}, pool)
	assert.NoError(t, err)

	// The dust leg redeems a single base unit whose floor rounds below one,
	// so it is expected but carries no enforced minimum.
	assert.True(t, sizing.ExpectedCoins.AmountOf("udust").Equal(sdkmath.OneInt()))
	assert.True(t, sizing.MinAmounts.AmountOf("udust").IsZero())
	assert.Equal(t, len(sizing.MinAmounts), 2)
}

func TestSizeJoinGasCeiling(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.Gas.GasCeiling = 100_000
	sizer := liquidity.NewSizer(cfg)

	_, err := sizer.SizeJoin(models.JoinRequest{
		PoolID:   1,
		Denom0:   "uosmo",
		Amount0:  dec("1"),
		Slippage: dec("0.01"),
	}, balancedPool(), snapshot())
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrGasLimitExceeded))
}

func TestSizeExitErrors(t *testing.T) {
	sizer := liquidity.NewSizer(config.DefaultEngineConfig())
	pool := balancedPool()

	_, err := sizer.SizeExit(models.ExitRequest{
		PoolID:     1,
		UserShares: sdkmath.NewInt(1000),
		Percent:    dec("150"),
		Slippage:   dec("0.01"),
	}, pool)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidAmount))

	_, err = sizer.SizeExit(models.ExitRequest{
		PoolID:     1,
		UserShares: sdkmath.ZeroInt(),
		Percent:    dec("50"),
		Slippage:   dec("0.01"),
	}, pool)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrInvalidAmount))
}
