package router_test

import (
	"errors"
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/models"
	"github.com/halcyon-labs/dexcore/router"
)

const usdcDenom = "ibc/498A0751C798A0D9A389AA3691123DADA57DAA4FE165D5C75894505B876BA6E4"

func weightedPool(id uint64, denomA, denomB string) models.Pool {
	return models.Pool{
		Kind: models.PoolKindWeighted,
		Weighted: &models.WeightedPool{
			ID: id,
			Assets: []models.PoolAsset{
				{Denom: denomA, Weight: sdkmath.NewInt(1), Balance: sdkmath.NewInt(1_000_000_000)},
				{Denom: denomB, Weight: sdkmath.NewInt(1), Balance: sdkmath.NewInt(1_000_000_000)},
			},
			SwapFee:     decimal.New(2, -3),
			TotalShares: sdk.Coin{Denom: "gamm/pool/1", Amount: sdkmath.NewInt(100_000_000)},
		},
	}
}

func priced(denoms ...string) models.PriceSnapshot {
	snapshot := make(models.PriceSnapshot, len(denoms))
	for _, d := range denoms {
		snapshot[d] = models.PricedAsset{Denom: d, USDPrice: decimal.New(1, 0), Exponent: 6}
	}
	return snapshot
}

func TestFindRouteDirect(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uatom", "uosmo"),
		weightedPool(2, "uosmo", "uion"),
		weightedPool(3, "uatom", "uion"),
	}
	prices := priced("uatom", "uosmo", "uion")

	idx := router.BuildPairIndex(pools, prices)
	finder := router.NewFinder(idx, "uosmo", usdcDenom)

	// A direct pool beats any two-hop route.
	route, err := finder.FindRoute("uatom", "uion")
	assert.NoError(t, err)
	assert.Equal(t, len(route.Hops), 1)
	assert.Equal(t, route.Hops[0].PoolID, uint64(3))
	assert.Equal(t, route.Hops[0].OutDenom, "uion")
}

func TestFindRouteTwoHopThroughPrimaryHub(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uatom", "uosmo"),
		weightedPool(2, "uosmo", "uion"),
	}
	prices := priced("uatom", "uosmo", "uion")

	idx := router.BuildPairIndex(pools, prices)
	finder := router.NewFinder(idx, "uosmo", usdcDenom)

	route, err := finder.FindRoute("uatom", "uion")
	assert.NoError(t, err)
	t.Logf("route: %+v", route)
	assert.Equal(t, len(route.Hops), 2)
	assert.Equal(t, route.Hops[0].PoolID, uint64(1))
	assert.Equal(t, route.Hops[0].OutDenom, "uosmo")
	assert.Equal(t, route.Hops[1].PoolID, uint64(2))
	assert.Equal(t, route.Hops[1].OutDenom, "uion")
	assert.DeepEqual(t, route.PoolIDs(), []uint64{1, 2})
}

func TestFindRouteFallsBackToSecondaryHub(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uatom", usdcDenom),
		weightedPool(2, usdcDenom, "uion"),
		weightedPool(3, "uosmo", "uion"),
	}
	prices := priced("uatom", "uosmo", "uion", usdcDenom)

	idx := router.BuildPairIndex(pools, prices)
	finder := router.NewFinder(idx, "uosmo", usdcDenom)

	route, err := finder.FindRoute("uatom", "uion")
	assert.NoError(t, err)
	assert.Equal(t, len(route.Hops), 2)
	assert.Equal(t, route.Hops[0].OutDenom, usdcDenom)
}

func TestFindRouteNoRoute(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uatom", "uosmo"),
	}
	prices := priced("uatom", "uosmo", "uion")

	idx := router.BuildPairIndex(pools, prices)
	finder := router.NewFinder(idx, "uosmo", usdcDenom)

	_, err := finder.FindRoute("uatom", "uion")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrNoTradeRoute))

	// A denom routed to itself is never a trade.
	_, err = finder.FindRoute("uatom", "uatom")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, dexerrors.ErrNoTradeRoute))
}

func TestUnpricedPoolsAreIneligible(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uatom", "unlisted"),
	}
	prices := priced("uatom")

	idx := router.BuildPairIndex(pools, prices)
	assert.Equal(t, len(idx.Pairs()), 0)
	assert.Nil(t, idx.PairFor("uatom", "unlisted"))

	// The pool itself stays addressable for hop resolution.
	assert.NotNil(t, idx.PoolByID(1))
}

func TestShareDenomPoolsAreIneligible(t *testing.T) {
	pools := []models.Pool{
		weightedPool(1, "uosmo", "gamm/pool/7"),
		weightedPool(2, "uosmo", "cl/pool/9"),
	}
	prices := priced("uosmo", "gamm/pool/7", "cl/pool/9")

	idx := router.BuildPairIndex(pools, prices)
	assert.Equal(t, len(idx.Pairs()), 0)
}

func TestFirstPoolPairingWins(t *testing.T) {
	pools := []models.Pool{
		weightedPool(10, "uatom", "uosmo"),
		weightedPool(11, "uatom", "uosmo"),
	}
	prices := priced("uatom", "uosmo")

	idx := router.BuildPairIndex(pools, prices)
	pair := idx.PairFor("uosmo", "uatom")
	assert.NotNil(t, pair)
	assert.Equal(t, pair.PoolID, uint64(10))
}

func TestInvalidPoolsAreSkipped(t *testing.T) {
	bad := weightedPool(1, "uatom", "uosmo")
	bad.Weighted.Assets[0].Balance = sdkmath.ZeroInt()
	pools := []models.Pool{bad, weightedPool(2, "uatom", "uosmo")}
	prices := priced("uatom", "uosmo")

	idx := router.BuildPairIndex(pools, prices)
	pair := idx.PairFor("uatom", "uosmo")
	assert.NotNil(t, pair)
	assert.Equal(t, pair.PoolID, uint64(2))
	assert.Nil(t, idx.PoolByID(1))
}

func TestConcentratedPoolsIndexToo(t *testing.T) {
	pools := []models.Pool{
		{
			Kind: models.PoolKindConcentrated,
			Concentrated: &models.ConcentratedPool{
				ID:                 5,
				Token0Denom:        "uosmo",
				Token1Denom:        usdcDenom,
				TickSpacing:        100,
				ExponentAtPriceOne: -6,
			},
		},
	}
	prices := priced("uosmo", usdcDenom)

	idx := router.BuildPairIndex(pools, prices)
	pair := idx.PairFor("uosmo", usdcDenom)
	assert.NotNil(t, pair)
	assert.Equal(t, pair.PoolID, uint64(5))
}
