package router

import (
	"github.com/halcyon-labs/dexcore/dexerrors"
	"github.com/halcyon-labs/dexcore/models"
)

// Finder resolves routes against a pair index. Hub denoms are tried in
// order: the chain's native fee token first, then a secondary liquid
// reserve asset.
type Finder struct {
	idx  *PairIndex
	hubs []string
}

// NewFinder creates a Finder over an index. Empty hub denoms are dropped.
func NewFinder(idx *PairIndex, hubDenoms ...string) *Finder {
	hubs := make([]string, 0, len(hubDenoms))
	for _, h := range hubDenoms {
		if h != "" {
			hubs = append(hubs, h)
		}
	}
	return &Finder{idx: idx, hubs: hubs}
}

// FindRoute returns a direct route when a pool pairs sellDenom and buyDenom,
// otherwise the first two-hop route through a configured hub. Anything that
// would need more than two hops is a failed lookup.
func (f *Finder) FindRoute(sellDenom, buyDenom string) (models.Route, error) {
	if sellDenom == buyDenom {
		return models.Route{}, dexerrors.ErrNoTradeRoute.Wrapf("sell and buy denom are both %s", sellDenom)
	}

	if pair := f.idx.PairFor(sellDenom, buyDenom); pair != nil {
		log.Debug().Uint64("pool", pair.PoolID).Msg("Found direct route")
		return models.Route{Hops: []models.RouteHop{{PoolID: pair.PoolID, OutDenom: buyDenom}}}, nil
	}

	for _, hub := range f.hubs {
		if hub == sellDenom || hub == buyDenom {
			continue
		}
		first := f.idx.PairFor(sellDenom, hub)
		second := f.idx.PairFor(hub, buyDenom)
		if first == nil || second == nil {
			continue
		}
		log.Debug().
			Str("hub", hub).
			Uint64("pool_in", first.PoolID).
			Uint64("pool_out", second.PoolID).
			Msg("Found two-hop route")
		return models.Route{Hops: []models.RouteHop{
			{PoolID: first.PoolID, OutDenom: hub},
			{PoolID: second.PoolID, OutDenom: buyDenom},
		}}, nil
	}

	log.Debug().Str("sell", sellDenom).Str("buy", buyDenom).Msg("No route found")
	return models.Route{}, dexerrors.ErrNoTradeRoute.Wrapf("no direct or hub route from %s to %s", sellDenom, buyDenom)
}
