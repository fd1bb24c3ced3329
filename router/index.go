// Package router discovers trade routes across a pool snapshot: a direct
// pool when one pairs the requested denoms, otherwise a two-hop route
// through a designated hub denom. The search never goes beyond two hops.
package router

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/halcyon-labs/dexcore/models"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "router").Logger()
}

// Pair is one eligible denom pairing inside a pool. A pool with more than
// two assets contributes a pair per unordered denom combination.
type Pair struct {
	PoolID uint64
	DenomA string
	DenomB string
	Pool   *models.Pool
}

// PairIndex precomputes the eligible candidate pairs of a pool snapshot so
// route lookups are map hits. A pool is eligible only when every asset it
// holds has a known USD price and none is a pool-share denom.
type PairIndex struct {
	byPair map[string]*Pair
	byPool map[uint64]*models.Pool
	pairs  []*Pair
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// BuildPairIndex scans the pool snapshot and indexes every eligible pair.
// Ineligible pools are skipped, not errors: a pool with an unpriced asset
// simply cannot serve as a hop.
func BuildPairIndex(pools []models.Pool, prices models.PriceSnapshot) *PairIndex {
	idx := &PairIndex{
		byPair: make(map[string]*Pair),
		byPool: make(map[uint64]*models.Pool),
	}

	for i := range pools {
		pool := &pools[i]
		if err := pool.Validate(); err != nil {
			log.Debug().Err(err).Uint64("pool", pool.ID()).Msg("Skipping invalid pool")
			continue
		}
		idx.byPool[pool.ID()] = pool

		if !eligible(pool, prices) {
			continue
		}

		denoms := pool.Denoms()
		for a := 0; a < len(denoms); a++ {
			for b := a + 1; b < len(denoms); b++ {
				pair := &Pair{PoolID: pool.ID(), DenomA: denoms[a], DenomB: denoms[b], Pool: pool}
				key := pairKey(denoms[a], denoms[b])
				// First pool pairing two denoms wins; snapshots are expected
				// to list deeper pools first.
				if _, exists := idx.byPair[key]; !exists {
					idx.byPair[key] = pair
					idx.pairs = append(idx.pairs, pair)
				}
			}
		}
	}

	log.Debug().Int("pools", len(pools)).Int("pairs", len(idx.pairs)).Msg("Pair index built")
	return idx
}

// eligible reports whether a pool may participate as a hop: every asset
// priced, no liquidity-token denoms.
func eligible(pool *models.Pool, prices models.PriceSnapshot) bool {
	for _, denom := range pool.Denoms() {
		if models.IsShareDenom(denom) {
			return false
		}
		if _, ok := prices.Price(denom); !ok {
			return false
		}
	}
	return true
}

// PairFor returns the indexed pair holding both denoms, or nil.
func (idx *PairIndex) PairFor(a, b string) *Pair {
	if a == b {
		return nil
	}
	return idx.byPair[pairKey(a, b)]
}

// PoolByID returns the pool for an id from the snapshot the index was built
// over, eligible or not.
func (idx *PairIndex) PoolByID(id uint64) *models.Pool {
	return idx.byPool[id]
}

// Pairs returns all eligible pairs, mainly for diagnostics.
func (idx *PairIndex) Pairs() []*Pair {
	return idx.pairs
}
