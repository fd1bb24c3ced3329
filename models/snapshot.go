package models

import (
	sdkmath "cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// PricedAsset carries the off-chain USD unit price and base-unit scale for
// one denom. An asset absent from the snapshot is untradeable for routing.
type PricedAsset struct {
	Denom    string          `json:"denom"`
	Symbol   string          `json:"symbol,omitempty"`
	USDPrice decimal.Decimal `json:"usd_price"`
	// Exponent is the decimal scale of the base unit, e.g. 6 for uosmo.
	Exponent int32 `json:"exponent"`
}

// DefaultExponent is the base-unit scale assumed for unknown denoms, the
// common micro-denom scale.
const DefaultExponent int32 = 6

// PriceSnapshot maps denom to its priced asset. Snapshots are read-only and
// supplied per call together with the pool snapshot they were taken with.
type PriceSnapshot map[string]PricedAsset

// Price returns the USD unit price for a denom and whether it is known.
func (s PriceSnapshot) Price(denom string) (decimal.Decimal, bool) {
	asset, ok := s[denom]
	if !ok || asset.USDPrice.Sign() <= 0 {
		return decimal.Zero, false
	}
	return asset.USDPrice, true
}

// Exponent returns the base-unit scale for a denom, defaulting to
// DefaultExponent when the asset is unknown.
func (s PriceSnapshot) Exponent(denom string) int32 {
	if asset, ok := s[denom]; ok {
		return asset.Exponent
	}
	return DefaultExponent
}

// DisplayToBase converts a display-unit amount to integer base units,
// truncating any sub-unit remainder.
func DisplayToBase(amount decimal.Decimal, exponent int32) sdkmath.Int {
	scaled := amount.Mul(decimal.New(1, exponent)).Floor()
	return sdkmath.NewIntFromBigInt(scaled.BigInt())
}

// BaseToDisplay converts integer base units back to display units.
func BaseToDisplay(amount sdkmath.Int, exponent int32) decimal.Decimal {
	return decimal.NewFromBigInt(amount.BigInt(), -exponent)
}
