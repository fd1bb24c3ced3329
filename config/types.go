package config

import (
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/dexerrors"
)

// GasConfig is the per-operation gas table. Estimates are the configured
// base gas multiplied by the adjustment factor; a quote fails fast when the
// estimate exceeds the ceiling, before any network call.
type GasConfig struct {
	SwapGas       uint64  `toml:"swap_gas" mapstructure:"swap_gas"`
	JoinGas       uint64  `toml:"join_gas" mapstructure:"join_gas"`
	ExitGas       uint64  `toml:"exit_gas" mapstructure:"exit_gas"`
	PositionGas   uint64  `toml:"position_gas" mapstructure:"position_gas"`
	GasAdjustment float64 `toml:"gas_adjustment" mapstructure:"gas_adjustment"`
	GasCeiling    uint64  `toml:"gas_ceiling" mapstructure:"gas_ceiling"`
}

// Estimate returns the adjusted gas estimate for a base amount.
func (g GasConfig) Estimate(base uint64) uint64 {
	return uint64(float64(base) * g.GasAdjustment)
}

// EngineConfig carries every tunable the quote engine and liquidity sizer
// consume. It replaces the protocol client's module-level fee and gas
// presets with an explicit value passed at construction.
type EngineConfig struct {
	// PrimaryHubDenom is the chain's native fee token, tried first as the
	// intermediate denom for two-hop routes (e.g. uosmo).
	PrimaryHubDenom string
	// SecondaryHubDenom is a liquid reserve asset tried when no route
	// exists through the primary hub.
	SecondaryHubDenom string

	// DefaultSlippage is the slippage fraction applied when a request
	// leaves it unset.
	DefaultSlippage decimal.Decimal

	// FeeTiers maps tier name to the nominal fee fraction used for
	// two-hop blended-fee display.
	FeeTiers map[string]decimal.Decimal
	// DefaultFeeTier names the tier used when a request leaves it unset.
	DefaultFeeTier string

	Gas GasConfig
}

// TierFee resolves a fee tier name, falling back to the default tier for an
// empty name.
func (c *EngineConfig) TierFee(name string) (decimal.Decimal, error) {
	if name == "" {
		name = c.DefaultFeeTier
	}
	fee, ok := c.FeeTiers[name]
	if !ok {
		return decimal.Zero, dexerrors.ErrInvalidAmount.Wrapf("unknown fee tier %q", name)
	}
	return fee, nil
}

// Validate checks the config invariants: hubs set, fractions in range, and
// a usable gas table.
func (c *EngineConfig) Validate() error {
	if c.PrimaryHubDenom == "" {
		return dexerrors.ErrInvalidPool.Wrap("primary hub denom not set")
	}
	one := decimal.New(1, 0)
	if c.DefaultSlippage.IsNegative() || c.DefaultSlippage.GreaterThan(one) {
		return dexerrors.ErrInvalidSlippage.Wrapf("default slippage %s outside [0, 1]", c.DefaultSlippage)
	}
	for name, fee := range c.FeeTiers {
		if fee.IsNegative() || fee.GreaterThanOrEqual(one) {
			return dexerrors.ErrInvalidAmount.Wrapf("fee tier %q fraction %s outside [0, 1)", name, fee)
		}
	}
	if _, ok := c.FeeTiers[c.DefaultFeeTier]; !ok {
		return dexerrors.ErrInvalidAmount.Wrapf("default fee tier %q not configured", c.DefaultFeeTier)
	}
	if c.Gas.GasCeiling == 0 {
		return dexerrors.ErrGasLimitExceeded.Wrap("gas ceiling not set")
	}
	if c.Gas.GasAdjustment <= 0 {
		return dexerrors.ErrGasLimitExceeded.Wrapf("gas adjustment %f must be positive", c.Gas.GasAdjustment)
	}
	return nil
}

// DefaultEngineConfig returns the Osmosis mainnet presets. Callers override
// via TOML or environment.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		PrimaryHubDenom:   "uosmo",
		SecondaryHubDenom: "ibc/498A0751C798A0D9A389AA3691123DADA57DAA4FE165D5C75894505B876BA6E4", // noble USDC
		DefaultSlippage:   decimal.New(1, -2),
		FeeTiers: map[string]decimal.Decimal{
			"low":    decimal.New(1, -3),
			"medium": decimal.New(2, -3),
			"high":   decimal.New(3, -3),
		},
		DefaultFeeTier: "medium",
		Gas: GasConfig{
			SwapGas:       250_000,
			JoinGas:       280_000,
			ExitGas:       280_000,
			PositionGas:   400_000,
			GasAdjustment: 1.5,
			GasCeiling:    2_000_000,
		},
	}
}
