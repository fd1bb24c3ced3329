package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// fileEngineConfig is the on-disk TOML shape. Decimal fields are strings so
// fractions survive parsing without binary float drift.
type fileEngineConfig struct {
	PrimaryHubDenom   string            `toml:"primary_hub_denom" mapstructure:"primary_hub_denom"`
	SecondaryHubDenom string            `toml:"secondary_hub_denom" mapstructure:"secondary_hub_denom"`
	DefaultSlippage   string            `toml:"default_slippage" mapstructure:"default_slippage"`
	DefaultFeeTier    string            `toml:"default_fee_tier" mapstructure:"default_fee_tier"`
	FeeTiers          map[string]string `toml:"fee_tiers" mapstructure:"fee_tiers"`
	Gas               GasConfig         `toml:"gas" mapstructure:"gas"`
}

// LoadEngineConfig loads the engine config from a TOML file, or from the
// environment when configPath is nil. Unset fields fall back to the Osmosis
// defaults so a partial config stays usable.
func LoadEngineConfig(configPath *string) (*EngineConfig, error) {
	if configPath == nil {
		config, err := loadEnv()
		if err != nil {
			return nil, fmt.Errorf("failed to load env config: %w", err)
		}
		return config, nil
	}
	config, err := loadFile(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load file config: %w", err)
	}
	return config, nil
}

func loadFile(configPath string) (*EngineConfig, error) {
	if !strings.HasSuffix(configPath, ".toml") {
		return nil, fmt.Errorf("config file must be a toml file")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileEngineConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	return convert(&file)
}

func loadEnv() (*EngineConfig, error) {
	// godotenv might fail if the .env file is missing but env can be
	// applied through docker, systemd or other means, so skip the error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DEXCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	var file fileEngineConfig
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal env config: %w", err)
	}
	return convert(&file)
}

// bindEnvKeys binds each config key to its env var so Unmarshal sees env
// values when no config file is loaded (env-only mode). Fee tiers are not
// expressible through the environment and fall back to the defaults.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"primary_hub_denom", "secondary_hub_denom",
		"default_slippage", "default_fee_tier",
		"gas.swap_gas", "gas.join_gas", "gas.exit_gas", "gas.position_gas",
		"gas.gas_adjustment", "gas.gas_ceiling",
	}
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}

// convert fills defaults, parses decimal strings, and validates.
func convert(file *fileEngineConfig) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()

	if file.PrimaryHubDenom != "" {
		cfg.PrimaryHubDenom = file.PrimaryHubDenom
	}
	if file.SecondaryHubDenom != "" {
		cfg.SecondaryHubDenom = file.SecondaryHubDenom
	}
	if file.DefaultFeeTier != "" {
		cfg.DefaultFeeTier = file.DefaultFeeTier
	}
	if file.DefaultSlippage != "" {
		slippage, err := decimal.NewFromString(file.DefaultSlippage)
		if err != nil {
			return nil, fmt.Errorf("failed to parse default_slippage: %w", err)
		}
		cfg.DefaultSlippage = slippage
	}
	if len(file.FeeTiers) > 0 {
		tiers := make(map[string]decimal.Decimal, len(file.FeeTiers))
		for name, raw := range file.FeeTiers {
			fee, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse fee tier %q: %w", name, err)
			}
			tiers[name] = fee
		}
		cfg.FeeTiers = tiers
	}
	if file.Gas.SwapGas != 0 {
		cfg.Gas.SwapGas = file.Gas.SwapGas
	}
	if file.Gas.JoinGas != 0 {
		cfg.Gas.JoinGas = file.Gas.JoinGas
	}
	if file.Gas.ExitGas != 0 {
		cfg.Gas.ExitGas = file.Gas.ExitGas
	}
	if file.Gas.PositionGas != 0 {
		cfg.Gas.PositionGas = file.Gas.PositionGas
	}
	if file.Gas.GasAdjustment != 0 {
		cfg.Gas.GasAdjustment = file.Gas.GasAdjustment
	}
	if file.Gas.GasCeiling != 0 {
		cfg.Gas.GasCeiling = file.Gas.GasCeiling
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to verify config: %w", err)
	}
	return cfg, nil
}
