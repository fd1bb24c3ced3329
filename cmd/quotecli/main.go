package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/config"
	"github.com/halcyon-labs/dexcore/models"
	"github.com/halcyon-labs/dexcore/quote"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()
}

func main() {
	configPath := flag.String("config", "", "TOML engine config, empty loads from environment")
	poolsPath := flag.String("pools", "pools.json", "pool snapshot file")
	pricesPath := flag.String("prices", "prices.json", "price snapshot file")
	sellDenom := flag.String("sell", "", "denom to sell")
	buyDenom := flag.String("buy", "", "denom to buy")
	amount := flag.String("amount", "", "display-unit amount of the sell side (buy side with -side buy)")
	side := flag.String("side", "sell", "trade side: sell or buy")
	slippage := flag.String("slippage", "", "slippage tolerance fraction, empty uses the configured default")
	feeTier := flag.String("fee-tier", "", "fee tier name, empty uses the configured default")
	flag.Parse()

	if *sellDenom == "" || *buyDenom == "" || *amount == "" {
		flag.Usage()
		log.Fatal().Msg("-sell, -buy and -amount are required")
	}

	var cfgPath *string
	if *configPath != "" {
		cfgPath = configPath
	}
	cfg, err := config.LoadEngineConfig(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load engine config")
	}

	var pools []models.Pool
	if err := readJSON(*poolsPath, &pools); err != nil {
		log.Fatal().Err(err).Str("path", *poolsPath).Msg("Failed to load pool snapshot")
	}
	var priced []models.PricedAsset
	if err := readJSON(*pricesPath, &priced); err != nil {
		log.Fatal().Err(err).Str("path", *pricesPath).Msg("Failed to load price snapshot")
	}
	prices := make(models.PriceSnapshot, len(priced))
	for _, asset := range priced {
		prices[asset.Denom] = asset
	}

	log.Info().
		Int("pools", len(pools)).
		Int("prices", len(prices)).
		Msg("Snapshots loaded")

	req := models.QuoteRequest{
		SellDenom: *sellDenom,
		BuyDenom:  *buyDenom,
		Side:      models.SideSell,
		Slippage:  cfg.DefaultSlippage,
		FeeTier:   *feeTier,
	}
	if *side == "buy" {
		req.Side = models.SideBuy
	} else if *side != "sell" {
		log.Fatal().Str("side", *side).Msg("Side must be sell or buy")
	}
	req.Amount, err = decimal.NewFromString(*amount)
	if err != nil {
		log.Fatal().Err(err).Str("amount", *amount).Msg("Invalid amount")
	}
	if *slippage != "" {
		req.Slippage, err = decimal.NewFromString(*slippage)
		if err != nil {
			log.Fatal().Err(err).Str("slippage", *slippage).Msg("Invalid slippage")
		}
	}

	engine := quote.NewEngine(cfg)
	result, err := engine.Quote(req, pools, prices)
	if err != nil {
		log.Fatal().Err(err).Msg("Quote failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode quote")
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
