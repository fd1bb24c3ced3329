// Package settlement reconciles executed transactions against expectations.
// It classifies the result code and recovers the amounts actually received
// from the transaction's ABCI events. Reconciliation never fails: anything
// it cannot recover degrades to a zero amount so a confirmed transaction is
// always reportable.
package settlement

import (
	"os"
	"strconv"
	"strings"
	"time"

	sdkmath "cosmossdk.io/math"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/halcyon-labs/dexcore/metrics"
	"github.com/halcyon-labs/dexcore/models"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "settlement").Logger()
}

// Classification buckets a transaction result code into the outcomes the
// engine reacts to differently.
type Classification int8

const (
	Success Classification = iota + 1
	InsufficientFunds
	OutOfGas
	SlippageExceeded
	OtherFailure
)

func (c Classification) String() string {
	switch c {
	case Success:
		return "success"
	case InsufficientFunds:
		return "insufficient_funds"
	case OutOfGas:
		return "out_of_gas"
	case SlippageExceeded:
		return "slippage_exceeded"
	default:
		return "other_failure"
	}
}

// Result codes as reported by the chain.
const (
	codeSuccess           uint32 = 0
	codeInsufficientFunds uint32 = 5
	codeSlippageExceeded  uint32 = 7
	codeOutOfGas          uint32 = 11
)

// Classify maps a transaction result code to its outcome bucket.
func Classify(code uint32) Classification {
	switch code {
	case codeSuccess:
		return Success
	case codeInsufficientFunds:
		return InsufficientFunds
	case codeOutOfGas:
		return OutOfGas
	case codeSlippageExceeded:
		return SlippageExceeded
	default:
		return OtherFailure
	}
}

// TxResult is the confirmed transaction outcome to reconcile.
type TxResult struct {
	Hash      string
	Code      uint32
	RawLog    string
	Events    []abci.Event
	GasWanted int64
	GasUsed   int64
}

// ReconcileParams names what the caller expected: the address that should
// have received funds and the denoms it cares about. Exponents translate
// recovered base amounts back to display units; missing entries default
// through the snapshot rule of six.
type ReconcileParams struct {
	Receiver       string
	ExpectedDenoms []string
	Exponents      map[string]int32
}

// Settlement is the reconciled view of a transaction. Received holds a
// display-unit amount for every expected denom, zero when nothing was
// recovered. PoolID, PositionID and Shares are best-effort extractions and
// stay zero when the events do not carry them.
type Settlement struct {
	Hash           string
	Classification Classification
	Received       map[string]decimal.Decimal
	PoolID         uint64
	PositionID     uint64
	Shares         sdkmath.Int
	GasWanted      int64
	GasUsed        int64
	RawLog         string
}

// Reconcile classifies the result and recovers received amounts from its
// events. It never returns an error: a failed or unparsable transaction
// yields its classification with zero amounts.
func Reconcile(res TxResult, params ReconcileParams) Settlement {
	s := Settlement{
		Hash:           res.Hash,
		Classification: Classify(res.Code),
		Received:       make(map[string]decimal.Decimal, len(params.ExpectedDenoms)),
		Shares:         sdkmath.ZeroInt(),
		GasWanted:      res.GasWanted,
		GasUsed:        res.GasUsed,
		RawLog:         res.RawLog,
	}
	for _, denom := range params.ExpectedDenoms {
		s.Received[denom] = decimal.Zero
	}

	if s.Classification == Success {
		totals := receivedTotals(res.Events, params.Receiver)
		for _, denom := range params.ExpectedDenoms {
			amount, ok := totals[denom]
			if !ok {
				continue
			}
			s.Received[denom] = models.BaseToDisplay(amount, exponentFor(params.Exponents, denom))
		}
		s.PoolID, s.PositionID, s.Shares = extractPositionInfo(res.Events)
	}

	if s.Classification != Success {
		log.Warn().
			Str("hash", res.Hash).
			Uint32("code", res.Code).
			Str("classification", s.Classification.String()).
			Str("raw_log", res.RawLog).
			Msg("Transaction did not succeed")
	}
	metrics.SettlementReconciled(s.Classification.String())
	return s
}

func exponentFor(exponents map[string]int32, denom string) int32 {
	if exp, ok := exponents[denom]; ok {
		return exp
	}
	return models.DefaultExponent
}

// receivedTotals sums every coin the receiver was credited across the
// transaction's coin_received events. Each receiver attribute that matches
// is followed by the amount attribute for that credit.
func receivedTotals(events []abci.Event, receiver string) map[string]sdkmath.Int {
	totals := make(map[string]sdkmath.Int)
	for _, ev := range events {
		if ev.Type != "coin_received" {
			continue
		}
		for i, attr := range ev.Attributes {
			if attr.Key != "receiver" || attr.Value != receiver {
				continue
			}
			if i+1 >= len(ev.Attributes) || ev.Attributes[i+1].Key != "amount" {
				continue
			}
			for denom, amount := range parseCoinList(ev.Attributes[i+1].Value) {
				if existing, ok := totals[denom]; ok {
					totals[denom] = existing.Add(amount)
				} else {
					totals[denom] = amount
				}
			}
		}
	}
	return totals
}

// parseCoinList parses a comma-separated coin string such as
// "990uion,98159uosmo" into base amounts per denom. Malformed entries are
// logged and skipped.
func parseCoinList(raw string) map[string]sdkmath.Int {
	coins := make(map[string]sdkmath.Int)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		split := len(part)
		for i, r := range part {
			if r < '0' || r > '9' {
				split = i
				break
			}
		}
		if split == 0 || split == len(part) {
			log.Warn().Str("coin", part).Msg("Unparsable coin in received amount")
			continue
		}
		amount, ok := sdkmath.NewIntFromString(part[:split])
		if !ok {
			log.Warn().Str("coin", part).Msg("Unparsable coin in received amount")
			continue
		}
		denom := part[split:]
		if existing, exists := coins[denom]; exists {
			coins[denom] = existing.Add(amount)
		} else {
			coins[denom] = amount
		}
	}
	return coins
}

// extractPositionInfo pulls pool, position and share identifiers out of the
// liquidity events when present.
func extractPositionInfo(events []abci.Event) (poolID, positionID uint64, shares sdkmath.Int) {
	shares = sdkmath.ZeroInt()
	for _, ev := range events {
		for _, attr := range ev.Attributes {
			switch attr.Key {
			case "pool_id":
				if id, err := strconv.ParseUint(attr.Value, 10, 64); err == nil && poolID == 0 {
					poolID = id
				}
			case "position_id":
				if id, err := strconv.ParseUint(attr.Value, 10, 64); err == nil && positionID == 0 {
					positionID = id
				}
			case "shares", "liquidity":
				if !shares.IsZero() {
					continue
				}
				if parsed, ok := parseLeadingInt(attr.Value); ok {
					shares = parsed
				}
			}
		}
	}
	return poolID, positionID, shares
}

// parseLeadingInt reads the leading digit run of a value such as
// "12345gamm/pool/1" or a bare integer.
func parseLeadingInt(raw string) (sdkmath.Int, bool) {
	end := len(raw)
	for i, r := range raw {
		if r < '0' || r > '9' {
			end = i
			break
		}
	}
	if end == 0 {
		return sdkmath.ZeroInt(), false
	}
	return sdkmath.NewIntFromString(raw[:end])
}
