// Package dexerrors defines the coded error taxonomy shared by the pricing
// and settlement packages. Callers match with errors.Is; the registry keeps
// codes stable so external surfaces can map them 1:1.
package dexerrors

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "dexcore"

var (
	// ErrPriceUnavailable is returned when the USD price for a denom is
	// missing from the supplied price snapshot.
	ErrPriceUnavailable = errorsmod.Register(codespace, 2, "usd price unavailable")

	// ErrNoTradeRoute is returned when neither a direct pool nor a two-hop
	// hub route connects the requested denoms.
	ErrNoTradeRoute = errorsmod.Register(codespace, 3, "no trade route")

	// ErrInvalidPrice is returned for a non-positive price handed to the
	// tick conversion.
	ErrInvalidPrice = errorsmod.Register(codespace, 4, "invalid price")

	// ErrDivisionByZero is returned for degenerate pool parameters
	// (zero weight, zero balance, or a 100% swap fee).
	ErrDivisionByZero = errorsmod.Register(codespace, 5, "division by zero")

	// ErrGasLimitExceeded is returned when the configured gas estimate for
	// the operation exceeds the configured ceiling.
	ErrGasLimitExceeded = errorsmod.Register(codespace, 6, "gas limit exceeded")

	// ErrInvalidAmount is returned for zero or negative trade amounts, or
	// an output request that exceeds pool liquidity.
	ErrInvalidAmount = errorsmod.Register(codespace, 7, "invalid amount")

	// ErrPoolNotFound is returned when a request references a pool id that
	// is not present in the supplied snapshot.
	ErrPoolNotFound = errorsmod.Register(codespace, 8, "pool not found")

	// ErrInvalidSlippage is returned for a slippage fraction outside [0, 1].
	ErrInvalidSlippage = errorsmod.Register(codespace, 9, "invalid slippage")

	// ErrInvalidTickParams is returned for a non-positive tick spacing or an
	// exponent-at-price-one outside the supported range.
	ErrInvalidTickParams = errorsmod.Register(codespace, 10, "invalid tick parameters")

	// ErrInvalidPool is returned when a pool snapshot fails validation.
	ErrInvalidPool = errorsmod.Register(codespace, 11, "invalid pool")
)
