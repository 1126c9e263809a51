// Package core defines the domain types and component interfaces for the
// strategy console
package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountSource provides the strategy's broker-side state. Read-only from
// the console's perspective; every call returns a fresh snapshot.
type AccountSource interface {
	// GetOpenPositions returns the strategy's open positions, optionally
	// filtered by security type ("CS", "OPT", "FUT", "FOR"; empty = all).
	GetOpenPositions(ctx context.Context, securityType string) ([]Position, error)

	// GetAccountSnapshot returns account-level equity and cash figures.
	GetAccountSnapshot(ctx context.Context) (*AccountSnapshot, error)

	// GetWorkingOrders returns the authoritative working-order list.
	GetWorkingOrders(ctx context.Context) ([]WorkingOrder, error)
}

// PriceSource provides best-effort live market prices. A miss is reported
// as an error; the caller decides how to degrade.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error)
}

// SignalGateway submits and cancels trade signals on the remote platform.
type SignalGateway interface {
	// SubmitSignal sends a single signal and returns the broker-assigned
	// receipt, or a rejection error with the broker's reason.
	SubmitSignal(ctx context.Context, sig Signal) (*SignalReceipt, error)

	// CancelSignal requests cancellation of a working order by signal ID.
	CancelSignal(ctx context.Context, signalID int64) error
}

// IPriceOracle resolves a best-effort current price for an instrument with
// a defined fallback chain (live, computed-intrinsic, stale-fallback).
type IPriceOracle interface {
	Quote(ctx context.Context, instrument Instrument) PriceQuote
}

// IPositionValuator computes unrealized P/L per position and portfolio
// aggregates from a positions snapshot.
type IPositionValuator interface {
	Valuate(ctx context.Context, positions []Position, account *AccountSnapshot) ([]ValuedPosition, *PortfolioSummary, error)
}

// ILogger defines the interface for logging
type ILogger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Fatal(msg string, fields ...interface{})
	WithField(key string, value interface{}) ILogger
	WithFields(fields map[string]interface{}) ILogger
}
