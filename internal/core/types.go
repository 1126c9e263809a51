package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstrumentKind identifies the security type of an instrument
type InstrumentKind string

const (
	KindEquity InstrumentKind = "equity"
	KindOption InstrumentKind = "option"
	KindFuture InstrumentKind = "future"
	KindForex  InstrumentKind = "forex"
)

// OptionRight identifies a call or put option
type OptionRight string

const (
	RightCall OptionRight = "call"
	RightPut  OptionRight = "put"
)

// Instrument identifies a tradable security. Option fields (Underlying,
// Right, Strike, Expiry) are set iff Kind == KindOption; use NewEquity and
// NewOption so the invariant holds.
type Instrument struct {
	Symbol     string
	Kind       InstrumentKind
	Underlying string
	Right      OptionRight
	Strike     decimal.Decimal
	Expiry     time.Time // calendar date, UTC midnight
}

// NewEquity creates an equity instrument for the given ticker symbol.
func NewEquity(symbol string) Instrument {
	return Instrument{Symbol: symbol, Kind: KindEquity}
}

// NewOption creates an option instrument. The strike must be positive and
// the expiry must be a real calendar date; malformed contracts are rejected
// here rather than at quote or submission time.
func NewOption(underlying string, right OptionRight, strike decimal.Decimal, expiry time.Time) (Instrument, error) {
	if underlying == "" {
		return Instrument{}, fmt.Errorf("option underlying symbol is required")
	}
	if right != RightCall && right != RightPut {
		return Instrument{}, fmt.Errorf("option right must be call or put, got %q", right)
	}
	if !strike.IsPositive() {
		return Instrument{}, fmt.Errorf("option strike must be positive, got %s", strike)
	}
	if expiry.IsZero() {
		return Instrument{}, fmt.Errorf("option expiry date is required")
	}
	expiry = time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return Instrument{
		Symbol:     underlying,
		Kind:       KindOption,
		Underlying: underlying,
		Right:      right,
		Strike:     strike,
		Expiry:     expiry,
	}, nil
}

// IsOption reports whether the instrument is an option contract.
func (i Instrument) IsOption() bool {
	return i.Kind == KindOption
}

// Multiplier returns the contract multiplier: 100 for options, 1 otherwise.
func (i Instrument) Multiplier() decimal.Decimal {
	if i.IsOption() {
		return decimal.NewFromInt(100)
	}
	return decimal.NewFromInt(1)
}

// Description renders a human-readable instrument description,
// e.g. "NBIS 150 call exp 10/24/25" or "AAPL".
func (i Instrument) Description() string {
	if !i.IsOption() {
		return i.Symbol
	}
	return fmt.Sprintf("%s %s %s exp %s",
		i.Underlying, i.Strike.String(), i.Right, i.Expiry.Format("01/02/06"))
}

// Position is a broker-reported open position. Quantity is signed: long
// positive, short negative. The console only ever holds read-only snapshots;
// the authoritative copy lives on the remote platform.
type Position struct {
	Instrument Instrument
	Quantity   decimal.Decimal
	AvgCost    decimal.Decimal
	OpenedAt   time.Time
}

// Side returns "Long" or "Short" based on the signed quantity.
func (p Position) Side() string {
	if p.Quantity.IsNegative() {
		return "Short"
	}
	return "Long"
}

// EntryValue returns |quantity| * avgCost * multiplier.
func (p Position) EntryValue() decimal.Decimal {
	return p.Quantity.Abs().Mul(p.AvgCost).Mul(p.Instrument.Multiplier())
}

// QuoteSource identifies how a price quote was obtained
type QuoteSource string

const (
	SourceLiveMarket        QuoteSource = "live-market"
	SourceComputedIntrinsic QuoteSource = "computed-intrinsic"
	SourceStaleFallback     QuoteSource = "stale-fallback"
)

// PriceQuote is a best-effort price for an instrument. When Available is
// false the Price field is meaningless and must be rendered as "N/A", never
// coerced to zero. Quotes are recomputed every valuation cycle and never
// persisted.
type PriceQuote struct {
	Instrument Instrument
	Price      decimal.Decimal
	Available  bool
	Source     QuoteSource
	Timestamp  time.Time
}

// ValuedPosition combines a position snapshot with a quote and the derived
// unrealized P/L. It is rebuilt from its inputs every cycle, never mutated.
type ValuedPosition struct {
	Position     Position
	Quote        PriceQuote
	UnrealizedPL decimal.Decimal
	MarketValue  decimal.Decimal
}

// AccountSnapshot carries account-level figures reported by the platform.
// They are passed through to the portfolio summary unmodified.
type AccountSnapshot struct {
	Equity       decimal.Decimal
	Cash         decimal.Decimal
	BuyingPower  decimal.Decimal
	AccountValue decimal.Decimal
	StartingCash decimal.Decimal
	MarginUsed   decimal.Decimal
	NumTrades    int
	NumWinners   int
	NumLosers    int
	WinPercent   decimal.Decimal
}

// PortfolioSummary aggregates a valuation pass. TotalUnrealizedPL sums only
// positions with available quotes; UnpricedPositions counts the exclusions
// so the aggregate is never silently wrong.
type PortfolioSummary struct {
	TotalUnrealizedPL decimal.Decimal
	TotalMarketValue  decimal.Decimal
	PricedPositions   int
	UnpricedPositions int
	Account           AccountSnapshot
}

// SignalAction is the order side
type SignalAction string

const (
	ActionBuy  SignalAction = "buy"
	ActionSell SignalAction = "sell"
)

// OrderType is the execution type of a signal
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
	OrderStop   OrderType = "stop"
)

// TimeInForce controls how long a working order stays live
type TimeInForce string

const (
	TIFDay TimeInForce = "day"
	TIFGTC TimeInForce = "gtc"
)

// SignalIntent is the operator's raw trade intent before validation.
// Optional prices are nil when not supplied.
type SignalIntent struct {
	Action       SignalAction
	Instrument   Instrument
	Quantity     int64
	OrderType    OrderType
	LimitPrice   *decimal.Decimal
	StopPrice    *decimal.Decimal
	TIF          TimeInForce
	StopLoss     *decimal.Decimal
	ProfitTarget *decimal.Decimal
	// CancelReplaceID retires an existing working order and replaces it with
	// this one. Zero means a fresh order.
	CancelReplaceID int64
	// ParentSignalID makes this a conditional child of an existing signal.
	ParentSignalID int64
}

// Signal is a fully validated trade signal, immutable once built.
type Signal struct {
	Ref             string // client-side reference, assigned at build time
	Action          SignalAction
	Instrument      Instrument
	Quantity        int64
	OrderType       OrderType
	LimitPrice      *decimal.Decimal
	StopPrice       *decimal.Decimal
	TIF             TimeInForce
	StopLoss        *decimal.Decimal
	ProfitTarget    *decimal.Decimal
	CancelReplaceID int64
	ParentSignalID  int64
}

// SignalReceipt is the platform's acknowledgement of a submitted signal.
// Child signal IDs are present when the platform created bracket exit
// orders server-side.
type SignalReceipt struct {
	SignalID             int64
	StopLossSignalID     int64
	ProfitTargetSignalID int64
	OCAGroupID           int64
}

// OrderStatus is the lifecycle state of a working order
type OrderStatus string

const (
	StatusPendingSubmit OrderStatus = "pending-submit"
	StatusWorking       OrderStatus = "working"
	StatusFilled        OrderStatus = "filled"
	StatusCancelled     OrderStatus = "cancelled"
	StatusRejected      OrderStatus = "rejected"
)

// IsTerminal reports whether the status ends the order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled || s == StatusRejected
}

// WorkingOrder is a submitted order as reported by the platform.
type WorkingOrder struct {
	SignalID    int64
	Instrument  Instrument
	Action      SignalAction
	Quantity    int64
	OrderType   OrderType
	LimitPrice  *decimal.Decimal
	StopPrice   *decimal.Decimal
	TIF         TimeInForce
	Status      OrderStatus
	SubmittedAt time.Time
}
