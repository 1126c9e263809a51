// Package quote resolves best-effort prices for positions and instruments.
package quote

import (
	"context"
	"errors"
	"sync"
	"time"

	"c2_console/internal/core"
	"c2_console/pkg/retry"
	"c2_console/pkg/telemetry"

	"github.com/shopspring/decimal"
)

// Oracle prices instruments with a fallback chain. Equities are priced from
// the live source. Options try their own contract ticker first, then fall
// back to intrinsic value derived from the underlying, then to a cached
// price within the stale TTL. When every rung fails the quote is returned
// with Available=false; a price of zero is never fabricated.
type Oracle struct {
	source         core.PriceSource
	logger         core.ILogger
	staleTTL       time.Duration
	fallbackChains bool
	fetchTimeout   time.Duration
	retryPolicy    retry.Policy

	mu    sync.RWMutex
	cache map[string]core.PriceQuote
}

// OracleOptions configures the fallback behavior.
type OracleOptions struct {
	StaleTTL       time.Duration
	FallbackChains bool

	// FetchTimeout bounds each source lookup. Zero means the caller's
	// context is the only deadline.
	FetchTimeout time.Duration
}

// NewOracle creates a price oracle over the given source.
func NewOracle(source core.PriceSource, opts OracleOptions, logger core.ILogger) *Oracle {
	return &Oracle{
		source:         source,
		logger:         logger.WithField("component", "price_oracle"),
		staleTTL:       opts.StaleTTL,
		fallbackChains: opts.FallbackChains,
		fetchTimeout:   opts.FetchTimeout,
		retryPolicy: retry.Policy{
			MaxAttempts:    2,
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     time.Second,
		},
		cache: make(map[string]core.PriceQuote),
	}
}

// Quote prices a single instrument. It never returns an error; failure is
// encoded in the quote itself so one dead ticker cannot abort a portfolio
// valuation.
func (o *Oracle) Quote(ctx context.Context, inst core.Instrument) core.PriceQuote {
	var q core.PriceQuote
	if inst.IsOption() {
		q = o.quoteOption(ctx, inst)
	} else {
		q = o.quoteEquity(ctx, inst)
	}

	if q.Available {
		if q.Source == core.SourceLiveMarket {
			o.remember(q)
		}
	} else {
		telemetry.GetGlobalMetrics().IncQuoteMisses()
		o.logger.Warn("No price available", "instrument", inst.Description())
	}
	return q
}

func (o *Oracle) quoteEquity(ctx context.Context, inst core.Instrument) core.PriceQuote {
	price, ts, err := o.fetch(ctx, inst.Symbol)
	if err == nil {
		return core.PriceQuote{
			Instrument: inst,
			Price:      price,
			Available:  true,
			Source:     core.SourceLiveMarket,
			Timestamp:  ts,
		}
	}

	if stale, ok := o.recall(inst); ok {
		return stale
	}
	return unavailable(inst)
}

func (o *Oracle) quoteOption(ctx context.Context, inst core.Instrument) core.PriceQuote {
	ticker := OptionTicker(inst)
	price, ts, err := o.fetch(ctx, ticker)
	if err == nil {
		return core.PriceQuote{
			Instrument: inst,
			Price:      price,
			Available:  true,
			Source:     core.SourceLiveMarket,
			Timestamp:  ts,
		}
	}

	if o.fallbackChains {
		// Contract quote failed; derive intrinsic value from the underlying.
		// Expired contracts are priced the same way so closed books still
		// show a number.
		underlyingPrice, uts, uerr := o.fetch(ctx, inst.Underlying)
		if uerr == nil {
			telemetry.GetGlobalMetrics().IncQuoteFallbacks()
			o.logger.Debug("Using intrinsic value fallback",
				"instrument", inst.Description(), "underlying_price", underlyingPrice)
			return core.PriceQuote{
				Instrument: inst,
				Price:      IntrinsicValue(inst, underlyingPrice),
				Available:  true,
				Source:     core.SourceComputedIntrinsic,
				Timestamp:  uts,
			}
		}
	}

	if stale, ok := o.recall(inst); ok {
		return stale
	}
	return unavailable(inst)
}

// unavailable is the exhausted-fallback quote: no price, tagged with the
// last rung of the chain.
func unavailable(inst core.Instrument) core.PriceQuote {
	return core.PriceQuote{
		Instrument: inst,
		Source:     core.SourceStaleFallback,
		Timestamp:  time.Now().UTC(),
	}
}

func (o *Oracle) fetch(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	type priced struct {
		price decimal.Decimal
		ts    time.Time
	}

	isTransient := func(err error) bool {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}

	res, err := retry.DoValue(ctx, o.retryPolicy, isTransient, func() (priced, error) {
		fctx := ctx
		if o.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
			defer cancel()
		}
		price, ts, err := o.source.LastPrice(fctx, symbol)
		return priced{price: price, ts: ts}, err
	})
	return res.price, res.ts, err
}

// remember caches a live quote for the stale-fallback rung.
func (o *Oracle) remember(q core.PriceQuote) {
	if o.staleTTL <= 0 {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache[cacheKey(q.Instrument)] = q
}

// recall returns the cached quote if it is still within the stale TTL,
// re-labeled as a stale fallback.
func (o *Oracle) recall(inst core.Instrument) (core.PriceQuote, bool) {
	o.mu.RLock()
	cached, ok := o.cache[cacheKey(inst)]
	o.mu.RUnlock()

	if !ok || time.Since(cached.Timestamp) > o.staleTTL {
		return core.PriceQuote{}, false
	}

	cached.Source = core.SourceStaleFallback
	return cached, true
}

func cacheKey(inst core.Instrument) string {
	if inst.IsOption() {
		return OptionTicker(inst)
	}
	return inst.Symbol
}

// IntrinsicValue computes an option's intrinsic value from the underlying
// price: max(0, U-K) for calls, max(0, K-U) for puts. The result is a
// per-share price; the contract multiplier applies at valuation time.
func IntrinsicValue(inst core.Instrument, underlying decimal.Decimal) decimal.Decimal {
	var intrinsic decimal.Decimal
	if inst.Right == core.RightPut {
		intrinsic = inst.Strike.Sub(underlying)
	} else {
		intrinsic = underlying.Sub(inst.Strike)
	}
	if intrinsic.IsNegative() {
		return decimal.Zero
	}
	return intrinsic
}
