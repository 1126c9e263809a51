// Package valuation computes unrealized P/L and portfolio aggregates.
package valuation

import (
	"context"
	"time"

	"c2_console/internal/core"
	"c2_console/pkg/concurrency"
	"c2_console/pkg/telemetry"
)

// Valuator prices a position snapshot via the oracle and derives unrealized
// P/L. Quotes fan out across the worker pool; output order matches input
// order so the monitor display stays stable across refresh cycles.
type Valuator struct {
	oracle core.IPriceOracle
	pool   *concurrency.WorkerPool
	logger core.ILogger
}

// NewValuator creates a position valuator.
func NewValuator(oracle core.IPriceOracle, pool *concurrency.WorkerPool, logger core.ILogger) *Valuator {
	return &Valuator{
		oracle: oracle,
		pool:   pool,
		logger: logger.WithField("component", "valuator"),
	}
}

// Valuate quotes every position and computes per-position and aggregate
// figures. Unrealized P/L is (price - cost basis) * signed quantity, in
// per-unit terms; the contract multiplier applies to market value only,
// matching how the platform reports option P/L. Positions without a quote
// keep a zero P/L field but are flagged unavailable, excluded from the
// totals and counted in UnpricedPositions.
func (v *Valuator) Valuate(ctx context.Context, positions []core.Position, account *core.AccountSnapshot) ([]core.ValuedPosition, *core.PortfolioSummary, error) {
	start := time.Now()

	valued := make([]core.ValuedPosition, len(positions))

	group := v.pool.Group()
	for i, pos := range positions {
		i, pos := i, pos
		group.Submit(func() {
			quote := v.oracle.Quote(ctx, pos.Instrument)
			valued[i] = value(pos, quote)
		})
	}
	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	summary := &core.PortfolioSummary{}
	for _, vp := range valued {
		if !vp.Quote.Available {
			summary.UnpricedPositions++
			continue
		}
		summary.PricedPositions++
		summary.TotalUnrealizedPL = summary.TotalUnrealizedPL.Add(vp.UnrealizedPL)
		summary.TotalMarketValue = summary.TotalMarketValue.Add(vp.MarketValue)
	}
	if account != nil {
		summary.Account = *account
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	telemetry.GetGlobalMetrics().ObserveValuationDuration(elapsed)
	v.logger.Debug("Valuation pass complete",
		"positions", len(positions),
		"priced", summary.PricedPositions,
		"unpriced", summary.UnpricedPositions,
		"duration_ms", elapsed)

	return valued, summary, nil
}

// value derives a single ValuedPosition from its inputs.
func value(pos core.Position, quote core.PriceQuote) core.ValuedPosition {
	vp := core.ValuedPosition{Position: pos, Quote: quote}
	if !quote.Available {
		return vp
	}

	vp.UnrealizedPL = quote.Price.Sub(pos.AvgCost).Mul(pos.Quantity)
	vp.MarketValue = pos.Quantity.Abs().Mul(quote.Price).Mul(pos.Instrument.Multiplier())
	return vp
}

var _ core.IPositionValuator = (*Valuator)(nil)
