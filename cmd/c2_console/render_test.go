package main

import (
	"strings"
	"testing"

	"c2_console/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney_Negative(t *testing.T) {
	assert.Equal(t, "-$21.42", formatMoney(decimal.RequireFromString("-21.42")))
	assert.Equal(t, "$0.00", formatMoney(decimal.Zero))
}

func TestFormatQuote_UnavailableNeverZero(t *testing.T) {
	got := formatQuote(core.PriceQuote{Available: false})
	assert.Equal(t, "N/A", got)
}

func TestFormatQuote_SourceMarkers(t *testing.T) {
	price := decimal.RequireFromString("0.05")

	live := formatQuote(core.PriceQuote{Price: price, Available: true, Source: core.SourceLiveMarket})
	intrinsic := formatQuote(core.PriceQuote{Price: price, Available: true, Source: core.SourceComputedIntrinsic})
	stale := formatQuote(core.PriceQuote{Price: price, Available: true, Source: core.SourceStaleFallback})

	assert.Equal(t, "$0.05", live)
	assert.Equal(t, "$0.05*", intrinsic)
	assert.Equal(t, "$0.05~", stale)
}

func TestRenderPositions_UnpricedRow(t *testing.T) {
	valued := []core.ValuedPosition{
		{
			Position: core.Position{
				Instrument: core.NewEquity("GHOST"),
				Quantity:   decimal.NewFromInt(1),
				AvgCost:    decimal.NewFromInt(50),
			},
			Quote: core.PriceQuote{Available: false},
		},
	}
	summary := &core.PortfolioSummary{
		TotalUnrealizedPL: decimal.RequireFromString("12.34"),
		TotalMarketValue:  decimal.RequireFromString("56.78"),
		UnpricedPositions: 1,
		Account: core.AccountSnapshot{
			Equity:       decimal.RequireFromString("1.01"),
			Cash:         decimal.RequireFromString("2.02"),
			BuyingPower:  decimal.RequireFromString("3.03"),
			AccountValue: decimal.RequireFromString("4.04"),
		},
	}

	var sb strings.Builder
	renderPositions(&sb, valued, summary)
	out := sb.String()

	assert.Contains(t, out, "GHOST")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "1 unpriced, excluded from totals")
	// An unpriced row never renders as a zero dollar figure.
	assert.NotContains(t, out, "$0.00")
}
