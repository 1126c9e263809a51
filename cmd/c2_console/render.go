package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"c2_console/internal/core"
	"c2_console/internal/orders"

	"github.com/shopspring/decimal"
)

// formatMoney renders a dollar amount with two decimals and a leading sign
// for negatives, e.g. "$1234.56" / "-$21.42".
func formatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// formatQuote renders a price cell. Unavailable prices render as "N/A",
// never as a zero dollar figure. Derived prices carry a marker so the
// operator can tell them from live trades: "*" for intrinsic value computed
// from the underlying, "~" for a stale cached price.
func formatQuote(q core.PriceQuote) string {
	if !q.Available {
		return "N/A"
	}
	switch q.Source {
	case core.SourceComputedIntrinsic:
		return "$" + q.Price.StringFixed(2) + "*"
	case core.SourceStaleFallback:
		return "$" + q.Price.StringFixed(2) + "~"
	default:
		return "$" + q.Price.StringFixed(2)
	}
}

func renderPositions(w io.Writer, valued []core.ValuedPosition, summary *core.PortfolioSummary) {
	if len(valued) == 0 {
		fmt.Fprintln(w, "No open positions.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INSTRUMENT\tSIDE\tQTY\tAVG COST\tLAST\tMKT VALUE\tUNREAL P/L")
		for _, v := range valued {
			pl := "N/A"
			mv := "N/A"
			if v.Quote.Available {
				pl = formatMoney(v.UnrealizedPL)
				mv = formatMoney(v.MarketValue)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				v.Position.Instrument.Description(),
				v.Position.Side(),
				v.Position.Quantity.String(),
				formatMoney(v.Position.AvgCost),
				formatQuote(v.Quote),
				mv,
				pl,
			)
		}
		tw.Flush()
	}

	fmt.Fprintf(w, "\nPositions priced: %d", summary.PricedPositions)
	if summary.UnpricedPositions > 0 {
		fmt.Fprintf(w, " (%d unpriced, excluded from totals)", summary.UnpricedPositions)
	}
	fmt.Fprintf(w, "\nTotal market value: %s\n", formatMoney(summary.TotalMarketValue))
	fmt.Fprintf(w, "Total unrealized P/L: %s\n", formatMoney(summary.TotalUnrealizedPL))

	a := summary.Account
	fmt.Fprintf(w, "\nAccount: equity %s, cash %s, buying power %s, model value %s\n",
		formatMoney(a.Equity), formatMoney(a.Cash), formatMoney(a.BuyingPower), formatMoney(a.AccountValue))
	if a.NumTrades > 0 {
		fmt.Fprintf(w, "Record: %d trades, %d winners, %d losers (%s%% win rate)\n",
			a.NumTrades, a.NumWinners, a.NumLosers, a.WinPercent.StringFixed(1))
	}
}

func renderOrders(w io.Writer, working []core.WorkingOrder) {
	if len(working) == 0 {
		fmt.Fprintln(w, "No working orders.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNAL ID\tINSTRUMENT\tACTION\tQTY\tTYPE\tLIMIT\tSTOP\tTIF\tSUBMITTED")
	for _, o := range working {
		limit, stop := "-", "-"
		if o.LimitPrice != nil {
			limit = formatMoney(*o.LimitPrice)
		}
		if o.StopPrice != nil {
			stop = formatMoney(*o.StopPrice)
		}
		submitted := "-"
		if !o.SubmittedAt.IsZero() {
			submitted = o.SubmittedAt.Format("01/02/06 15:04")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			o.SignalID, o.Instrument.Description(), o.Action, o.Quantity,
			o.OrderType, limit, stop, o.TIF, submitted)
	}
	tw.Flush()
}

func renderSubmitResult(w io.Writer, result *orders.SubmitResult) {
	fmt.Fprintf(w, "Signal accepted: %d\n", result.Receipt.SignalID)
	if result.Receipt.StopLossSignalID != 0 {
		fmt.Fprintf(w, "  stop-loss signal: %d\n", result.Receipt.StopLossSignalID)
	}
	if result.Receipt.ProfitTargetSignalID != 0 {
		fmt.Fprintf(w, "  profit-target signal: %d\n", result.Receipt.ProfitTargetSignalID)
	}
	if result.Receipt.OCAGroupID != 0 {
		fmt.Fprintf(w, "  OCA group: %d\n", result.Receipt.OCAGroupID)
	}
	for _, child := range result.Children {
		fmt.Fprintf(w, "  exit signal: %d\n", child.SignalID)
	}
}

func renderCycleHeader(w io.Writer, strategyID int64, at time.Time) {
	fmt.Fprintf(w, "\n=== Strategy %d @ %s ===\n", strategyID, at.Format("15:04:05"))
}
