package quote

import (
	"context"
	"fmt"
	"time"

	"c2_console/internal/core"
	apperrors "c2_console/pkg/errors"

	finance "github.com/piquette/finance-go"
	financequote "github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
)

// YahooSource fetches last-trade prices from Yahoo Finance. It prices both
// equities and options; options use the OCC-style ticker built by
// OptionTicker.
type YahooSource struct {
	logger core.ILogger
}

// NewYahooSource creates a Yahoo Finance price source.
func NewYahooSource(logger core.ILogger) *YahooSource {
	return &YahooSource{
		logger: logger.WithField("component", "yahoo_source"),
	}
}

// LastPrice returns the last traded price for a ticker. The underlying
// client has no context support, so the fetch runs in a goroutine and the
// caller's deadline is honored here.
func (s *YahooSource) LastPrice(ctx context.Context, symbol string) (decimal.Decimal, time.Time, error) {
	type result struct {
		q   *finance.Quote
		err error
	}

	ch := make(chan result, 1)
	go func() {
		q, err := financequote.Get(symbol)
		ch <- result{q: q, err: err}
	}()

	select {
	case <-ctx.Done():
		return decimal.Zero, time.Time{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s: %v", apperrors.ErrQuoteUnavailable, symbol, res.err)
		}
		if res.q == nil || res.q.RegularMarketPrice <= 0 {
			return decimal.Zero, time.Time{}, fmt.Errorf("%w: %s: no market price", apperrors.ErrQuoteUnavailable, symbol)
		}

		ts := time.Unix(int64(res.q.RegularMarketTime), 0).UTC()
		return decimal.NewFromFloat(res.q.RegularMarketPrice), ts, nil
	}
}

// OptionTicker builds the OCC-style option symbol Yahoo uses:
// underlying + YYMMDD + C/P + strike*1000 zero-padded to 8 digits,
// e.g. NBIS 150 call exp 10/17/25 -> NBIS251017C00150000.
func OptionTicker(inst core.Instrument) string {
	letter := "C"
	if inst.Right == core.RightPut {
		letter = "P"
	}
	strikeThousandths := inst.Strike.Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	return fmt.Sprintf("%s%s%s%08d", inst.Underlying, inst.Expiry.Format("060102"), letter, strikeThousandths)
}
