// Package cli provides parsing and validation of operator-entered trade inputs.
package cli

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"c2_console/internal/core"

	"github.com/shopspring/decimal"
)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,11}$`)

// expiryLayouts are tried in order. Two-digit years resolve via Go's
// time package convention (69 pivot), which matches listed option expiries.
var expiryLayouts = []string{
	"01/02/06",
	"01/02/2006",
	"2006-01-02",
	"Jan 2 2006",
	"Jan 02 2006",
	"20060102",
}

// ParseSymbol normalizes and validates a ticker symbol.
func ParseSymbol(raw string) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return "", errors.New("symbol is required")
	}
	if !symbolPattern.MatchString(sym) {
		return "", fmt.Errorf("invalid symbol %q", raw)
	}
	return sym, nil
}

// ParseQuantity parses a strictly positive whole-unit quantity.
func ParseQuantity(raw string) (int64, error) {
	qty, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", raw, err)
	}
	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d", qty)
	}
	return qty, nil
}

// ParsePrice parses a strictly positive price. A leading "$" is accepted.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("price must be positive, got %s", price)
	}
	return price, nil
}

// ParseExpiry parses an option expiration date in any of the accepted
// formats (10/24/25, 10/24/2025, 2025-10-24, Oct 24 2025, 20251024).
// The result is normalized to UTC midnight.
func ParseExpiry(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, errors.New("expiration date is required")
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized expiration date %q (want MM/DD/YY, YYYY-MM-DD or 'Oct 24 2025')", raw)
}

// ParseRight parses an option right ("call", "put", "c", "p").
func ParseRight(raw string) (core.OptionRight, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "call", "c":
		return core.RightCall, nil
	case "put", "p":
		return core.RightPut, nil
	default:
		return "", fmt.Errorf("invalid option right %q (want call or put)", raw)
	}
}

// ParseAction parses an order side. The BTO/STC aliases common in option
// entry map onto plain buy/sell.
func ParseAction(raw string) (core.SignalAction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "buy", "bto", "btc":
		return core.ActionBuy, nil
	case "sell", "stc", "sto":
		return core.ActionSell, nil
	default:
		return "", fmt.Errorf("invalid action %q (want buy or sell)", raw)
	}
}
