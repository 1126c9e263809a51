package cli

import (
	"testing"
	"time"

	"c2_console/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseExpiry_Formats(t *testing.T) {
	want := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

	for _, raw := range []string{
		"10/24/25",
		"10/24/2025",
		"2025-10-24",
		"Oct 24 2025",
		"Oct 24 2025 ",
		"20251024",
	} {
		got, err := ParseExpiry(raw)
		assert.NoError(t, err, raw)
		assert.True(t, got.Equal(want), "input %q parsed to %v", raw, got)
	}
}

func TestParseExpiry_Invalid(t *testing.T) {
	for _, raw := range []string{"", "next friday", "24/10/2025", "10-24-25"} {
		_, err := ParseExpiry(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseSymbol(t *testing.T) {
	sym, err := ParseSymbol(" nbis ")
	assert.NoError(t, err)
	assert.Equal(t, "NBIS", sym)

	sym, err = ParseSymbol("BRK.B")
	assert.NoError(t, err)
	assert.Equal(t, "BRK.B", sym)

	for _, raw := range []string{"", "123", "A;DROP", "toolongsymbolname"} {
		_, err := ParseSymbol(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseQuantity(t *testing.T) {
	qty, err := ParseQuantity("15")
	assert.NoError(t, err)
	assert.EqualValues(t, 15, qty)

	for _, raw := range []string{"0", "-3", "1.5", "ten"} {
		_, err := ParseQuantity(raw)
		assert.Error(t, err, raw)
	}
}

func TestParsePrice(t *testing.T) {
	price, err := ParsePrice("$233.50")
	assert.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("233.50")))

	for _, raw := range []string{"0", "-1.25", "abc", ""} {
		_, err := ParsePrice(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseRightAndAction(t *testing.T) {
	right, err := ParseRight("C")
	assert.NoError(t, err)
	assert.Equal(t, core.RightCall, right)

	right, err = ParseRight("put")
	assert.NoError(t, err)
	assert.Equal(t, core.RightPut, right)

	_, err = ParseRight("straddle")
	assert.Error(t, err)

	action, err := ParseAction("BTO")
	assert.NoError(t, err)
	assert.Equal(t, core.ActionBuy, action)

	action, err = ParseAction("stc")
	assert.NoError(t, err)
	assert.Equal(t, core.ActionSell, action)

	_, err = ParseAction("hold")
	assert.Error(t, err)
}
