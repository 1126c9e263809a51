package c2

import (
	"testing"
	"time"

	"c2_console/internal/core"
	apperrors "c2_console/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrder_MarketEquityBuy(t *testing.T) {
	sig := core.Signal{
		Ref:        "ref-1",
		Action:     core.ActionBuy,
		Instrument: core.NewEquity("AAPL"),
		Quantity:   1,
		OrderType:  core.OrderMarket,
		TIF:        core.TIFDay,
	}

	order := buildOrder(153075915, sig)

	assert.Equal(t, int64(153075915), order.StrategyID)
	assert.Equal(t, "1", order.OrderType)
	assert.Equal(t, "1", order.Side)
	assert.Equal(t, "0", order.TIF)
	assert.EqualValues(t, 1, order.OrderQuantity)
	assert.Empty(t, order.Limit)
	assert.Empty(t, order.Stop)
	assert.Nil(t, order.StopLoss)

	assert.Equal(t, "AAPL", order.ExchangeSymbol.Symbol)
	assert.Equal(t, "CS", order.ExchangeSymbol.SecurityType)
	assert.Equal(t, "USD", order.ExchangeSymbol.Currency)
	assert.Nil(t, order.ExchangeSymbol.PutOrCall)
}

func TestBuildOrder_OptionBracketLimitSell(t *testing.T) {
	expiry := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)
	inst, err := core.NewOption("TSLA", core.RightCall, decimal.NewFromInt(430), expiry)
	require.NoError(t, err)

	limit := decimal.NewFromFloat(5.5)
	stopLoss := decimal.NewFromFloat(2)
	profitTarget := decimal.NewFromFloat(9)

	sig := core.Signal{
		Action:       core.ActionSell,
		Instrument:   inst,
		Quantity:     2,
		OrderType:    core.OrderLimit,
		LimitPrice:   &limit,
		TIF:          core.TIFGTC,
		StopLoss:     &stopLoss,
		ProfitTarget: &profitTarget,
	}

	order := buildOrder(1, sig)

	assert.Equal(t, "2", order.OrderType)
	assert.Equal(t, "2", order.Side)
	assert.Equal(t, "1", order.TIF)
	assert.Equal(t, "5.5", order.Limit)
	require.NotNil(t, order.StopLoss)
	assert.Equal(t, 2.0, *order.StopLoss)
	require.NotNil(t, order.ProfitTarget)
	assert.Equal(t, 9.0, *order.ProfitTarget)

	sym := order.ExchangeSymbol
	assert.Equal(t, "TSLA", sym.Symbol)
	assert.Equal(t, "OPT", sym.SecurityType)
	assert.Equal(t, "DEFAULT", sym.SecurityExchange)
	assert.Equal(t, "20251024", sym.MaturityMonthYear)
	require.NotNil(t, sym.PutOrCall)
	assert.Equal(t, 1, *sym.PutOrCall)
	assert.Equal(t, 430.0, sym.StrikePrice)
}

func TestBuildOrder_PutEncodesZero(t *testing.T) {
	inst, err := core.NewOption("NBIS", core.RightPut, decimal.NewFromInt(150),
		time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	order := buildOrder(1, core.Signal{
		Action:     core.ActionBuy,
		Instrument: inst,
		Quantity:   1,
		OrderType:  core.OrderMarket,
		TIF:        core.TIFDay,
	})

	// PutOrCall 0 must survive serialization, so it rides as a pointer.
	require.NotNil(t, order.ExchangeSymbol.PutOrCall)
	assert.Equal(t, 0, *order.ExchangeSymbol.PutOrCall)
}

func TestParseC2Expiry(t *testing.T) {
	// Monthly code resolves to the third Friday.
	got, err := parseC2Expiry("Oct25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), got)

	got, err = parseC2Expiry("10/24/25")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC), got)

	_, err = parseC2Expiry("")
	assert.Error(t, err)
	_, err = parseC2Expiry("someday")
	assert.Error(t, err)
}

func TestThirdFriday(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2025, time.October, 17},
		{2025, time.November, 21},
		{2026, time.January, 16},
		{2025, time.August, 15}, // August 1 2025 is itself a Friday
	}
	for _, tc := range cases {
		got := thirdFriday(tc.year, tc.month)
		assert.Equal(t, tc.day, got.Day(), "%v %d", tc.month, tc.year)
		assert.Equal(t, time.Friday, got.Weekday())
	}
}

func TestPositionFromWire_Option(t *testing.T) {
	pos, err := positionFromWire(wirePosition{
		C2Symbol: wireC2Symbol{
			FullSymbol:  "NBIS2517J150",
			SymbolType:  "option",
			Underlying:  "NBIS",
			StrikePrice: 150,
			PutOrCall:   "call",
			Expiry:      "Oct25",
		},
		Quantity:   3,
		AvgPx:      2.61,
		OpenedDate: "2025-09-26T14:30:00Z",
	})
	require.NoError(t, err)

	assert.True(t, pos.Instrument.IsOption())
	assert.Equal(t, "NBIS", pos.Instrument.Underlying)
	assert.Equal(t, core.RightCall, pos.Instrument.Right)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, pos.AvgCost.Equal(decimal.RequireFromString("2.61")))
	assert.Equal(t, 2025, pos.OpenedAt.Year())
	assert.Equal(t, "NBIS 150 call exp 10/17/25", pos.Instrument.Description())
}

func TestPositionFromWire_Stock(t *testing.T) {
	pos, err := positionFromWire(wirePosition{
		C2Symbol: wireC2Symbol{FullSymbol: "AAPL", SymbolType: "stock", Underlying: "AAPL"},
		Quantity: -10,
		AvgPx:    230.00,
	})
	require.NoError(t, err)

	assert.False(t, pos.Instrument.IsOption())
	assert.Equal(t, "AAPL", pos.Instrument.Symbol)
	assert.Equal(t, "Short", pos.Side())
}

func TestWireToStatus(t *testing.T) {
	assert.Equal(t, core.StatusFilled, wireToStatus("Filled"))
	assert.Equal(t, core.StatusFilled, wireToStatus("2"))
	assert.Equal(t, core.StatusCancelled, wireToStatus("canceled"))
	assert.Equal(t, core.StatusCancelled, wireToStatus("expired"))
	assert.Equal(t, core.StatusRejected, wireToStatus("rejected"))
	assert.Equal(t, core.StatusWorking, wireToStatus(""))
	assert.Equal(t, core.StatusWorking, wireToStatus("Working"))
}

func TestWorkingOrderFromWire_Prices(t *testing.T) {
	order, err := workingOrderFromWire(wireWorkingOrder{
		SignalID: 99,
		C2Symbol: wireC2Symbol{FullSymbol: "ARM", SymbolType: "stock", Underlying: "ARM"},
		OrderType: "2", Side: "2", OrderQuantity: 5,
		Limit: "190.00", TIF: "1",
		OrderStatus: "Working",
		PostedDate:  "2025-10-01T09:31:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, core.OrderLimit, order.OrderType)
	assert.Equal(t, core.ActionSell, order.Action)
	assert.Equal(t, core.TIFGTC, order.TIF)
	require.NotNil(t, order.LimitPrice)
	assert.True(t, order.LimitPrice.Equal(decimal.NewFromInt(190)))
	assert.Nil(t, order.StopPrice)
}

func TestInstrumentFromC2Symbol_Malformed(t *testing.T) {
	// An empty symbol and an unparseable expiry both reject the position
	// as an invalid instrument; callers skip it rather than valuing junk.
	_, err := instrumentFromC2Symbol(wireC2Symbol{SymbolType: "stock"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInstrument)

	_, err = instrumentFromC2Symbol(wireC2Symbol{
		SymbolType:  "option",
		FullSymbol:  "NBIS2517J150",
		Underlying:  "NBIS",
		StrikePrice: 150,
		PutOrCall:   "call",
		Expiry:      "not-a-date",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInstrument)
}
