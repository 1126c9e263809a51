package c2

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"c2_console/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (l *nopLogger) Debug(msg string, fields ...interface{})               {}
func (l *nopLogger) Info(msg string, fields ...interface{})                {}
func (l *nopLogger) Warn(msg string, fields ...interface{})                {}
func (l *nopLogger) Error(msg string, fields ...interface{})               {}
func (l *nopLogger) Fatal(msg string, fields ...interface{})               {}
func (l *nopLogger) WithField(k string, v interface{}) core.ILogger        { return l }
func (l *nopLogger) WithFields(fields map[string]interface{}) core.ILogger { return l }

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	gw := NewGateway(server.URL, "test-key", 153075915, 5*time.Second, &nopLogger{})
	return gw, server
}

func TestSubmitSignal(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]json.RawMessage

	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"Results": []map[string]interface{}{{
				"SignalId":              78494555,
				"StopLossSignalId":      78494556,
				"ProfitTargetSignalId":  78494557,
				"ExitSignalsOCAGroupId": 900123,
			}},
		})
	}))

	stopLoss := decimal.NewFromInt(400)
	profitTarget := decimal.NewFromInt(460)
	receipt, err := gw.SubmitSignal(context.Background(), core.Signal{
		Ref:          "ref-42",
		Action:       core.ActionBuy,
		Instrument:   core.NewEquity("TSLA"),
		Quantity:     10,
		OrderType:    core.OrderMarket,
		TIF:          core.TIFDay,
		StopLoss:     &stopLoss,
		ProfitTarget: &profitTarget,
	})
	require.NoError(t, err)

	assert.Equal(t, "/Strategies/NewStrategyOrder", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)

	// The order must ride inside an "Order" wrapper object.
	var order wireOrder
	require.Contains(t, gotBody, "Order")
	require.NoError(t, json.Unmarshal(gotBody["Order"], &order))
	assert.Equal(t, int64(153075915), order.StrategyID)
	assert.Equal(t, "1", order.Side)

	assert.Equal(t, int64(78494555), receipt.SignalID)
	assert.Equal(t, int64(78494556), receipt.StopLossSignalID)
	assert.Equal(t, int64(78494557), receipt.ProfitTargetSignalID)
	assert.Equal(t, int64(900123), receipt.OCAGroupID)
}

func TestSubmitSignal_PlatformRejection(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"ResponseStatus":{"Message":"Insufficient buying power"}}`))
	}))

	_, err := gw.SubmitSignal(context.Background(), core.Signal{
		Action:     core.ActionBuy,
		Instrument: core.NewEquity("AAPL"),
		Quantity:   1,
		OrderType:  core.OrderMarket,
		TIF:        core.TIFDay,
	})
	require.Error(t, err)
	// The platform's rejection reason must survive verbatim.
	assert.Contains(t, err.Error(), "Insufficient buying power")
}

func TestCancelSignal(t *testing.T) {
	var gotBody cancelRequest
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Strategies/CancelSignal", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"Results":[]}`))
	}))

	require.NoError(t, gw.CancelSignal(context.Background(), 78494555))
	assert.Equal(t, int64(153075915), gotBody.StrategyID)
	assert.Equal(t, int64(78494555), gotBody.SignalID)
}

func TestGetOpenPositions(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Strategies/GetStrategyOpenPositions", r.URL.Path)
		assert.Equal(t, "153075915", r.URL.Query().Get("StrategyIds"))
		assert.Equal(t, "OPT", r.URL.Query().Get("SecurityType"))

		// Lowercase "results" key, as some endpoints return it.
		_, _ = w.Write([]byte(`{"results":[
			{"C2Symbol":{"FullSymbol":"NBIS2517J150","SymbolType":"option","Underlying":"NBIS","StrikePrice":150,"PutOrCall":"call","Expiry":"Oct25"},"Quantity":3,"AvgPx":2.61,"OpenedDate":"2025-09-26T14:30:00Z"},
			{"C2Symbol":{"FullSymbol":"","SymbolType":"stock"},"Quantity":5,"AvgPx":10}
		]}`))
	}))

	positions, err := gw.GetOpenPositions(context.Background(), "OPT")
	require.NoError(t, err)

	// The malformed second entry is skipped, not fatal.
	require.Len(t, positions, 1)
	assert.Equal(t, "NBIS", positions[0].Instrument.Underlying)
	assert.True(t, positions[0].Quantity.Equal(decimal.NewFromInt(3)))
}

func TestGetAccountSnapshot(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Strategies/GetStrategyDetails", r.URL.Path)
		assert.Equal(t, "153075915", r.URL.Query().Get("StrategyId"))
		_, _ = w.Write([]byte(`{"Results":[{
			"Equity": 1493.70, "Cash": 48236.70, "BuyingPower": 96473.40,
			"ModelAccountValue": 49730.40, "StartingCash": 50000,
			"MarginUsed": 0, "NumTrades": 12, "NumWinners": 7,
			"NumLosers": 5, "PercentWinTrades": 58.3
		}]}`))
	}))

	snap, err := gw.GetAccountSnapshot(context.Background())
	require.NoError(t, err)

	assert.True(t, snap.AccountValue.Equal(decimal.RequireFromString("49730.4")))
	assert.True(t, snap.StartingCash.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 12, snap.NumTrades)
	assert.Equal(t, 7, snap.NumWinners)
}

func TestGetWorkingOrders(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Strategies/GetStrategyWorkingOrders", r.URL.Path)
		_, _ = w.Write([]byte(`{"Results":[{
			"SignalId": 78494555,
			"C2Symbol": {"FullSymbol":"ARM","SymbolType":"stock","Underlying":"ARM"},
			"OrderType":"2","Side":"2","OrderQuantity":5,
			"Limit":"190.00","TIF":"1","OrderStatus":"Working",
			"PostedDate":"2025-10-01T09:31:00Z"
		}]}`))
	}))

	orders, err := gw.GetWorkingOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, int64(78494555), orders[0].SignalID)
	assert.Equal(t, core.StatusWorking, orders[0].Status)
	assert.Equal(t, core.OrderLimit, orders[0].OrderType)
}

func TestGetManagedStrategies(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/General/GetManagerPlanSubscriptions", r.URL.Path)
		assert.Equal(t, "777", r.URL.Query().Get("PersonId"))
		_, _ = w.Write([]byte(`{"Results":[{"StrategyId":153075915,"StrategyName":"ProfitSetup Swinger"}]}`))
	}))

	strategies, err := gw.GetManagedStrategies(context.Background(), 777)
	require.NoError(t, err)
	require.Len(t, strategies, 1)
	assert.Equal(t, "ProfitSetup Swinger", strategies[0].StrategyName)
}
