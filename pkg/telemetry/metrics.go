package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names
const (
	MetricSignalsSubmittedTotal = "c2_console_signals_submitted_total"
	MetricSignalsRejectedTotal  = "c2_console_signals_rejected_total"
	MetricCancelsTotal          = "c2_console_cancels_total"
	MetricQuoteFallbacksTotal   = "c2_console_quote_fallbacks_total"
	MetricQuoteMissesTotal      = "c2_console_quote_misses_total"
	MetricValuationDuration     = "c2_console_valuation_duration_ms"
	MetricPnLUnrealized         = "c2_console_pnl_unrealized"
	MetricOrdersWorking         = "c2_console_orders_working"
)

// MetricsHolder holds initialized instruments
type MetricsHolder struct {
	SignalsSubmittedTotal metric.Int64Counter
	SignalsRejectedTotal  metric.Int64Counter
	CancelsTotal          metric.Int64Counter
	QuoteFallbacksTotal   metric.Int64Counter
	QuoteMissesTotal      metric.Int64Counter
	ValuationDuration     metric.Float64Histogram
	PnLUnrealized         metric.Float64ObservableGauge
	OrdersWorking         metric.Int64ObservableGauge

	// State for observable gauges, keyed by strategy ID
	mu               sync.RWMutex
	unrealizedPnLMap map[string]float64
	workingOrdersMap map[string]int64
}

var (
	globalMetrics *MetricsHolder
	initOnce      sync.Once
)

// GetGlobalMetrics returns the singleton metrics holder
func GetGlobalMetrics() *MetricsHolder {
	initOnce.Do(func() {
		globalMetrics = &MetricsHolder{
			unrealizedPnLMap: make(map[string]float64),
			workingOrdersMap: make(map[string]int64),
		}
	})
	return globalMetrics
}

// InitMetrics initializes instruments using the meter
func (m *MetricsHolder) InitMetrics(meter metric.Meter) error {
	var err error

	m.SignalsSubmittedTotal, err = meter.Int64Counter(MetricSignalsSubmittedTotal,
		metric.WithDescription("Total trade signals submitted"))
	if err != nil {
		return err
	}

	m.SignalsRejectedTotal, err = meter.Int64Counter(MetricSignalsRejectedTotal,
		metric.WithDescription("Total trade signals rejected by the platform"))
	if err != nil {
		return err
	}

	m.CancelsTotal, err = meter.Int64Counter(MetricCancelsTotal,
		metric.WithDescription("Total cancel requests sent"))
	if err != nil {
		return err
	}

	m.QuoteFallbacksTotal, err = meter.Int64Counter(MetricQuoteFallbacksTotal,
		metric.WithDescription("Quotes answered from the intrinsic-value fallback"))
	if err != nil {
		return err
	}

	m.QuoteMissesTotal, err = meter.Int64Counter(MetricQuoteMissesTotal,
		metric.WithDescription("Quotes that could not be resolved at all"))
	if err != nil {
		return err
	}

	m.ValuationDuration, err = meter.Float64Histogram(MetricValuationDuration,
		metric.WithDescription("Duration of a full valuation pass"), metric.WithUnit("ms"))
	if err != nil {
		return err
	}

	m.PnLUnrealized, err = meter.Float64ObservableGauge(MetricPnLUnrealized,
		metric.WithDescription("Current total unrealized P/L"),
		metric.WithFloat64Callback(func(ctx context.Context, obs metric.Float64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			for strategy, val := range m.unrealizedPnLMap {
				obs.Observe(val, metric.WithAttributes(attribute.String("strategy", strategy)))
			}
			return nil
		}))
	if err != nil {
		return err
	}

	m.OrdersWorking, err = meter.Int64ObservableGauge(MetricOrdersWorking,
		metric.WithDescription("Number of currently working orders"),
		metric.WithInt64Callback(func(ctx context.Context, obs metric.Int64Observer) error {
			m.mu.RLock()
			defer m.mu.RUnlock()
			for strategy, val := range m.workingOrdersMap {
				obs.Observe(val, metric.WithAttributes(attribute.String("strategy", strategy)))
			}
			return nil
		}))
	return err
}

// Increment helpers guard against use before InitMetrics so callers never
// have to nil-check instruments.

func (m *MetricsHolder) IncSignalsSubmitted() {
	if m.SignalsSubmittedTotal != nil {
		m.SignalsSubmittedTotal.Add(context.Background(), 1)
	}
}

func (m *MetricsHolder) IncSignalsRejected() {
	if m.SignalsRejectedTotal != nil {
		m.SignalsRejectedTotal.Add(context.Background(), 1)
	}
}

func (m *MetricsHolder) IncCancels() {
	if m.CancelsTotal != nil {
		m.CancelsTotal.Add(context.Background(), 1)
	}
}

func (m *MetricsHolder) IncQuoteFallbacks() {
	if m.QuoteFallbacksTotal != nil {
		m.QuoteFallbacksTotal.Add(context.Background(), 1)
	}
}

func (m *MetricsHolder) IncQuoteMisses() {
	if m.QuoteMissesTotal != nil {
		m.QuoteMissesTotal.Add(context.Background(), 1)
	}
}

func (m *MetricsHolder) ObserveValuationDuration(ms float64) {
	if m.ValuationDuration != nil {
		m.ValuationDuration.Record(context.Background(), ms)
	}
}

// SetUnrealizedPnL records the latest total unrealized P/L for a strategy.
func (m *MetricsHolder) SetUnrealizedPnL(strategy string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unrealizedPnLMap[strategy] = value
}

// SetWorkingOrders records the current working-order count for a strategy.
func (m *MetricsHolder) SetWorkingOrders(strategy string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workingOrdersMap[strategy] = count
}
