package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
)

func TestTelemetrySetup(t *testing.T) {
	tel, err := Setup("test-service")
	if err != nil {
		t.Fatalf("Failed to setup telemetry: %v", err)
	}

	if otel.GetTracerProvider() == nil {
		t.Error("Tracer provider not set")
	}
	if otel.GetMeterProvider() == nil {
		t.Error("Meter provider not set")
	}

	tracer := GetTracer("test-tracer")
	if tracer == nil {
		t.Error("Failed to get tracer")
	}

	meter := GetMeter("test-meter")
	if meter == nil {
		t.Error("Failed to get meter")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestMetricsHolderGauges(t *testing.T) {
	holder := GetGlobalMetrics()
	holder.SetUnrealizedPnL("153075915", -21.42)
	holder.SetWorkingOrders("153075915", 3)

	holder.mu.RLock()
	defer holder.mu.RUnlock()
	if holder.unrealizedPnLMap["153075915"] != -21.42 {
		t.Errorf("unexpected gauge value: %v", holder.unrealizedPnLMap["153075915"])
	}
	if holder.workingOrdersMap["153075915"] != 3 {
		t.Errorf("unexpected working order count: %v", holder.workingOrdersMap["153075915"])
	}
}
