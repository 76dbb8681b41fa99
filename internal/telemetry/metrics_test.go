package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordMethodsExportData(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer otel.SetMeterProvider(prev)

	metrics, err := InitMetrics()
	if err != nil {
		t.Fatalf("init metrics: %v", err)
	}

	metrics.RecordRequest("POST", "/chat", "200", 0.05)
	metrics.RecordTokensUsed("gemini-1.5-flash", 42)
	metrics.RecordChunksIndexed(7)
	metrics.RecordSearchDuration(0.002)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	got := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			got[m.Name] = m
		}
	}

	for _, name := range []string{
		"http.requests.total",
		"http.request.duration",
		"gemini.tokens.used",
		"rag.chunks.indexed",
		"rag.search.duration",
	} {
		if _, ok := got[name]; !ok {
			t.Errorf("metric %q was not exported", name)
		}
	}

	tokens, ok := got["gemini.tokens.used"].Data.(metricdata.Sum[int64])
	if !ok || len(tokens.DataPoints) == 0 {
		t.Fatalf("unexpected token metric shape: %+v", got["gemini.tokens.used"].Data)
	}
	if tokens.DataPoints[0].Value != 42 {
		t.Fatalf("expected 42 tokens recorded, got %d", tokens.DataPoints[0].Value)
	}
}

func TestRecordMethodsIgnoreNoise(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	defer otel.SetMeterProvider(prev)

	metrics, err := InitMetrics()
	if err != nil {
		t.Fatalf("init metrics: %v", err)
	}

	metrics.RecordTokensUsed("gemini-1.5-flash", 0)
	metrics.RecordChunksIndexed(-1)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "gemini.tokens.used" || m.Name == "rag.chunks.indexed" {
				if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) > 0 {
					t.Fatalf("zero or negative values must not be recorded: %+v", m)
				}
			}
		}
	}
}

func TestRecordMethodsNilReceiver(t *testing.T) {
	var metrics *Metrics
	metrics.RecordRequest("GET", "/health", "200", 0.001)
	metrics.RecordTokensUsed("gemini-1.5-flash", 10)
	metrics.RecordChunksIndexed(3)
	metrics.RecordSearchDuration(0.004)
}
