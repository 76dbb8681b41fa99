package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	TokensUsed      metric.Int64Counter
	ChunksIndexed   metric.Int64Counter
	SearchDuration  metric.Float64Histogram
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("phishing-paper-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	chunksIndexed, err := meter.Int64Counter(
		"rag.chunks.indexed",
		metric.WithDescription("Total chunks written to the vector index"),
	)
	if err != nil {
		return nil, err
	}

	searchDuration, err := meter.Float64Histogram(
		"rag.search.duration",
		metric.WithDescription("Vector search duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		TokensUsed:      tokensUsed,
		ChunksIndexed:   chunksIndexed,
		SearchDuration:  searchDuration,
	}, nil
}

// RecordRequest records a completed HTTP request
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	m.RequestCounter.Add(context.Background(), 1, attrs)
	m.RequestDuration.Record(context.Background(), duration, attrs)
}

// RecordTokensUsed adds the token cost of one completion call
func (m *Metrics) RecordTokensUsed(model string, tokens int) {
	if m == nil || tokens <= 0 {
		return
	}
	m.TokensUsed.Add(context.Background(), int64(tokens),
		metric.WithAttributes(attribute.String("model", model)))
}

// RecordChunksIndexed adds chunks written to the vector index by one run
func (m *Metrics) RecordChunksIndexed(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ChunksIndexed.Add(context.Background(), int64(count))
}

// RecordSearchDuration records one vector search
func (m *Metrics) RecordSearchDuration(duration float64) {
	if m == nil {
		return
	}
	m.SearchDuration.Record(context.Background(), duration)
}
