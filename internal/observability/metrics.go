package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the instruments the CLI boundary records: one counter
// for per-file parse failures, the only metric run_full_analysis's
// caller needs to know happened (the pure core never increments it
// itself — traceparse just returns errors, the CLI counts them), plus
// the Prometheus registry it was registered against.
type Metrics struct {
	parseFailures metric.Int64Counter
	registry      *prometheus.Registry
}

// NewMetrics builds a MeterProvider backed by the OpenTelemetry
// Prometheus exporter and the instruments this package exposes. Each
// call gets its own prometheus.Registry rather than the global default
// registerer, so building more than one Metrics in the same process
// (e.g. one per CLI invocation in a test binary) never collides on
// duplicate collector registration.
func NewMetrics() (*Metrics, *sdkmetric.MeterProvider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("observability: build prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("bha")

	parseFailures, err := meter.Int64Counter(
		"bha.parse.failures",
		metric.WithDescription("Number of trace files that failed to parse"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("observability: create parse failure counter: %w", err)
	}

	return &Metrics{parseFailures: parseFailures, registry: registry}, provider, nil
}

// RecordParseFailure increments the parse-failure counter, tagged with
// the failure's error kind (e.g. "truncated", "unsupported").
func (m *Metrics) RecordParseFailure(ctx context.Context, kind string) {
	m.parseFailures.Add(ctx, 1, metric.WithAttributes(attributeKind(kind)))
}

// Handler returns the HTTP handler the CLI can serve /metrics on for
// this Metrics instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func attributeKind(kind string) attribute.KeyValue {
	return attribute.String("kind", kind)
}
