// Package observability wires the CLI boundary's structured logging,
// tracing and metrics. The core packages (pkg/trace, pkg/aggregate,
// pkg/depgraph, pkg/suggest) stay pure and never log; only cmd/bha and
// this package touch slog, OpenTelemetry or Prometheus.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const attrComponent = "component"

// TracingHandler is an slog.Handler that injects the active span's
// trace_id/span_id into every log record, modeled on the teacher's
// observability.TracingHandler.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner, pre-attaching a component attribute so
// it survives any later WithGroup call.
func NewTracingHandler(inner slog.Handler, component string) *TracingHandler {
	return &TracingHandler{inner: inner.WithAttrs([]slog.Attr{slog.String(attrComponent, component)})}
}

// Enabled delegates to the inner handler.
func (h *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds trace context attributes from the span in ctx, then
// delegates to the inner handler.
func (h *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("tracing handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new TracingHandler with additional attributes on
// the inner handler.
func (h *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new TracingHandler with a group prefix on the
// inner handler.
func (h *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: h.inner.WithGroup(name)}
}

// NewLogger builds a slog.Logger writing to stderr at level, in either
// "json" or "text" format, wrapped with a TracingHandler labeled
// component.
func NewLogger(level, format, component string) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: parseLevel(level)}

	var inner slog.Handler
	if format == "text" {
		inner = slog.NewTextHandler(os.Stderr, handlerOpts)
	} else {
		inner = slog.NewJSONHandler(os.Stderr, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, component))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
