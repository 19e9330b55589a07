package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider builds a TracerProvider tagged with serviceName and
// installs it as the global provider, mirroring the teacher's
// observability.buildTracerProvider without the OTLP exporter (this
// repo has no collector endpoint to ship spans to; the provider still
// lets run_full_analysis be wrapped in a real span for local log
// correlation via TracingHandler).
func NewTracerProvider(serviceName string) (*sdktrace.TracerProvider, error) {
	res, err := sdkresource.New(context.Background(),
		sdkresource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetTracerProvider(tp)

	return tp, nil
}

// RunTraced wraps fn in a single span named spanName under tracerName,
// recording any returned error on the span. This is the one place the
// core analysis pipeline is wrapped in tracing — run_full_analysis
// itself stays pure and untraced.
func RunTraced(ctx context.Context, tracerName, spanName string, fn func(context.Context) error) error {
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}
