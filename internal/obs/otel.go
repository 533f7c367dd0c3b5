// Package obs sets up OpenTelemetry tracing for the HTTP surface.
package obs

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for spans sqp creates itself.
const TracerName = "github.com/ankushthakur2007/sqp"

// NewTracerProvider builds a provider that batches spans to exporter and
// installs it, with W3C trace context and baggage propagation, as the
// global provider.
func NewTracerProvider(exporter sdktrace.SpanExporter) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	return tp
}

// InitOTLP exports spans over OTLP/HTTP. The endpoint and headers come from
// the standard OTEL_EXPORTER_OTLP_* environment variables. The returned
// func flushes and stops the provider.
func InitOTLP(ctx context.Context) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}
	tp := NewTracerProvider(exporter)
	return tp.Shutdown, nil
}

// Tracer returns the sqp tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
