// Package telemetry exports traces of games with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type (
	// Config contains the settings to export traces.
	Config struct {
		// Endpoint is the url of the OTLP/HTTP collector.  Tracing is disabled if it is empty.
		Endpoint string
		// ServiceName identifies the traces of the server.
		ServiceName string
	}

	// Telemetry creates spans and flushes them when shut down.
	Telemetry struct {
		// Tracer starts spans.
		Tracer trace.Tracer
		// Shutdown exports pending spans and stops the exporter.
		Shutdown func(ctx context.Context) error
	}
)

// Setup creates the tracer for the service.  The tracer does nothing if no endpoint is configured.
func (cfg Config) Setup(ctx context.Context) (*Telemetry, error) {
	if len(cfg.ServiceName) == 0 {
		return nil, fmt.Errorf("setting up telemetry: service name required")
	}
	if len(cfg.Endpoint) == 0 {
		t := Telemetry{
			Tracer:   noop.NewTracerProvider().Tracer(cfg.ServiceName),
			Shutdown: func(context.Context) error { return nil },
		}
		return &t, nil
	}
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("creating trace resource: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t := Telemetry{
		Tracer:   tp.Tracer(cfg.ServiceName),
		Shutdown: tp.Shutdown,
	}
	return &t, nil
}
