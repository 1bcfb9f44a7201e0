package observability

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracingOptions mirrors the tracing config section.
type TracingOptions struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

// newTracerProvider returns nil, nil when tracing is disabled.
func newTracerProvider(serviceName, version string, opts TracingOptions) (*sdktrace.TracerProvider, error) {
	if !opts.Enabled {
		return nil, nil
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("jaeger collector endpoint is empty")
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.Endpoint)))
	if err != nil {
		return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	ratio := opts.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}
