package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"visa-predictor/internal/common/logger"
)

// Observability owns the OpenTelemetry meter and tracer providers.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer

	decisionCounter  otelmetric.Int64Counter
	decisionDuration otelmetric.Float64Histogram
}

// Options configures New.
type Options struct {
	ServiceName string
	Version     string
	Tracing     TracingOptions
	Logger      logger.Logger
}

// New wires the otel Prometheus exporter and, when enabled, the Jaeger tracer.
// Failures degrade to no-op instruments; they are logged, never fatal.
func New(opts Options) *Observability {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	o := &Observability{tracer: otel.Tracer(opts.ServiceName)}

	if tp, err := newTracerProvider(opts.ServiceName, opts.Version, opts.Tracing); err != nil {
		log.Warn("Tracing disabled", map[string]interface{}{"error": err.Error()})
	} else if tp != nil {
		otel.SetTracerProvider(tp)
		o.tracerProvider = tp
		o.tracer = tp.Tracer(opts.ServiceName)
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	o.meterProvider = provider
	o.meter = provider.Meter(opts.ServiceName)

	o.decisionCounter, _ = o.meter.Int64Counter(
		"decisions.processed",
		otelmetric.WithDescription("Number of visa decisions produced"),
	)
	o.decisionDuration, _ = o.meter.Float64Histogram(
		"decisions.duration",
		otelmetric.WithDescription("Decision processing duration"),
		otelmetric.WithUnit("ms"),
	)
	return o
}

// StartSpan opens a span on the service tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Tracer exposes the service tracer to components that open their own spans.
func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

// RecordDecision implements the engine's decision recorder.
func (o *Observability) RecordDecision(ctx context.Context, status, source string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("status", status),
		attribute.String("source", source),
	)
	if o.decisionCounter != nil {
		o.decisionCounter.Add(ctx, 1, attrs)
	}
	if o.decisionDuration != nil {
		o.decisionDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
