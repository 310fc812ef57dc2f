package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	meterName  = "parkinsights"
	tracerName = "parkinsights"
)

// OTelProvider implements Provider using OpenTelemetry
type OTelProvider struct {
	tracer trace.Tracer
	meter  metric.Meter

	requests        metric.Int64Counter
	requestErrors   metric.Int64Counter
	requestDuration metric.Float64Histogram
	inFlight        metric.Int64UpDownCounter
}

// NewOTel creates a provider bound to the global tracer and meter providers.
func NewOTel() (*OTelProvider, error) {
	return NewOTelWith(otel.GetTracerProvider(), otel.GetMeterProvider())
}

// NewOTelWith creates a provider bound to explicit tracer and meter providers.
func NewOTelWith(tp trace.TracerProvider, mp metric.MeterProvider) (*OTelProvider, error) {
	provider := &OTelProvider{
		tracer: tp.Tracer(tracerName),
		meter:  mp.Meter(meterName),
	}

	if err := provider.initMetrics(); err != nil {
		return nil, err
	}

	return provider, nil
}

func (o *OTelProvider) initMetrics() error {
	var err error

	o.requests, err = o.meter.Int64Counter(
		"parkinsights.requests",
		metric.WithDescription("Number of backend requests issued"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	o.requestErrors, err = o.meter.Int64Counter(
		"parkinsights.request.errors",
		metric.WithDescription("Number of backend requests that failed or returned a non-2xx status"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	o.requestDuration, err = o.meter.Float64Histogram(
		"parkinsights.request.duration",
		metric.WithDescription("Duration of backend requests"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	o.inFlight, err = o.meter.Int64UpDownCounter(
		"parkinsights.requests.inflight",
		metric.WithDescription("Backend requests currently awaiting a response"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// StartSpan creates a new trace span
func (o *OTelProvider) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	config := &SpanConfig{}
	for _, opt := range opts {
		opt(config)
	}

	otelAttrs := make([]attribute.KeyValue, len(config.Attributes))
	for i, attr := range config.Attributes {
		otelAttrs[i] = o.convertAttribute(attr)
	}

	ctx, otelSpan := o.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(otelAttrs...))

	return ctx, &OTelSpan{span: otelSpan, provider: o}
}

func (o *OTelProvider) convertAttribute(attr Attribute) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	default:
		return attribute.String(attr.Key, "")
	}
}

// RecordRequest records one finished request. A transport failure has
// statusCode 0 and a non-nil err.
func (o *OTelProvider) RecordRequest(ctx context.Context, operation string, statusCode int, duration time.Duration, err error) {
	outcome := Outcome(statusCode, err)
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Int("http.status_code", statusCode),
		attribute.String("outcome", outcome),
	)

	o.requests.Add(ctx, 1, attrs)
	o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)

	if outcome != "ok" {
		o.requestErrors.Add(ctx, 1, attrs)
	}
}

// TrackInFlight adjusts the in-flight gauge by delta.
func (o *OTelProvider) TrackInFlight(ctx context.Context, operation string, delta int64) {
	o.inFlight.Add(ctx, delta, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// OTelSpan wraps an OpenTelemetry span
type OTelSpan struct {
	span     trace.Span
	provider *OTelProvider
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs ...Attribute) {
	otelAttrs := make([]attribute.KeyValue, len(attrs))
	for i, attr := range attrs {
		otelAttrs[i] = s.provider.convertAttribute(attr)
	}
	s.span.SetAttributes(otelAttrs...)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (s *OTelSpan) AddEvent(name string, attrs ...Attribute) {
	otelAttrs := make([]attribute.KeyValue, len(attrs))
	for i, attr := range attrs {
		otelAttrs[i] = s.provider.convertAttribute(attr)
	}
	s.span.AddEvent(name, trace.WithAttributes(otelAttrs...))
}
