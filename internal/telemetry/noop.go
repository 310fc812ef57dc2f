package telemetry

import (
	"context"
	"time"
)

// NoOpProvider is a telemetry provider that does nothing.
// It is the client default when telemetry is not requested.
type NoOpProvider struct{}

// NewNoOp creates a new no-op telemetry provider
func NewNoOp() *NoOpProvider {
	return &NoOpProvider{}
}

func (n *NoOpProvider) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	return ctx, &NoOpSpan{}
}

func (n *NoOpProvider) RecordRequest(ctx context.Context, operation string, statusCode int, duration time.Duration, err error) {
}

func (n *NoOpProvider) TrackInFlight(ctx context.Context, operation string, delta int64) {}

// NoOpSpan is a span that does nothing
type NoOpSpan struct{}

func (n *NoOpSpan) End() {}

func (n *NoOpSpan) SetAttributes(attrs ...Attribute) {}

func (n *NoOpSpan) RecordError(err error) {}

func (n *NoOpSpan) AddEvent(name string, attrs ...Attribute) {}
