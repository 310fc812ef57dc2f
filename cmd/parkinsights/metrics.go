package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// meterSink keeps the client's request metrics in memory until the command
// finishes.
type meterSink struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// installMeterSink makes a fresh SDK meter provider the global one.
func installMeterSink() *meterSink {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	return &meterSink{reader: reader, provider: provider}
}

// report logs one line per data point, then shuts the provider down.
func (s *meterSink) report(ctx context.Context, logger *slog.Logger) error {
	var rm metricdata.ResourceMetrics
	if err := s.reader.Collect(ctx, &rm); err != nil {
		return err
	}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					logger.Info("request metric",
						slog.String("metric", m.Name),
						slog.Int64("value", dp.Value),
						slog.String("attributes", dp.Attributes.Encoded(attribute.DefaultEncoder())),
					)
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					logger.Info("request metric",
						slog.String("metric", m.Name),
						slog.Uint64("count", dp.Count),
						slog.Float64("sum", dp.Sum),
						slog.String("attributes", dp.Attributes.Encoded(attribute.DefaultEncoder())),
					)
				}
			}
		}
	}

	return s.provider.Shutdown(ctx)
}

func (a *app) reportMetrics(ctx context.Context) {
	if a.meter == nil {
		return
	}
	if err := a.meter.report(ctx, a.logger); err != nil {
		a.logger.Warn("failed to report metrics", slog.Any("error", err))
	}
}
