package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/history"
	"go-chi-calculator/internal/observability"
)

// initTelemetry starts OTLP export when enabled and registers the domain
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	shutdown := func(context.Context) error { return nil }

	if cfg.Enabled {
		var err error
		shutdown, err = observability.InitTelemetry(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	if err := history.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
