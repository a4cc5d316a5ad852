package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// InitTelemetry wires OTLP tracing, metrics and log export for serviceName.
// The returned function flushes and stops every provider that was started.
func InitTelemetry(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	for _, start := range []func(context.Context, *resource.Resource) (func(context.Context) error, error){
		InitTracing,
		InitMetrics,
		func(ctx context.Context, res *resource.Resource) (func(context.Context) error, error) {
			return InitLogging(ctx, serviceName, res)
		},
	} {
		stop, err := start(ctx, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, stop)
	}

	Logger.Info("telemetry initialised", zap.String("service", serviceName))

	return shutdown, nil
}
