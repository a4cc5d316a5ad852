package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging exports every entry written to Logger over OTLP as well. The
// local core keeps writing to stderr; the bridge core only sees entries at or
// above the local level.
func InitLogging(ctx context.Context, serviceName string, res *resource.Resource) (func(context.Context) error, error) {
	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	local := Logger.Core()
	bridge := zapcore.NewTee(local, otelzap.NewCore(serviceName, otelzap.WithLoggerProvider(provider)))
	Logger = zap.New(bridge, zap.AddCaller(), zap.IncreaseLevel(levelOf(local)))

	return provider.Shutdown, nil
}

// levelOf returns the lowest level core is enabled for.
func levelOf(core zapcore.Core) zapcore.Level {
	for l := zapcore.DebugLevel; l < zapcore.FatalLevel; l++ {
		if core.Enabled(l) {
			return l
		}
	}
	return zapcore.FatalLevel
}
