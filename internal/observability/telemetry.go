package observability

import (
	"context"
	"errors"
	"fmt"
)

// ShutdownFunc flushes and stops an exporter pipeline.
type ShutdownFunc func(context.Context) error

// InitTelemetry starts OTLP trace, metric and log export for serviceName and
// returns one function that shuts all of them down. Exporters read their
// endpoints from the standard OTEL_EXPORTER_OTLP_* variables.
func InitTelemetry(ctx context.Context, serviceName string) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc

	shutdownAll := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	steps := []struct {
		name string
		init func(context.Context, string) (func(context.Context) error, error)
	}{
		{"tracing", InitTracing},
		{"metrics", InitMetrics},
		{"logging", InitLogging},
	}

	for _, step := range steps {
		shutdown, err := step.init(ctx, serviceName)
		if err != nil {
			_ = shutdownAll(ctx)
			return nil, fmt.Errorf("init %s: %w", step.name, err)
		}
		shutdowns = append(shutdowns, shutdown)
	}

	return shutdownAll, nil
}
