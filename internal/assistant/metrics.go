package assistant

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	outcomeAnswered = "answered"
	outcomeEmpty    = "empty"
	outcomeFailed   = "failed"
)

var (
	solveCounter   metric.Int64Counter     = noop.Int64Counter{}
	solveHistogram metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter   metric.Int64Counter     = noop.Int64Counter{}
)

// InitMetrics registers the assistant's OTel instruments.
func InitMetrics() error {
	meter := otel.Meter("assistant")

	var err error

	solveCounter, err = meter.Int64Counter("assistant.solves.total",
		metric.WithDescription("Total number of AI solve attempts by outcome"),
		metric.WithUnit("{solve}"),
	)
	if err != nil {
		return fmt.Errorf("creating solve counter: %w", err)
	}

	solveHistogram, err = meter.Float64Histogram("assistant.solve.duration",
		metric.WithDescription("Duration of AI model calls in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(100, 250, 500, 1000, 2500, 5000, 10000, 30000),
	)
	if err != nil {
		return fmt.Errorf("creating solve histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("assistant.errors.total",
		metric.WithDescription("Total number of assistant request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
