package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments, initialized once via InitMetrics(). Until then they
// discard measurements.
var (
	actionCounter   metric.Int64Counter     = noop.Int64Counter{}
	actionHistogram metric.Float64Histogram = noop.Float64Histogram{}
	calcCounter     metric.Int64Counter     = noop.Int64Counter{}
	fallbackCounter metric.Int64Counter     = noop.Int64Counter{}
	errorCounter    metric.Int64Counter     = noop.Int64Counter{}
	resultGauge     metric.Float64Gauge     = noop.Float64Gauge{}
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	actionCounter, err = meter.Int64Counter("calculator.actions.total",
		metric.WithDescription("Total number of keypad actions applied"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return fmt.Errorf("creating action counter: %w", err)
	}

	actionHistogram, err = meter.Float64Histogram("calculator.action.duration",
		metric.WithDescription("Duration of keypad actions in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating action histogram: %w", err)
	}

	calcCounter, err = meter.Int64Counter("calculator.calculations.total",
		metric.WithDescription("Total number of completed calculations"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculation counter: %w", err)
	}

	fallbackCounter, err = meter.Int64Counter("calculator.fallbacks.total",
		metric.WithDescription("Folds that recovered from a zero divisor, bad operand or overflow"),
		metric.WithUnit("{fallback}"),
	)
	if err != nil {
		return fmt.Errorf("creating fallback counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator request errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last completed calculation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	return nil
}
