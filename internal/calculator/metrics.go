package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metric instruments, replaced by InitMetrics. The no-op defaults keep the
// handlers usable before initialisation.
var (
	opsCounter    metric.Int64Counter     = noop.Int64Counter{}
	opsHistogram  metric.Float64Histogram = noop.Float64Histogram{}
	errorCounter  metric.Int64Counter     = noop.Int64Counter{}
	bitsHistogram metric.Int64Histogram   = noop.Int64Histogram{}
	stepsCounter  metric.Int64Counter     = noop.Int64Counter{}
)

// InitMetrics registers custom OTel metric instruments for the calculator domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of modular exponentiations performed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of modular exponentiations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	bitsHistogram, err = meter.Int64Histogram("calculator.exponent.bits",
		metric.WithDescription("Bit length of the exponent per calculation"),
		metric.WithUnit("{bit}"),
		metric.WithExplicitBucketBoundaries(1, 4, 8, 16, 24, 32, 36, 64),
	)
	if err != nil {
		return fmt.Errorf("creating exponent bits histogram: %w", err)
	}

	stepsCounter, err = meter.Int64Counter("calculator.steps.total",
		metric.WithDescription("Total number of squaring steps traced"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return fmt.Errorf("creating steps counter: %w", err)
	}

	return nil
}
