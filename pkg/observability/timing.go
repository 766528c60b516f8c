package observability

import (
	"context"
	"log/slog"
	"time"
)

// ObserveResult runs fn, records its duration under metric and counts a
// failure under MetricAnalyticsErrors. Completion is logged at debug and
// failure at warn.
func ObserveResult[R any](ctx context.Context, logger *slog.Logger, metrics Metrics, metric, operation string, fn func() (R, error)) (R, error) {
	start := time.Now()
	result, err := fn()
	duration := time.Since(start)

	tags := []Tag{T(OperationKey, operation)}
	metrics.Timing(metric, duration, tags...)

	if err != nil {
		metrics.Counter(MetricAnalyticsErrors, 1, tags...)
		logger.WarnContext(ctx, "operation failed",
			OperationKey, operation,
			DurationKey, duration.Milliseconds(),
			ErrorKey, err.Error(),
		)
		return result, err
	}

	logger.DebugContext(ctx, "operation completed",
		OperationKey, operation,
		DurationKey, duration.Milliseconds(),
	)
	return result, nil
}
