package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/starport-go/internal/application/common"
)

// PrometheusMiddleware creates a middleware that records command execution metrics:
// duration (histogram) and success/failure counts (counter), labelled with the bare
// request type name, e.g. "StartProductionCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(common.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
