package main

import (
	"net/http"

	"github.com/imashi/lms-gateway/internal/middleware"
	"github.com/imashi/lms-gateway/internal/observability"
)

// buildMiddlewareChain returns the gateway middleware, outermost first:
// Recovery -> RequestID -> Logging -> Metrics -> [engine]
//
// Logging sits outside Metrics so both observe the route reported by
// the engine through the same tracking slot.
func buildMiddlewareChain(
	logger observability.Logger,
	metrics *observability.Metrics,
) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
		observability.MetricsMiddleware(metrics),
	}
}
