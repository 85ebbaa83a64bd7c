// Package observability provides structured logging and Prometheus
// metrics for the gateway.
//
// # Logging
//
// The Logger interface wraps zap:
//
//	logger, err := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("request forwarded",
//	    observability.String("route", "backend-route"),
//	    observability.Int("status", 200),
//	)
//
// # Metrics
//
// HTTP request metrics backed by a private Prometheus registry:
//
//	metrics := observability.NewMetrics("gateway")
//	handler := metrics.Handler()
package observability
