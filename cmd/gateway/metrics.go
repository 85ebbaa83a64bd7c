package main

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/imashi/lms-gateway/internal/health"
	"github.com/imashi/lms-gateway/internal/observability"
)

// createMetricsServer creates the metrics HTTP server. It also serves the
// liveness and readiness endpoints.
func createMetricsServer(
	port int,
	path string,
	metrics *observability.Metrics,
	healthChecker *health.Checker,
	logger observability.Logger,
) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	mux.HandleFunc("/ready", healthChecker.ReadinessHandler())
	mux.HandleFunc("/live", healthChecker.LivenessHandler())

	addr := net.JoinHostPort("", strconv.Itoa(port))
	logger.Info("starting metrics server",
		observability.String("address", addr),
		observability.String("metrics_path", path),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// runMetricsServer runs the metrics HTTP server.
func runMetricsServer(server *http.Server, logger observability.Logger) {
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", observability.Error(err))
	}
}

// startMetricsServerIfEnabled starts the metrics server if enabled.
func startMetricsServerIfEnabled(app *application, logger observability.Logger) {
	if !app.config.MetricsEnabled() {
		return
	}

	m := app.config.Spec.Metrics
	app.metricsServer = createMetricsServer(m.Port, m.Path, app.metrics, app.healthChecker, logger)
	go runMetricsServer(app.metricsServer, logger)
}
