package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/imashi/lms-gateway/internal/observability"
)

// runGateway runs the gateway and handles shutdown.
func runGateway(app *application, logger observability.Logger) {
	if err := app.gateway.Start(context.Background()); err != nil {
		fatalWithSync(logger, "failed to start gateway", observability.Error(err))
		return // unreachable in production; allows test to continue
	}

	startMetricsServerIfEnabled(app, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	waitForShutdown(app, sigCh, logger)
}

// waitForShutdown blocks until a signal arrives, then shuts down.
func waitForShutdown(app *application, sigCh <-chan os.Signal, logger observability.Logger) {
	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.GetEffectiveShutdownTimeout())
	defer cancel()

	shutdown(shutdownCtx, app, logger)
}

// shutdown stops the metrics server and drains the gateway.
func shutdown(ctx context.Context, app *application, logger observability.Logger) {
	if app.metricsServer != nil {
		logger.Info("stopping metrics server")
		if err := app.metricsServer.Shutdown(ctx); err != nil {
			logger.Error("failed to stop metrics server gracefully", observability.Error(err))
		}
	}

	if err := app.gateway.Stop(ctx); err != nil {
		logger.Error("failed to stop gateway gracefully", observability.Error(err))
	}

	logger.Info("gateway stopped")
}
