package main

import (
	"net/http"

	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/gateway"
	"github.com/imashi/lms-gateway/internal/health"
	"github.com/imashi/lms-gateway/internal/observability"
	"github.com/imashi/lms-gateway/internal/proxy"
	"github.com/imashi/lms-gateway/internal/router"
)

// application holds all application components.
type application struct {
	gateway       *gateway.Gateway
	router        *router.Router
	healthChecker *health.Checker
	metrics       *observability.Metrics
	metricsServer *http.Server
	config        *config.GatewayConfig
}

// initApplication initializes all application components.
func initApplication(cfg *config.GatewayConfig, logger observability.Logger) *application {
	metrics := observability.NewMetrics("gateway")
	metrics.SetBuildInfo(version, gitCommit, buildTime)

	healthChecker := health.NewChecker(version)

	r, err := router.New(cfg.Spec.Routes)
	if err != nil {
		fatalWithSync(logger, "failed to load routes", observability.Error(err))
		return nil // unreachable in production; allows test to continue
	}
	logRoutes(r, logger)

	reverseProxy := proxy.NewReverseProxy(r,
		proxy.WithProxyLogger(logger),
		proxy.WithMetricsRegistry(metrics.Registry()),
	)

	gw, err := gateway.New(cfg,
		gateway.WithLogger(logger),
		gateway.WithRouteHandler(reverseProxy),
		gateway.WithHealthChecker(healthChecker),
		gateway.WithMiddleware(buildMiddlewareChain(logger, metrics)...),
	)
	if err != nil {
		fatalWithSync(logger, "failed to create gateway", observability.Error(err))
		return nil // unreachable in production; allows test to continue
	}

	return &application{
		gateway:       gw,
		router:        r,
		healthChecker: healthChecker,
		metrics:       metrics,
		config:        cfg,
	}
}

func logRoutes(r *router.Router, logger observability.Logger) {
	for _, route := range r.Routes() {
		logger.Info("route registered",
			observability.String("route", route.Name),
			observability.String("path", route.PathMatcher.Pattern()),
			observability.String("upstream", route.Upstream.String()),
			observability.Int("strip_prefix", route.StripSegments),
		)
	}
}
