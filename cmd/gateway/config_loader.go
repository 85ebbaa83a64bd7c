package main

import (
	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/observability"
)

// loadAndValidateConfig loads and validates the configuration. An empty
// path runs the built-in defaults.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.GatewayConfig {
	logger.Info("starting lms-gateway",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	var cfg *config.GatewayConfig
	if configPath == "" {
		logger.Info("no configuration file given, using built-in defaults")
		cfg = config.DefaultConfig()
	} else {
		resolved, err := config.ResolveConfigPath(configPath)
		if err != nil {
			fatalWithSync(logger, "failed to resolve configuration path", observability.Error(err))
			return nil // unreachable in production; allows test to continue
		}

		cfg, err = config.LoadConfig(resolved)
		if err != nil {
			fatalWithSync(logger, "failed to load configuration", observability.Error(err))
			return nil // unreachable in production; allows test to continue
		}
	}

	if err := config.ValidateConfig(cfg); err != nil {
		fatalWithSync(logger, "invalid configuration", observability.Error(err))
		return nil // unreachable in production; allows test to continue
	}

	logger.Info("configuration loaded",
		observability.String("name", cfg.Metadata.Name),
		observability.Int("port", cfg.Spec.Listener.Port),
		observability.Int("routes", len(cfg.Spec.Routes)),
		observability.String("health_path", cfg.Spec.Health.Path),
		observability.Bool("metrics", cfg.MetricsEnabled()),
	)

	return cfg
}
