// Package main is the entry point for the LMS API Gateway.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// exitFunc is swapped in tests so fatal paths can be observed.
var exitFunc = os.Exit

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	loadDotEnv(dotEnvFile)

	flags, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		exitFunc(2)
		return
	}

	if flags.showVersion {
		printVersion(os.Stdout)
		return
	}

	logger := initLogger(resolveLogConfig(flags, nil))
	cfg := loadAndValidateConfig(flags.configPath, logger)
	if cfg == nil {
		return
	}

	if cfg.Spec.Logging != nil {
		_ = logger.Sync()
		logger = initLogger(resolveLogConfig(flags, cfg.Spec.Logging))
	}
	defer func() { _ = logger.Sync() }()

	app := initApplication(cfg, logger)
	if app == nil {
		return
	}

	runGateway(app, logger)
}

// parseFlags parses command line flags. Unset flags fall back to the
// GATEWAY_* environment, then to the configuration file.
func parseFlags(fs *flag.FlagSet, args []string) (cliFlags, error) {
	var flags cliFlags

	fs.StringVar(&flags.configPath, "config", getEnvOrDefault(EnvConfigPath, ""),
		"Path to configuration file (built-in defaults when empty)")
	fs.StringVar(&flags.logLevel, "log-level", getEnvOrDefault(EnvLogLevel, ""),
		"Log level (debug, info, warn, error)")
	fs.StringVar(&flags.logFormat, "log-format", getEnvOrDefault(EnvLogFormat, ""),
		"Log format (json, console)")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}

	return flags, nil
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "lms-gateway version %s\n", version)
	_, _ = fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	_, _ = fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}

// resolveLogConfig merges flags over the config file logging section.
func resolveLogConfig(flags cliFlags, logging *config.LoggingConfig) observability.LogConfig {
	logCfg := observability.DefaultLogConfig()

	if logging != nil {
		if logging.Level != "" {
			logCfg.Level = logging.Level
		}
		if logging.Format != "" {
			logCfg.Format = logging.Format
		}
		if logging.Output != "" {
			logCfg.Output = logging.Output
		}
	}

	if flags.logLevel != "" {
		logCfg.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		logCfg.Format = flags.logFormat
	}

	return logCfg
}

// initLogger initializes the logger.
func initLogger(logCfg observability.LogConfig) observability.Logger {
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		exitFunc(1)
		return observability.NopLogger()
	}

	return logger
}

// fatalWithSync logs at error level, flushes the logger and exits.
// zap's Fatal would exit before deferred syncs run.
func fatalWithSync(logger observability.Logger, msg string, fields ...observability.Field) {
	logger.Error(msg, fields...)
	_ = logger.Sync()
	exitFunc(1)
}
