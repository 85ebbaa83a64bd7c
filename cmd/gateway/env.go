package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvConfigPath = "GATEWAY_CONFIG_PATH"
	EnvLogLevel   = "GATEWAY_LOG_LEVEL"
	EnvLogFormat  = "GATEWAY_LOG_FORMAT"
)

const dotEnvFile = ".env"

// loadDotEnv loads variables from a dotenv file when it exists.
// Variables already present in the environment are not overridden.
func loadDotEnv(path string) bool {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return false
	}

	if err := godotenv.Load(path); err != nil {
		_, _ = os.Stderr.WriteString("failed to load " + path + ": " + err.Error() + "\n")
		return false
	}
	return true
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
