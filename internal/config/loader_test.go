package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
apiVersion: gateway.lms.imashi.io/v1
kind: Gateway
metadata:
  name: test-gateway
spec:
  listener:
    name: http
    port: 8090
    timeouts:
      readTimeout: 5s
  routes:
    - name: backend-route
      match:
        path: /api/backend/**
        methods: [GET, POST]
      filters:
        stripPrefix: 2
      upstream:
        uri: http://localhost:8081
        connectTimeout: 2s
        responseTimeout: 0s
  health:
    path: /api/gateway/health
  logging:
    level: debug
    format: console
`

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(sampleConfig), 0o600))

	cfg, err := NewLoader().Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "test-gateway", cfg.Metadata.Name)
	assert.Equal(t, 8090, cfg.Spec.Listener.Port)
	assert.Equal(t, 5*time.Second, cfg.Spec.Listener.Timeouts.GetEffectiveReadTimeout())

	require.Len(t, cfg.Spec.Routes, 1)
	route := cfg.Spec.Routes[0]
	assert.Equal(t, []string{"GET", "POST"}, route.Match.Methods)
	assert.Equal(t, 2, route.Filters.StripPrefix)
	assert.Equal(t, 2*time.Second, route.Upstream.GetEffectiveConnectTimeout())
	assert.Zero(t, route.Upstream.GetEffectiveResponseTimeout())

	require.NotNil(t, cfg.Spec.Logging)
	assert.Equal(t, "debug", cfg.Spec.Logging.Level)
	assert.Equal(t, DefaultHealthMessage, cfg.HealthMessage())
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoader_Load_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load("/nonexistent/path/gateway.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoader_LoadFromReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, cfg *GatewayConfig)
	}{
		{
			name:  "empty document yields defaults",
			input: "",
			check: func(t *testing.T, cfg *GatewayConfig) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name:  "partial document is completed",
			input: "spec:\n  listener:\n    port: 9000\n",
			check: func(t *testing.T, cfg *GatewayConfig) {
				assert.Equal(t, 9000, cfg.Spec.Listener.Port)
				assert.Equal(t, []Route{DefaultRoute()}, cfg.Spec.Routes)
				assert.Equal(t, DefaultHealthPath, cfg.Spec.Health.Path)
			},
		},
		{
			name:  "explicit port 0 is defaulted",
			input: "spec:\n  listener:\n    port: 0\n",
			check: func(t *testing.T, cfg *GatewayConfig) {
				assert.Equal(t, DefaultPort, cfg.Spec.Listener.Port)
			},
		},
		{
			name:    "unknown field",
			input:   "spec:\n  listeners: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "malformed yaml",
			input:   "spec: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "bad duration",
			input:   "spec:\n  shutdownTimeout: later\n",
			wantErr: "invalid duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfigFromReader(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoader_SubstituteEnvVars(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"UPSTREAM_HOST": "courses.internal",
		"EMPTY":         "",
	}
	loader := NewLoader(WithEnvLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}))

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "set variable", input: "http://${UPSTREAM_HOST}:8081", want: "http://courses.internal:8081"},
		{name: "unset with default", input: "${PORT:-8080}", want: "8080"},
		{name: "unset without default", input: "[${MISSING}]", want: "[]"},
		{name: "set but empty wins over default", input: "[${EMPTY:-x}]", want: "[]"},
		{name: "escaped dollar", input: "$${UPSTREAM_HOST}", want: "${UPSTREAM_HOST}"},
		{name: "plain text", input: "no variables", want: "no variables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, loader.substituteEnvVars(tt.input))
		})
	}
}

func TestLoadConfig_EnvSubstitution(t *testing.T) {
	t.Setenv("LMS_GW_TEST_UPSTREAM", "http://127.0.0.1:9999")

	cfg, err := LoadConfigFromReader(strings.NewReader(`
spec:
  routes:
    - name: r
      match:
        path: /api/**
      upstream:
        uri: ${LMS_GW_TEST_UPSTREAM}
`))
	require.NoError(t, err)
	require.Len(t, cfg.Spec.Routes, 1)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.Spec.Routes[0].Upstream.URI)
}

func TestResolveConfigPath(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(sampleConfig), 0o600))

	resolved, err := ResolveConfigPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, resolved)

	_, err = ResolveConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ResolveConfigPath("definitely-missing-gateway.yaml")
	assert.Error(t, err)
}

func TestLoad_ShippedExample(t *testing.T) {
	t.Parallel()

	noEnv := func(string) (string, bool) { return "", false }
	cfg, err := NewLoader(WithEnvLookup(noEnv)).Load(filepath.Join("..", "..", "configs", "gateway.yaml"))
	require.NoError(t, err)
	require.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, "0.0.0.0", cfg.Spec.Listener.Bind)
	assert.Equal(t, DefaultPort, cfg.Spec.Listener.Port)
	require.Len(t, cfg.Spec.Routes, 1)
	assert.Equal(t, DefaultRoute().Match, cfg.Spec.Routes[0].Match)
	assert.Equal(t, DefaultRoute().Filters, cfg.Spec.Routes[0].Filters)
	assert.Equal(t, DefaultUpstreamURI, cfg.Spec.Routes[0].Upstream.URI)
	assert.Equal(t, "Gateway is running on port 8080", cfg.HealthMessage())
	assert.False(t, cfg.MetricsEnabled())
}
