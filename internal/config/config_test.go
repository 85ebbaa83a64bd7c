package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, APIVersion, cfg.APIVersion)
	assert.Equal(t, Kind, cfg.Kind)
	assert.Equal(t, 8080, cfg.Spec.Listener.Port)
	assert.Equal(t, "/api/gateway/health", cfg.Spec.Health.Path)

	require.Len(t, cfg.Spec.Routes, 1)
	route := cfg.Spec.Routes[0]
	assert.Equal(t, "backend-route", route.Name)
	assert.Equal(t, "/api/backend/**", route.Match.Path)
	assert.Equal(t, 2, route.Filters.StripPrefix)
	assert.Equal(t, "http://localhost:8081", route.Upstream.URI)

	assert.Equal(t, "Gateway is running on port 8080", cfg.HealthMessage())
	assert.False(t, cfg.MetricsEnabled())
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGatewayConfig_HealthMessage(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Spec.Listener.Port = 9000
	assert.Equal(t, "Gateway is running on port 8080", cfg.HealthMessage())
	assert.Equal(t, cfg.HealthMessage(), cfg.HealthMessage())

	cfg.Spec.Health.Message = "ok"
	assert.Equal(t, "ok", cfg.HealthMessage())
}

func TestListenerTimeouts_Effective(t *testing.T) {
	t.Parallel()

	var nilTimeouts *ListenerTimeouts
	assert.Equal(t, DefaultReadTimeout, nilTimeouts.GetEffectiveReadTimeout())
	assert.Equal(t, DefaultReadHeaderTimeout, nilTimeouts.GetEffectiveReadHeaderTimeout())
	assert.Equal(t, DefaultWriteTimeout, nilTimeouts.GetEffectiveWriteTimeout())
	assert.Equal(t, DefaultIdleTimeout, nilTimeouts.GetEffectiveIdleTimeout())

	timeouts := &ListenerTimeouts{
		ReadTimeout:       Duration(time.Second),
		ReadHeaderTimeout: Duration(2 * time.Second),
		WriteTimeout:      Duration(3 * time.Second),
		IdleTimeout:       Duration(4 * time.Second),
	}
	assert.Equal(t, time.Second, timeouts.GetEffectiveReadTimeout())
	assert.Equal(t, 2*time.Second, timeouts.GetEffectiveReadHeaderTimeout())
	assert.Equal(t, 3*time.Second, timeouts.GetEffectiveWriteTimeout())
	assert.Equal(t, 4*time.Second, timeouts.GetEffectiveIdleTimeout())
}

func TestUpstream_EffectiveTimeouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		upstream     Upstream
		wantConnect  time.Duration
		wantResponse time.Duration
	}{
		{
			name:         "defaults",
			upstream:     Upstream{},
			wantConnect:  DefaultConnectTimeout,
			wantResponse: DefaultResponseTimeout,
		},
		{
			name: "explicit",
			upstream: Upstream{
				ConnectTimeout:  Duration(time.Second),
				ResponseTimeout: DurationPtr(5 * time.Second),
			},
			wantConnect:  time.Second,
			wantResponse: 5 * time.Second,
		},
		{
			name:         "zero response timeout disables deadline",
			upstream:     Upstream{ResponseTimeout: DurationPtr(0)},
			wantConnect:  DefaultConnectTimeout,
			wantResponse: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantConnect, tt.upstream.GetEffectiveConnectTimeout())
			assert.Equal(t, tt.wantResponse, tt.upstream.GetEffectiveResponseTimeout())
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &GatewayConfig{
		Spec: GatewaySpec{
			Metrics: &MetricsConfig{Enabled: true},
		},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, APIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultGatewayName, cfg.Metadata.Name)
	assert.Equal(t, DefaultPort, cfg.Spec.Listener.Port)
	assert.Equal(t, []Route{DefaultRoute()}, cfg.Spec.Routes)
	assert.Equal(t, DefaultHealthPath, cfg.Spec.Health.Path)
	assert.Equal(t, DefaultMetricsPort, cfg.Spec.Metrics.Port)
	assert.Equal(t, DefaultMetricsPath, cfg.Spec.Metrics.Path)
	assert.Equal(t, DefaultShutdownTimeout, cfg.GetEffectiveShutdownTimeout())
}

func TestApplyDefaults_ZeroPortBecomesDefault(t *testing.T) {
	t.Parallel()

	cfg := &GatewayConfig{Spec: GatewaySpec{Listener: Listener{Port: 0}}}
	ApplyDefaults(cfg)
	assert.Equal(t, DefaultPort, cfg.Spec.Listener.Port)

	// Configs built in code skip ApplyDefaults and keep an ephemeral port.
	inCode := DefaultConfig()
	inCode.Spec.Listener.Port = 0
	require.NoError(t, ValidateConfig(inCode))
	assert.Equal(t, 0, inCode.Spec.Listener.Port)
}

func TestApplyDefaults_KeepsDeclaredRoutes(t *testing.T) {
	t.Parallel()

	routes := []Route{{
		Name:     "courses",
		Match:    RouteMatch{Path: "/api/courses/**"},
		Upstream: Upstream{URI: "http://courses:8080"},
	}}
	cfg := &GatewayConfig{Spec: GatewaySpec{Routes: routes}}
	ApplyDefaults(cfg)

	assert.Equal(t, routes, cfg.Spec.Routes)
}
