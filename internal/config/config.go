package config

import (
	"time"
)

// Root document identifiers.
const (
	APIVersion = "gateway.lms.imashi.io/v1"
	Kind       = "Gateway"
)

// Default values.
const (
	DefaultGatewayName     = "lms-gateway"
	DefaultListenerName    = "http"
	DefaultPort            = 8080
	DefaultRouteName       = "backend-route"
	DefaultRoutePath       = "/api/backend/**"
	DefaultStripPrefix     = 2
	DefaultUpstreamURI     = "http://localhost:8081"
	DefaultHealthPath      = "/api/gateway/health"
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
	DefaultShutdownTimeout = 30 * time.Second

	DefaultReadTimeout       = 30 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	DefaultConnectTimeout  = 10 * time.Second
	DefaultResponseTimeout = 30 * time.Second
)

// DefaultHealthMessage is the health endpoint body unless
// health.message overrides it. It does not follow listener.port.
const DefaultHealthMessage = "Gateway is running on port 8080"

// GatewayConfig is the root configuration document.
type GatewayConfig struct {
	APIVersion string      `yaml:"apiVersion" json:"apiVersion"`
	Kind       string      `yaml:"kind" json:"kind"`
	Metadata   Metadata    `yaml:"metadata" json:"metadata"`
	Spec       GatewaySpec `yaml:"spec" json:"spec"`
}

// Metadata identifies the gateway instance.
type Metadata struct {
	Name   string            `yaml:"name" json:"name"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// GatewaySpec holds the gateway settings.
type GatewaySpec struct {
	Listener        Listener       `yaml:"listener" json:"listener"`
	Routes          []Route        `yaml:"routes" json:"routes"`
	Health          HealthConfig   `yaml:"health" json:"health"`
	Logging         *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty"`
	Metrics         *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty"`
	ShutdownTimeout Duration       `yaml:"shutdownTimeout,omitempty" json:"shutdownTimeout,omitempty"`
}

// Listener represents the inbound HTTP listener.
type Listener struct {
	Name     string            `yaml:"name" json:"name"`
	Bind     string            `yaml:"bind,omitempty" json:"bind,omitempty"`
	Port     int               `yaml:"port" json:"port"`
	Timeouts *ListenerTimeouts `yaml:"timeouts,omitempty" json:"timeouts,omitempty"`
}

// ListenerTimeouts contains timeout configuration for the HTTP listener.
type ListenerTimeouts struct {
	ReadTimeout       Duration `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty"`
	ReadHeaderTimeout Duration `yaml:"readHeaderTimeout,omitempty" json:"readHeaderTimeout,omitempty"`
	WriteTimeout      Duration `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty"`
	IdleTimeout       Duration `yaml:"idleTimeout,omitempty" json:"idleTimeout,omitempty"`
}

// GetEffectiveReadTimeout returns the effective read timeout.
func (t *ListenerTimeouts) GetEffectiveReadTimeout() time.Duration {
	if t == nil || t.ReadTimeout == 0 {
		return DefaultReadTimeout
	}
	return t.ReadTimeout.Duration()
}

// GetEffectiveReadHeaderTimeout returns the effective read header timeout.
func (t *ListenerTimeouts) GetEffectiveReadHeaderTimeout() time.Duration {
	if t == nil || t.ReadHeaderTimeout == 0 {
		return DefaultReadHeaderTimeout
	}
	return t.ReadHeaderTimeout.Duration()
}

// GetEffectiveWriteTimeout returns the effective write timeout.
func (t *ListenerTimeouts) GetEffectiveWriteTimeout() time.Duration {
	if t == nil || t.WriteTimeout == 0 {
		return DefaultWriteTimeout
	}
	return t.WriteTimeout.Duration()
}

// GetEffectiveIdleTimeout returns the effective idle timeout.
func (t *ListenerTimeouts) GetEffectiveIdleTimeout() time.Duration {
	if t == nil || t.IdleTimeout == 0 {
		return DefaultIdleTimeout
	}
	return t.IdleTimeout.Duration()
}

// Route maps an inbound path pattern to an upstream.
type Route struct {
	Name     string       `yaml:"name" json:"name"`
	Match    RouteMatch   `yaml:"match" json:"match"`
	Filters  RouteFilters `yaml:"filters,omitempty" json:"filters,omitempty"`
	Upstream Upstream     `yaml:"upstream" json:"upstream"`
}

// RouteMatch holds the request predicates of a route.
type RouteMatch struct {
	// Path is an Ant-style pattern: "*" matches one segment, a
	// trailing "**" matches any remaining segments.
	Path string `yaml:"path" json:"path"`

	// Methods restricts the route to these methods. Empty means any.
	Methods []string `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// RouteFilters holds the request rewrites applied before forwarding.
type RouteFilters struct {
	// StripPrefix is the number of leading path segments removed.
	StripPrefix int `yaml:"stripPrefix,omitempty" json:"stripPrefix,omitempty"`
}

// Upstream is the backend a route forwards to.
type Upstream struct {
	URI string `yaml:"uri" json:"uri"`

	// ConnectTimeout bounds dialing the upstream.
	ConnectTimeout Duration `yaml:"connectTimeout,omitempty" json:"connectTimeout,omitempty"`

	// ResponseTimeout bounds the whole exchange. Unset uses the
	// default, an explicit 0 disables the deadline.
	ResponseTimeout *Duration `yaml:"responseTimeout,omitempty" json:"responseTimeout,omitempty"`
}

// GetEffectiveConnectTimeout returns the effective dial timeout.
func (u *Upstream) GetEffectiveConnectTimeout() time.Duration {
	if u.ConnectTimeout <= 0 {
		return DefaultConnectTimeout
	}
	return u.ConnectTimeout.Duration()
}

// GetEffectiveResponseTimeout returns the effective response timeout;
// zero means no deadline.
func (u *Upstream) GetEffectiveResponseTimeout() time.Duration {
	if u.ResponseTimeout == nil {
		return DefaultResponseTimeout
	}
	return u.ResponseTimeout.Duration()
}

// HealthConfig configures the gateway health endpoint.
type HealthConfig struct {
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// MetricsConfig represents the Prometheus metrics server configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path,omitempty" json:"path,omitempty"`
	Port    int    `yaml:"port,omitempty" json:"port,omitempty"`
}

// DefaultConfig returns the built-in gateway configuration.
func DefaultConfig() *GatewayConfig {
	return &GatewayConfig{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   Metadata{Name: DefaultGatewayName},
		Spec: GatewaySpec{
			Listener: Listener{
				Name: DefaultListenerName,
				Port: DefaultPort,
			},
			Routes: []Route{DefaultRoute()},
			Health: HealthConfig{
				Path: DefaultHealthPath,
			},
		},
	}
}

// DefaultRoute returns the backend route: /api/backend/** with two
// segments stripped, forwarded to http://localhost:8081.
func DefaultRoute() Route {
	return Route{
		Name:     DefaultRouteName,
		Match:    RouteMatch{Path: DefaultRoutePath},
		Filters:  RouteFilters{StripPrefix: DefaultStripPrefix},
		Upstream: Upstream{URI: DefaultUpstreamURI},
	}
}

// ApplyDefaults fills values the document left empty. Routes are
// only defaulted when the document declares none.
func ApplyDefaults(cfg *GatewayConfig) {
	if cfg.APIVersion == "" {
		cfg.APIVersion = APIVersion
	}
	if cfg.Kind == "" {
		cfg.Kind = Kind
	}
	if cfg.Metadata.Name == "" {
		cfg.Metadata.Name = DefaultGatewayName
	}
	if cfg.Spec.Listener.Name == "" {
		cfg.Spec.Listener.Name = DefaultListenerName
	}
	if cfg.Spec.Listener.Port == 0 {
		cfg.Spec.Listener.Port = DefaultPort
	}
	if len(cfg.Spec.Routes) == 0 {
		cfg.Spec.Routes = []Route{DefaultRoute()}
	}
	if cfg.Spec.Health.Path == "" {
		cfg.Spec.Health.Path = DefaultHealthPath
	}
	if m := cfg.Spec.Metrics; m != nil {
		if m.Path == "" {
			m.Path = DefaultMetricsPath
		}
		if m.Port == 0 {
			m.Port = DefaultMetricsPort
		}
	}
}

// HealthMessage returns the health endpoint body.
func (c *GatewayConfig) HealthMessage() string {
	if c.Spec.Health.Message != "" {
		return c.Spec.Health.Message
	}
	return DefaultHealthMessage
}

// GetEffectiveShutdownTimeout returns the graceful shutdown bound.
func (c *GatewayConfig) GetEffectiveShutdownTimeout() time.Duration {
	if c.Spec.ShutdownTimeout <= 0 {
		return DefaultShutdownTimeout
	}
	return c.Spec.ShutdownTimeout.Duration()
}

// MetricsEnabled reports whether the metrics server should run.
func (c *GatewayConfig) MetricsEnabled() bool {
	return c.Spec.Metrics != nil && c.Spec.Metrics.Enabled
}
