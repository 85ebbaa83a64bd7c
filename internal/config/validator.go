package config

import (
	"fmt"
	"strings"

	"github.com/imashi/lms-gateway/internal/util"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, e[i].Error())
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
)

// Validator validates gateway configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateConfig validates a gateway configuration.
func ValidateConfig(cfg *GatewayConfig) error {
	return NewValidator().Validate(cfg)
}

// Validate reports every problem found in cfg as ValidationErrors.
func (v *Validator) Validate(cfg *GatewayConfig) error {
	v.errors = nil

	if cfg == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateRoot(cfg)
	v.validateListener(&cfg.Spec.Listener)
	v.validateRoutes(cfg.Spec.Routes)
	v.validateHealth(&cfg.Spec.Health)
	v.validateLogging(cfg.Spec.Logging)
	v.validateMetrics(cfg.Spec.Metrics, cfg.Spec.Listener.Port)

	if err := util.ValidateDuration(cfg.Spec.ShutdownTimeout.Duration()); err != nil {
		v.addError("spec.shutdownTimeout", err.Error())
	}

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateRoot(cfg *GatewayConfig) {
	if cfg.APIVersion == "" {
		v.addError("apiVersion", "apiVersion is required")
	} else if cfg.APIVersion != APIVersion {
		v.addError("apiVersion", fmt.Sprintf("apiVersion must be '%s'", APIVersion))
	}

	if cfg.Kind == "" {
		v.addError("kind", "kind is required")
	} else if cfg.Kind != Kind {
		v.addError("kind", fmt.Sprintf("kind must be '%s'", Kind))
	}

	if cfg.Metadata.Name == "" {
		v.addError("metadata.name", "name is required")
	}
}

func (v *Validator) validateListener(l *Listener) {
	const path = "spec.listener"

	// Port 0 asks the kernel for an ephemeral port.
	if err := util.ValidateNonNegativePort(l.Port); err != nil {
		v.addError(path+".port", err.Error())
	}

	if l.Bind != "" {
		if err := util.ValidateIPAddress(l.Bind); err != nil {
			v.addError(path+".bind", err.Error())
		}
	}

	if t := l.Timeouts; t != nil {
		v.validateDuration(path+".timeouts.readTimeout", t.ReadTimeout)
		v.validateDuration(path+".timeouts.readHeaderTimeout", t.ReadHeaderTimeout)
		v.validateDuration(path+".timeouts.writeTimeout", t.WriteTimeout)
		v.validateDuration(path+".timeouts.idleTimeout", t.IdleTimeout)
	}
}

func (v *Validator) validateRoutes(routes []Route) {
	if len(routes) == 0 {
		v.addError("spec.routes", "at least one route is required")
		return
	}

	names := make(map[string]bool, len(routes))
	for i := range routes {
		route := &routes[i]
		path := fmt.Sprintf("spec.routes[%d]", i)

		if route.Name == "" {
			v.addError(path+".name", "route name is required")
		} else if names[route.Name] {
			v.addError(path+".name", fmt.Sprintf("duplicate route name: %s", route.Name))
		} else {
			names[route.Name] = true
		}

		if err := util.ValidatePathPattern(route.Match.Path); err != nil {
			v.addError(path+".match.path", err.Error())
		}

		for j, method := range route.Match.Methods {
			if err := util.ValidateHTTPMethod(method); err != nil {
				v.addError(fmt.Sprintf("%s.match.methods[%d]", path, j), err.Error())
			}
		}

		if route.Filters.StripPrefix < 0 {
			v.addError(path+".filters.stripPrefix", "stripPrefix must be non-negative")
		}

		v.validateUpstream(path+".upstream", &route.Upstream)
	}
}

func (v *Validator) validateUpstream(path string, u *Upstream) {
	if err := util.ValidateURL(u.URI); err != nil {
		v.addError(path+".uri", err.Error())
	}
	v.validateDuration(path+".connectTimeout", u.ConnectTimeout)
	if u.ResponseTimeout != nil {
		v.validateDuration(path+".responseTimeout", *u.ResponseTimeout)
	}
}

func (v *Validator) validateHealth(h *HealthConfig) {
	if !strings.HasPrefix(h.Path, "/") {
		v.addError("spec.health.path", "health path must start with '/'")
	}
}

func (v *Validator) validateLogging(l *LoggingConfig) {
	if l == nil {
		return
	}
	if l.Level != "" && !validLogLevels[strings.ToLower(l.Level)] {
		v.addError("spec.logging.level", fmt.Sprintf("unknown log level: %s", l.Level))
	}
	if l.Format != "" && !validLogFormats[strings.ToLower(l.Format)] {
		v.addError("spec.logging.format", fmt.Sprintf("unknown log format: %s", l.Format))
	}
}

func (v *Validator) validateMetrics(m *MetricsConfig, listenerPort int) {
	if m == nil || !m.Enabled {
		return
	}
	if err := util.ValidatePort(m.Port); err != nil {
		v.addError("spec.metrics.port", err.Error())
	} else if m.Port == listenerPort {
		v.addError("spec.metrics.port", "metrics port must differ from the listener port")
	}
	if !strings.HasPrefix(m.Path, "/") {
		v.addError("spec.metrics.path", "metrics path must start with '/'")
	}
}

func (v *Validator) validateDuration(path string, d Duration) {
	if err := util.ValidateDuration(d.Duration()); err != nil {
		v.addError(path, err.Error())
	}
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
