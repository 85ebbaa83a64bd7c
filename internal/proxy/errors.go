package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/imashi/lms-gateway/internal/util"
)

// Sentinel errors for proxy operations.
var (
	// ErrRouteNotFound indicates that no matching route was found.
	ErrRouteNotFound = errors.New("no matching route found")

	// ErrUpstreamUnreachable indicates the upstream could not be reached
	// or failed before producing a response.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrUpstreamTimeout indicates the upstream did not respond within
	// the route's timeouts.
	ErrUpstreamTimeout = errors.New("upstream request timed out")

	// ErrClientCanceled indicates the client went away before the
	// upstream answered.
	ErrClientCanceled = errors.New("client canceled request")
)

// Error type labels used in logs and metrics.
const (
	errorTypeUnreachable    = "unreachable"
	errorTypeTimeout        = "timeout"
	errorTypeClientCanceled = "client_canceled"
	errorTypeRouteNotFound  = "route_not_found"
)

// ProxyError represents a proxy-related error with details.
type ProxyError struct {
	Op      string // Operation that failed
	Route   string // Route name if applicable
	Target  string // Target URL if applicable
	Message string // Human-readable message
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *ProxyError) Error() string {
	prefix := "proxy error [" + e.Op + "]"
	if e.Route != "" {
		prefix += " route=" + e.Route
	}
	if e.Target != "" {
		prefix += " target=" + e.Target
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProxyError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *ProxyError) Is(target error) bool {
	_, ok := target.(*ProxyError)
	return ok || errors.Is(e.Cause, target)
}

// NewProxyError creates a new ProxyError.
func NewProxyError(op, route, target, message string, cause error) *ProxyError {
	return &ProxyError{
		Op:      op,
		Route:   route,
		Target:  target,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyError maps an error from forwarding a request onto one of
// ErrRouteNotFound, ErrClientCanceled, ErrUpstreamTimeout or
// ErrUpstreamUnreachable. It returns nil for a nil error.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrRouteNotFound), errors.Is(err, util.ErrNotFound):
		return ErrRouteNotFound
	case errors.Is(err, ErrClientCanceled), errors.Is(err, context.Canceled):
		return ErrClientCanceled
	case errors.Is(err, ErrUpstreamTimeout), errors.Is(err, util.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded):
		return ErrUpstreamTimeout
	case errors.Is(err, ErrUpstreamUnreachable), errors.Is(err, util.ErrUpstreamUnavail):
		return ErrUpstreamUnreachable
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrUpstreamTimeout
	}
	return ErrUpstreamUnreachable
}

func errorTypeLabel(kind error) string {
	switch {
	case errors.Is(kind, ErrRouteNotFound):
		return errorTypeRouteNotFound
	case errors.Is(kind, ErrClientCanceled):
		return errorTypeClientCanceled
	case errors.Is(kind, ErrUpstreamTimeout):
		return errorTypeTimeout
	default:
		return errorTypeUnreachable
	}
}
