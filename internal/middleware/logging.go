package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/imashi/lms-gateway/internal/observability"
	"github.com/imashi/lms-gateway/internal/util"
)

// LoggingOption configures the Logging middleware.
type LoggingOption func(*loggingConfig)

type loggingConfig struct {
	skipPaths map[string]bool
}

// WithSkipPaths disables logging for requests to the given exact paths.
func WithSkipPaths(paths ...string) LoggingOption {
	return func(c *loggingConfig) {
		for _, p := range paths {
			c.skipPaths[p] = true
		}
	}
}

// Logging returns a middleware that logs HTTP requests. Server errors
// are logged at error level, client errors at warn.
func Logging(logger observability.Logger, opts ...LoggingOption) func(http.Handler) http.Handler {
	cfg := &loggingConfig{skipPaths: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.skipPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			ctx := util.ContextWithStartTime(r.Context(), start)
			ctx = observability.WithRouteTracking(ctx)
			r = r.WithContext(ctx)

			rw := util.NewStatusCapturingResponseWriter(w)
			next.ServeHTTP(rw, r)

			fields := []observability.Field{
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("query", r.URL.RawQuery),
				observability.Int("status", rw.StatusCode),
				observability.Int("size", rw.Size),
				observability.Duration("duration", util.ElapsedTime(ctx)),
				observability.String("client_ip", clientIP(r)),
				observability.String("user_agent", r.UserAgent()),
			}
			if route := observability.ReportedRoute(ctx); route != "" {
				fields = append(fields, observability.String("route", route))
			}

			log := logger.WithContext(ctx)
			switch {
			case rw.StatusCode >= http.StatusInternalServerError:
				log.Error("http request", fields...)
			case rw.StatusCode >= http.StatusBadRequest:
				log.Warn("http request", fields...)
			default:
				log.Info("http request", fields...)
			}
		})
	}
}

// clientIP returns the peer address without port. Forwarding headers
// are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
