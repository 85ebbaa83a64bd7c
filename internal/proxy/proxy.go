package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imashi/lms-gateway/internal/observability"
	"github.com/imashi/lms-gateway/internal/router"
	"github.com/imashi/lms-gateway/internal/util"
)

// Response bodies written by the gateway itself.
const (
	notFoundBody       = `{"error":"not found","message":"no matching route"}`
	badGatewayBody     = `{"error":"bad gateway","message":"upstream unavailable"}`
	gatewayTimeoutBody = `{"error":"gateway timeout","message":"upstream did not respond in time"}`

	contentTypeJSON = "application/json"

	// StatusClientClosedRequest is recorded when the client goes away
	// before the upstream answers. Nothing is written to the client.
	StatusClientClosedRequest = 499

	unmatchedRoute = "unmatched"
)

type forwardPathKey struct{}

// ReverseProxy handles proxying requests to upstream services.
type ReverseProxy struct {
	router        *router.Router
	logger        observability.Logger
	transport     http.RoundTripper
	registerer    prometheus.Registerer
	metrics       *proxyMetrics
	notFound      http.Handler
	errorHandler  func(http.ResponseWriter, *http.Request, error)
	flushInterval time.Duration
	upstreams     map[string]*httputil.ReverseProxy
}

// ProxyOption is a functional option for configuring the proxy.
type ProxyOption func(*ReverseProxy)

// WithProxyLogger sets the logger for the proxy.
func WithProxyLogger(logger observability.Logger) ProxyOption {
	return func(p *ReverseProxy) {
		p.logger = logger
	}
}

// WithTransport sets one transport for every route, replacing the
// per-route transports built from the route timeouts.
func WithTransport(transport http.RoundTripper) ProxyOption {
	return func(p *ReverseProxy) {
		p.transport = transport
	}
}

// WithMetricsRegistry registers the proxy metrics with registerer.
func WithMetricsRegistry(registerer prometheus.Registerer) ProxyOption {
	return func(p *ReverseProxy) {
		p.registerer = registerer
	}
}

// WithNotFoundHandler sets the handler for requests matching no route.
func WithNotFoundHandler(handler http.Handler) ProxyOption {
	return func(p *ReverseProxy) {
		p.notFound = handler
	}
}

// WithErrorHandler sets the handler for forwarding failures.
func WithErrorHandler(handler func(http.ResponseWriter, *http.Request, error)) ProxyOption {
	return func(p *ReverseProxy) {
		p.errorHandler = handler
	}
}

// WithFlushInterval sets the flush interval for streaming responses.
func WithFlushInterval(interval time.Duration) ProxyOption {
	return func(p *ReverseProxy) {
		p.flushInterval = interval
	}
}

// NewReverseProxy creates a reverse proxy over the routes of r.
func NewReverseProxy(r *router.Router, opts ...ProxyOption) *ReverseProxy {
	p := &ReverseProxy{
		router:        r,
		logger:        observability.NopLogger(),
		flushInterval: -1, // Immediate flush
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.notFound == nil {
		p.notFound = http.HandlerFunc(p.handleRouteNotFound)
	}
	if p.errorHandler == nil {
		p.errorHandler = p.defaultErrorHandler
	}

	routes := r.Routes()
	names := make([]string, 0, len(routes))
	p.upstreams = make(map[string]*httputil.ReverseProxy, len(routes))
	for _, route := range routes {
		p.upstreams[route.Name] = p.newUpstreamProxy(route)
		names = append(names, route.Name)
	}

	p.metrics = newProxyMetrics(p.registerer)
	p.metrics.initRouteLabels(names)

	return p
}

// newUpstreamProxy builds the forwarding proxy of one route.
func (p *ReverseProxy) newUpstreamProxy(route *router.CompiledRoute) *httputil.ReverseProxy {
	transport := p.transport
	if transport == nil {
		transport = newTransport(route.ConnectTimeout)
	}

	target := route.Upstream
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			if forward, ok := pr.In.Context().Value(forwardPathKey{}).(string); ok {
				setEscapedPath(pr.Out.URL, forward)
			}
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport:     transport,
		FlushInterval: p.flushInterval,
		ErrorHandler:  p.errorHandler,
	}
}

// newTransport clones the default transport with a bounded dial.
func newTransport(connectTimeout time.Duration) *http.Transport {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{}
	}
	t := base.Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return t
}

// setEscapedPath sets u to the escaped path, keeping the encoding the
// client sent.
func setEscapedPath(u *url.URL, escaped string) {
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		u.Path, u.RawPath = escaped, ""
		return
	}
	u.Path = unescaped
	if unescaped != escaped {
		u.RawPath = escaped
	} else {
		u.RawPath = ""
	}
}

// ServeHTTP implements http.Handler.
func (p *ReverseProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result, err := p.router.Match(r)
	if err != nil {
		p.notFound.ServeHTTP(w, r)
		return
	}

	route := result.Route
	upstream, ok := p.upstreams[route.Name]
	if !ok {
		// Only reachable if the router changed under the proxy.
		p.notFound.ServeHTTP(w, r)
		return
	}

	observability.ReportRoute(r.Context(), route.Name)

	ctx := util.ContextWithRoute(r.Context(), route.Name)
	ctx = util.ContextWithUpstream(ctx, route.Upstream.String())
	ctx = context.WithValue(ctx, forwardPathKey{}, result.ForwardPath)

	if route.ResponseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, route.ResponseTimeout)
		defer cancel()
	}

	rw := util.NewStatusCapturingResponseWriter(w)
	start := time.Now()

	upstream.ServeHTTP(rw, r.WithContext(ctx))

	p.metrics.upstreamDuration.WithLabelValues(route.Name).Observe(time.Since(start).Seconds())
	p.metrics.requestsTotal.WithLabelValues(route.Name, strconv.Itoa(rw.StatusCode)).Inc()
}

// handleRouteNotFound handles route not found errors.
func (p *ReverseProxy) handleRouteNotFound(w http.ResponseWriter, r *http.Request) {
	p.logger.Debug("route not found",
		observability.String("path", r.URL.Path),
		observability.String("method", r.Method),
	)
	p.metrics.errorsTotal.WithLabelValues(unmatchedRoute, errorTypeRouteNotFound).Inc()

	writeJSON(w, http.StatusNotFound, notFoundBody)
}

// defaultErrorHandler answers a failed forward with 502 or 504.
func (p *ReverseProxy) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	route := util.RouteFromContext(ctx)
	target := util.UpstreamFromContext(ctx)

	kind := ClassifyError(err)
	// The transport reports our own deadline as a cancellation on some
	// paths; the context knows which one fired.
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		kind = ErrUpstreamTimeout
	}
	proxyErr := NewProxyError("forward", route, target, kind.Error(), p.upstreamCause(route, target, kind, err))

	p.metrics.errorsTotal.WithLabelValues(route, errorTypeLabel(kind)).Inc()

	fields := []observability.Field{
		observability.String("target", target),
		observability.String("path", r.URL.Path),
		observability.String("method", r.Method),
		observability.Error(proxyErr),
	}

	switch kind {
	case ErrClientCanceled:
		p.logger.WithContext(ctx).Debug("client went away before upstream answered", fields...)
		w.WriteHeader(StatusClientClosedRequest)
	case ErrUpstreamTimeout:
		p.logger.WithContext(ctx).Warn("upstream timed out", fields...)
		writeJSON(w, http.StatusGatewayTimeout, gatewayTimeoutBody)
	default:
		p.logger.WithContext(ctx).Error("upstream unavailable", fields...)
		writeJSON(w, http.StatusBadGateway, badGatewayBody)
	}
}

// upstreamCause attaches the upstream or timeout detail to err.
func (p *ReverseProxy) upstreamCause(route, target string, kind, err error) error {
	switch kind {
	case ErrUpstreamTimeout:
		var timeout time.Duration
		if cr, ok := p.router.Route(route); ok {
			timeout = cr.ResponseTimeout
		}
		return util.NewTimeoutError("upstream exchange", timeout, err)
	case ErrUpstreamUnreachable:
		return util.NewUpstreamError(target, "request failed", err)
	default:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Handler returns an http.Handler for the proxy.
func (p *ReverseProxy) Handler() http.Handler {
	return p
}
