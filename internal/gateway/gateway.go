package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/health"
	"github.com/imashi/lms-gateway/internal/observability"
)

// State represents the gateway state.
type State int32

const (
	// StateStopped indicates the gateway is stopped.
	StateStopped State = iota
	// StateStarting indicates the gateway is starting.
	StateStarting
	// StateRunning indicates the gateway is running.
	StateRunning
	// StateStopping indicates the gateway is stopping.
	StateStopping
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// HealthRouteName labels health requests in logs and metrics.
const HealthRouteName = "health"

// ReadinessCheckName is the name of the check registered with
// WithHealthChecker.
const ReadinessCheckName = "gateway"

const (
	notFoundBody         = `{"error":"not found","message":"no matching route"}`
	methodNotAllowedBody = `{"error":"method not allowed"}`
)

var ginModeOnce sync.Once

// Gateway is the main API Gateway struct.
type Gateway struct {
	config    *config.GatewayConfig
	logger    observability.Logger
	engine    *gin.Engine
	handler   http.Handler
	listener  *Listener
	state     atomic.Int32
	startTime atomic.Int64

	routeHandler   http.Handler
	healthReporter *health.Reporter
	healthChecker  *health.Checker
	middleware     []func(http.Handler) http.Handler

	shutdownTimeout time.Duration
}

// Option is a functional option for configuring the gateway.
type Option func(*Gateway)

// WithLogger sets the logger for the gateway.
func WithLogger(logger observability.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithShutdownTimeout sets the shutdown timeout.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.shutdownTimeout = timeout
	}
}

// WithRouteHandler sets the handler for every request the engine does
// not route itself.
func WithRouteHandler(handler http.Handler) Option {
	return func(g *Gateway) {
		g.routeHandler = handler
	}
}

// WithHealthReporter replaces the reporter built from configuration.
func WithHealthReporter(reporter *health.Reporter) Option {
	return func(g *Gateway) {
		g.healthReporter = reporter
	}
}

// WithHealthChecker registers the gateway readiness check on checker.
func WithHealthChecker(checker *health.Checker) Option {
	return func(g *Gateway) {
		g.healthChecker = checker
	}
}

// WithMiddleware wraps the engine. The first middleware is outermost.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(g *Gateway) {
		g.middleware = append(g.middleware, mw...)
	}
}

// New creates a new Gateway instance.
func New(cfg *config.GatewayConfig, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	g := &Gateway{
		config:          cfg,
		logger:          observability.NopLogger(),
		shutdownTimeout: cfg.GetEffectiveShutdownTimeout(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.healthReporter == nil {
		g.healthReporter = health.NewReporter(cfg.Spec.Health.Path, cfg.HealthMessage())
	}
	if !strings.HasPrefix(g.healthReporter.Path(), "/") {
		return nil, fmt.Errorf("%w: health path must start with '/': %q",
			ErrInvalidConfig, g.healthReporter.Path())
	}

	g.engine = g.newEngine()
	g.handler = g.engine
	for i := len(g.middleware) - 1; i >= 0; i-- {
		g.handler = g.middleware[i](g.handler)
	}

	if g.healthChecker != nil {
		g.healthChecker.RegisterCheck(ReadinessCheckName, g.readinessCheck)
	}

	g.state.Store(int32(StateStopped))

	return g, nil
}

// newEngine builds the gin engine: the health route first, then the
// route handler for everything else.
func (g *Gateway) newEngine() *gin.Engine {
	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false
	engine.HandleMethodNotAllowed = true

	engine.Use(recovery(g.logger))

	reporter := g.healthReporter
	engine.GET(reporter.Path(), func(c *gin.Context) {
		observability.ReportRoute(c.Request.Context(), HealthRouteName)
		reporter.ServeHTTP(c.Writer, c.Request)
	})

	if g.routeHandler != nil {
		route := gin.WrapH(g.routeHandler)
		engine.NoRoute(func(c *gin.Context) {
			route(c)
			// An upstream 404 without a body must not get gin's
			// default 404 text appended.
			c.Writer.WriteHeaderNow()
		})
	} else {
		engine.NoRoute(func(c *gin.Context) {
			writeJSON(c.Writer, http.StatusNotFound, notFoundBody)
		})
	}
	engine.NoMethod(func(c *gin.Context) {
		writeJSON(c.Writer, http.StatusMethodNotAllowed, methodNotAllowedBody)
	})

	return engine
}

// Start binds the listener and starts serving.
func (g *Gateway) Start(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateStopped), int32(StateStarting)) {
		return ErrGatewayNotStopped
	}

	g.logger.Info("starting gateway",
		observability.String("name", g.config.Metadata.Name),
	)

	listener := NewListener(g.config.Spec.Listener, g.handler, WithListenerLogger(g.logger))
	if err := listener.Start(ctx); err != nil {
		g.state.Store(int32(StateStopped))
		return fmt.Errorf("failed to start listener %s: %w", listener.Name(), err)
	}
	g.listener = listener

	g.startTime.Store(time.Now().UnixNano())
	g.state.Store(int32(StateRunning))

	g.logger.Info("gateway started",
		observability.String("name", g.config.Metadata.Name),
		observability.String("address", listener.Address()),
		observability.String("health_path", g.healthReporter.Path()),
	)

	return nil
}

// Stop stops the gateway gracefully. Without a deadline on ctx the
// shutdown timeout applies.
func (g *Gateway) Stop(ctx context.Context) error {
	if !g.state.CompareAndSwap(int32(StateRunning), int32(StateStopping)) {
		return ErrGatewayNotRunning
	}

	g.logger.Info("stopping gateway",
		observability.String("name", g.config.Metadata.Name),
	)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.shutdownTimeout)
		defer cancel()
	}

	err := g.listener.Stop(ctx)
	if err != nil {
		g.logger.Error("failed to stop listener",
			observability.String("name", g.listener.Name()),
			observability.Error(err),
		)
	}

	g.startTime.Store(0)
	g.state.Store(int32(StateStopped))

	g.logger.Info("gateway stopped",
		observability.String("name", g.config.Metadata.Name),
	)

	return err
}

// State returns the current gateway state.
func (g *Gateway) State() State {
	return State(g.state.Load())
}

// IsRunning returns true if the gateway is running.
func (g *Gateway) IsRunning() bool {
	return g.State() == StateRunning
}

// Uptime returns the gateway uptime.
func (g *Gateway) Uptime() time.Duration {
	started := g.startTime.Load()
	if started == 0 {
		return 0
	}
	return time.Since(time.Unix(0, started))
}

// Config returns the configuration.
func (g *Gateway) Config() *config.GatewayConfig {
	return g.config
}

// Engine returns the gin engine.
func (g *Gateway) Engine() *gin.Engine {
	return g.engine
}

// Handler returns the engine wrapped in the configured middleware.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// HealthReporter returns the reporter serving the health route.
func (g *Gateway) HealthReporter() *health.Reporter {
	return g.healthReporter
}

// Address returns the listener address; once running it is the bound
// address, which resolves port 0.
func (g *Gateway) Address() string {
	if g.State() == StateRunning && g.listener != nil {
		return g.listener.Address()
	}
	return NewListener(g.config.Spec.Listener, nil).Address()
}

func (g *Gateway) readinessCheck() health.Check {
	if state := g.State(); state != StateRunning {
		return health.Check{Status: health.StatusUnhealthy, Message: "gateway is " + state.String()}
	}
	return health.Check{Status: health.StatusHealthy}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
