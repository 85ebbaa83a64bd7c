package router

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/imashi/lms-gateway/internal/config"
	"github.com/imashi/lms-gateway/internal/util"
)

// Router is the routing engine. It is read-only after New.
type Router struct {
	routes   []*CompiledRoute
	routeMap map[string]*CompiledRoute
}

// CompiledRoute is a pre-compiled route for efficient matching.
type CompiledRoute struct {
	Name            string
	Config          config.Route
	PathMatcher     PathMatcher
	MethodMatcher   *MethodMatcher
	Upstream        *url.URL
	StripSegments   int
	ConnectTimeout  time.Duration
	ResponseTimeout time.Duration
}

// MatchResult contains the result of a route match.
type MatchResult struct {
	Route *CompiledRoute

	// ForwardPath is the escaped request path after prefix stripping.
	ForwardPath string
}

// New compiles routes in the order given.
func New(routes []config.Route) (*Router, error) {
	r := &Router{
		routes:   make([]*CompiledRoute, 0, len(routes)),
		routeMap: make(map[string]*CompiledRoute, len(routes)),
	}

	for i := range routes {
		route := routes[i]
		if route.Name == "" {
			return nil, util.NewConfigError(fmt.Sprintf("routes[%d].name", i), "route name is required")
		}
		if _, exists := r.routeMap[route.Name]; exists {
			return nil, fmt.Errorf("duplicate route name: %s", route.Name)
		}

		compiled, err := compileRoute(route)
		if err != nil {
			return nil, fmt.Errorf("failed to compile route %s: %w", route.Name, err)
		}

		r.routes = append(r.routes, compiled)
		r.routeMap[route.Name] = compiled
	}

	return r, nil
}

// Match finds the first matching route for a request.
func (r *Router) Match(req *http.Request) (*MatchResult, error) {
	path := req.URL.EscapedPath()
	method := req.Method

	for _, route := range r.routes {
		if !route.MethodMatcher.Match(method) {
			continue
		}
		if !route.PathMatcher.Match(path) {
			continue
		}
		return &MatchResult{
			Route:       route,
			ForwardPath: StripPrefix(path, route.StripSegments),
		}, nil
	}

	return nil, util.NewRouteNotFoundError(method, req.URL.Path)
}

// Route returns the compiled route with the given name.
func (r *Router) Route(name string) (*CompiledRoute, bool) {
	route, ok := r.routeMap[name]
	return route, ok
}

// Routes returns the compiled routes in evaluation order.
func (r *Router) Routes() []*CompiledRoute {
	out := make([]*CompiledRoute, len(r.routes))
	copy(out, r.routes)
	return out
}

func compileRoute(route config.Route) (*CompiledRoute, error) {
	matcher, err := NewPathMatcher(route.Match.Path)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("match.path", "invalid path pattern", err)
	}

	for _, method := range route.Match.Methods {
		if err := util.ValidateHTTPMethod(method); err != nil {
			return nil, util.NewConfigErrorWithCause("match.methods", "invalid method", err)
		}
	}

	if route.Filters.StripPrefix < 0 {
		return nil, util.NewConfigError("filters.stripPrefix", "stripPrefix must be non-negative")
	}

	if err := util.ValidateURL(route.Upstream.URI); err != nil {
		return nil, util.NewConfigErrorWithCause("upstream.uri", "invalid upstream", err)
	}
	upstream, err := url.Parse(route.Upstream.URI)
	if err != nil {
		return nil, util.NewConfigErrorWithCause("upstream.uri", "invalid upstream", err)
	}

	compiled := &CompiledRoute{
		Name:            route.Name,
		Config:          route,
		PathMatcher:     matcher,
		Upstream:        upstream,
		StripSegments:   route.Filters.StripPrefix,
		ConnectTimeout:  route.Upstream.GetEffectiveConnectTimeout(),
		ResponseTimeout: route.Upstream.GetEffectiveResponseTimeout(),
	}
	if len(route.Match.Methods) > 0 {
		compiled.MethodMatcher = NewMethodMatcher(route.Match.Methods)
	}
	return compiled, nil
}
