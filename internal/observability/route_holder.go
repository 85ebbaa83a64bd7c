package observability

import (
	"context"
)

// routeHolder lets an inner handler report the matched route back to
// outer middleware, which only sees its own copy of the request.
type routeHolder struct {
	name string
}

type routeHolderKey struct{}

// WithRouteTracking returns a context able to carry the matched route
// back out of the handler chain. An existing holder is reused so that
// stacked middleware share one slot.
func WithRouteTracking(ctx context.Context) context.Context {
	if _, ok := ctx.Value(routeHolderKey{}).(*routeHolder); ok {
		return ctx
	}
	return context.WithValue(ctx, routeHolderKey{}, &routeHolder{})
}

// ReportRoute records the matched route name for the enclosing
// middleware. It is a no-op without WithRouteTracking.
func ReportRoute(ctx context.Context, route string) {
	if h, ok := ctx.Value(routeHolderKey{}).(*routeHolder); ok {
		h.name = route
	}
}

// ReportedRoute returns the route recorded via ReportRoute.
func ReportedRoute(ctx context.Context) string {
	if h, ok := ctx.Value(routeHolderKey{}).(*routeHolder); ok {
		return h.name
	}
	return ""
}
