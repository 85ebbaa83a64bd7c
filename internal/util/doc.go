// Package util provides shared helpers for the gateway.
//
// # Context Helpers
//
// Request-scoped values carried through the handler chain:
//
//	ctx = util.ContextWithRequestID(ctx, "req-123")
//	requestID := util.RequestIDFromContext(ctx)
//
// # Error Types
//
//   - ConfigError: configuration problems at a field path
//   - RouteNotFoundError: no route matched the request
//   - UpstreamError: the upstream could not be reached
//   - TimeoutError: an operation exceeded its deadline
//
// # HTTP Utilities
//
// StatusCapturingResponseWriter records the status written by a handler:
//
//	w := util.NewStatusCapturingResponseWriter(responseWriter)
//	handler.ServeHTTP(w, r)
//	statusCode := w.StatusCode
package util
