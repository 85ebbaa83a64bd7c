// Package middleware provides the HTTP middleware wrapped around the
// gateway engine.
//
//   - Recovery: panic recovery with stack trace logging
//   - RequestID: X-Request-ID propagation or generation
//   - Logging: one structured line per request
//
// Middleware functions follow the standard Go pattern:
//
//	handler := middleware.Recovery(logger)(
//	    middleware.RequestID()(
//	        middleware.Logging(logger)(yourHandler),
//	    ),
//	)
package middleware
