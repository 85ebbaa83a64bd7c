// Package proxy forwards matched requests to their upstream.
//
// ReverseProxy asks the router for the route of each request, strips
// the configured number of leading path segments and hands it to a
// per-route httputil.ReverseProxy built at construction time. Method,
// headers, body and query are forwarded as received; the upstream
// response is relayed unmodified.
//
// Failures are answered by the gateway itself:
//
//	no matching route       404 {"error":"not found","message":"no matching route"}
//	upstream unreachable    502 {"error":"bad gateway","message":"upstream unavailable"}
//	response timeout        504 {"error":"gateway timeout","message":"upstream did not respond in time"}
//
// Each request is attempted exactly once.
package proxy
