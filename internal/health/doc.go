// Package health provides the gateway health endpoint and the
// liveness and readiness endpoints served next to metrics.
//
// Reporter answers the public health route with a fixed plain-text
// status line. Checker aggregates named checks into liveness and
// readiness responses for orchestrators.
package health
