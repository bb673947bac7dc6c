// Package observability provides structured logging and Prometheus metrics
// for the review generator.
//
// Metrics are package-level collectors registered with the default registry
// and exposed by promhttp at /metrics. Logging wraps zap and adds request and
// session identifiers carried in the request context.
package observability
