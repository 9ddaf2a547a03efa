// Package metrics records OpenCensus measurements for watch activity and cache updates, and optionally
// exposes them to Prometheus.
package metrics
