// Package metrics wires the process metrics exposed on GET /metrics.
//
// Collectors are registered on a prometheus/client_golang registry and
// served by promhttp in the Prometheus text exposition format. Two
// producers feed it:
//
//	HTTP.Instrument  per-route request count and latency histogram, via httpsnoop
//	Store            per-operation outcome count around a store.Repository
//
// NewRegistry also registers the Go runtime and process collectors.
package metrics
