// Package observe provides observability primitives for connection probes.
//
// It is a pure instrumentation library: no probing, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the health
// monitor or HTTP handlers.
package observe
