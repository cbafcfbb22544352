// Package cache provides TTL-bounded snapshot storage keyed by identifier.
//
// It provides a generic Store interface with an in-process memory
// implementation and a Redis-backed implementation for multi-instance
// deployments. Reads of expired entries are misses; writes always
// overwrite.
package cache
