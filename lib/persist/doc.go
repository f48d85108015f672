// Package persist reads and writes the per-server snapshot file: a single
// JSON document holding the store, the expiration deadlines and the request
// counters. Each server owns exactly one file, keyed by its identity;
// nothing is shared or locked across processes.
package persist
