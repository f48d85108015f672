// Package engine implements the in-memory key-value store owned by a single
// server instance: the key/value map, the per-key expiration deadlines and
// the wiring to the request counters.
//
// All state lives behind one mutex so that read-check-mutate sequences -
// lazy expiry during Get, the reaper sweep, snapshot export - are atomic
// with respect to each other. Individual operations are atomic; no
// cross-operation atomicity is provided.
package engine
