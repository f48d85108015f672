// Package server implements one server process of the distributed store:
// the TCP accept loop, the per-connection request handler and the wiring of
// engine, reaper and persistence writer into a single lifecycle.
//
// Concurrency model: one goroutine per accepted connection, no admission
// control. The engine serializes store access behind its own lock; the
// request counters synchronize independently, so counter values are an
// approximation of store activity under concurrent load.
package server
