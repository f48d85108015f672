// Package stats tracks request counters for a single server instance.
//
// Counters are backed by the VictoriaMetrics metrics package and are safe
// for concurrent use. They are persisted as part of the server snapshot and
// restored on startup, so a restart does not reset them; only a fresh or
// missing snapshot file starts the counters at zero.
package stats
