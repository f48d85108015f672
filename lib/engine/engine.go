package engine

import (
	"sync"
	"time"

	"shardkv/lib/stats"
)

// NoTTL is the TTL reported for keys without an expiration deadline.
const NoTTL int64 = -1

// --------------------------------------------------------------------------
// Outcome
// --------------------------------------------------------------------------

// Outcome classifies the result of a read-path operation.
//
// OutcomeMissing and OutcomeExpired are both reported to clients as a
// "no value" status, but they stay distinct here: an expired key was
// removed by this very call (lazy expiry), a missing key never existed
// or was removed earlier.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeMissing
	OutcomeExpired
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeMissing:
		return "missing"
	case OutcomeExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Snapshot
// --------------------------------------------------------------------------

// Snapshot is the full serializable state of one engine: the key/value map,
// the expiration deadlines (absolute unix seconds, fractional) and the
// request counters. The json field names are the on-disk snapshot format.
type Snapshot struct {
	Store       map[string]string  `json:"store"`
	Expirations map[string]float64 `json:"expirations"`
	Stats       stats.Counters     `json:"stats"`
}

// --------------------------------------------------------------------------
// Engine
// --------------------------------------------------------------------------

// Engine is the single owner of the mutable store state.
//
// Locking discipline: store and expirations are only ever read or written
// while holding mu, and always mutated together, so every key present in
// expirations is also present in store. Read-check-mutate sequences (lazy
// expiry on Get, the reaper sweep) run entirely inside one critical
// section. The counters registry synchronizes independently; see the stats
// package for the consistency consequence.
//
// TTL checks use wall-clock time. A key whose deadline equals the current
// instant is still live; expiry requires the clock to move strictly past
// the deadline.
type Engine struct {
	mu          sync.Mutex
	store       map[string]string
	expirations map[string]float64
	counters    *stats.Registry
}

// New creates an empty engine sharing the given counters registry.
func New(counters *stats.Registry) *Engine {
	return &Engine{
		store:       make(map[string]string),
		expirations: make(map[string]float64),
		counters:    counters,
	}
}

// Counters returns the registry shared with this engine.
func (e *Engine) Counters() *stats.Registry {
	return e.counters
}

// --------------------------------------------------------------------------
// Operations
// --------------------------------------------------------------------------

// Get returns the value and remaining TTL for a key.
//
// If the key is present but past its deadline, it is removed from both maps
// and OutcomeExpired is returned. TTL is the remaining whole seconds
// (floored, never negative); NoTTL means the key has no deadline.
func (e *Engine) Get(key string) (value string, ttl int64, out Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, ok := e.store[key]
	if !ok {
		return "", NoTTL, OutcomeMissing
	}

	now := unixNow()
	if deadline, hasTTL := e.expirations[key]; hasTTL {
		if now > deadline {
			delete(e.store, key)
			delete(e.expirations, key)
			return "", NoTTL, OutcomeExpired
		}
		remaining := int64(deadline - now)
		if remaining < 0 {
			remaining = 0
		}
		return value, remaining, OutcomeFound
	}

	return value, NoTTL, OutcomeFound
}

// Set inserts or updates a key. A write always clears any existing
// expiration deadline for that key.
func (e *Engine) Set(key, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store[key] = value
	delete(e.expirations, key)
}

// Delete removes a key and its deadline. It reports whether the key existed.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store[key]; !ok {
		return false
	}
	delete(e.store, key)
	delete(e.expirations, key)
	return true
}

// Expire sets the deadline for an existing key to now + seconds. It reports
// whether the key exists. Zero or negative seconds are accepted and leave
// the key already expired; the next Get or reaper pass removes it.
func (e *Engine) Expire(key string, seconds int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store[key]; !ok {
		return false
	}
	e.expirations[key] = unixNow() + float64(seconds)
	return true
}

// Keys returns a snapshot of all present keys. Iteration order is the map's
// and is not stable across calls.
func (e *Engine) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	keys := make([]string, 0, len(e.store))
	for k := range e.store {
		keys = append(keys, k)
	}
	return keys
}

// Counts returns the current store size and the number of keys carrying a
// deadline, as of the call.
func (e *Engine) Counts() (totalKeys, keysWithTTL int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.store), len(e.expirations)
}

// RemoveExpired removes every key whose deadline has passed, in one critical
// section, and returns the number of removed keys. It is the primitive used
// by the background reaper and by the startup scrub.
func (e *Engine) RemoveExpired() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.removeExpiredLocked()
}

// removeExpiredLocked must be called with mu held.
func (e *Engine) removeExpiredLocked() int {
	now := unixNow()
	removed := 0
	for key, deadline := range e.expirations {
		if now > deadline {
			delete(e.store, key)
			delete(e.expirations, key)
			removed++
		}
	}
	return removed
}

// --------------------------------------------------------------------------
// Snapshot Export / Restore
// --------------------------------------------------------------------------

// Export copies the full engine state under the lock. The counters are read
// outside the store's critical section; they are an approximation by design.
func (e *Engine) Export() Snapshot {
	e.mu.Lock()
	store := make(map[string]string, len(e.store))
	for k, v := range e.store {
		store[k] = v
	}
	expirations := make(map[string]float64, len(e.expirations))
	for k, v := range e.expirations {
		expirations[k] = v
	}
	e.mu.Unlock()

	return Snapshot{
		Store:       store,
		Expirations: expirations,
		Stats:       e.counters.Snapshot(),
	}
}

// Restore replaces the engine state with a snapshot, scrubs entries whose
// deadline has already passed and returns the scrub count. Deadlines without
// a backing key are dropped to re-establish the map invariant.
func (e *Engine) Restore(snap Snapshot) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store = make(map[string]string, len(snap.Store))
	for k, v := range snap.Store {
		e.store[k] = v
	}
	e.expirations = make(map[string]float64, len(snap.Expirations))
	for k, v := range snap.Expirations {
		if _, ok := e.store[k]; ok {
			e.expirations[k] = v
		}
	}
	e.counters.Restore(snap.Stats)

	return e.removeExpiredLocked()
}

// unixNow returns the current wall-clock time as fractional unix seconds,
// the unit used for deadlines in snapshots.
func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
