package stats

import (
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Counter Names
// --------------------------------------------------------------------------

const (
	totalRequests  = "total_requests"
	getRequests    = "get_requests"
	setRequests    = "set_requests"
	deleteRequests = "delete_requests"
	expireRequests = "expire_requests"
)

// --------------------------------------------------------------------------
// Counters Snapshot
// --------------------------------------------------------------------------

// Counters is a point-in-time copy of all request counters.
// The json field names match the on-disk snapshot format.
type Counters struct {
	TotalRequests  uint64 `json:"total_requests"`
	GetRequests    uint64 `json:"get_requests"`
	SetRequests    uint64 `json:"set_requests"`
	DeleteRequests uint64 `json:"delete_requests"`
	ExpireRequests uint64 `json:"expire_requests"`
}

// --------------------------------------------------------------------------
// Registry
// --------------------------------------------------------------------------

// Registry holds the per-server request counters: one total counter and
// one counter per store command. Counters are monotonically increasing for
// the lifetime of the server and survive restarts via Snapshot/Restore.
//
// The registry synchronizes independently of the store engine's lock, so a
// counter increment is not atomic with respect to the store mutation it
// accounts for. Under concurrent load the counters are an approximation of
// store activity, not a transactional log.
type Registry struct {
	set    *metrics.Set
	total  *metrics.Counter
	get    *metrics.Counter
	upsert *metrics.Counter
	delete *metrics.Counter
	expire *metrics.Counter
}

// NewRegistry creates a registry with all counters at zero.
func NewRegistry() *Registry {
	s := metrics.NewSet()
	return &Registry{
		set:    s,
		total:  s.NewCounter(totalRequests),
		get:    s.NewCounter(getRequests),
		upsert: s.NewCounter(setRequests),
		delete: s.NewCounter(deleteRequests),
		expire: s.NewCounter(expireRequests),
	}
}

// RecordRequest increments the total request counter. It is called once per
// decoded request, regardless of the command.
func (r *Registry) RecordRequest() {
	r.total.Inc()
}

// RecordGet increments the GET counter.
func (r *Registry) RecordGet() { r.get.Inc() }

// RecordSet increments the SET counter.
func (r *Registry) RecordSet() { r.upsert.Inc() }

// RecordDelete increments the DELETE counter.
func (r *Registry) RecordDelete() { r.delete.Inc() }

// RecordExpire increments the EXPIRE counter.
func (r *Registry) RecordExpire() { r.expire.Inc() }

// Snapshot returns a copy of all counters as of the call.
func (r *Registry) Snapshot() Counters {
	return Counters{
		TotalRequests:  r.total.Get(),
		GetRequests:    r.get.Get(),
		SetRequests:    r.upsert.Get(),
		DeleteRequests: r.delete.Get(),
		ExpireRequests: r.expire.Get(),
	}
}

// Restore overwrites all counters with the values from a snapshot.
// It is called once at startup, before the server accepts connections.
func (r *Registry) Restore(c Counters) {
	r.total.Set(c.TotalRequests)
	r.get.Set(c.GetRequests)
	r.upsert.Set(c.SetRequests)
	r.delete.Set(c.DeleteRequests)
	r.expire.Set(c.ExpireRequests)
}
