package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_StartsAtZero(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, Counters{}, r.Snapshot())
}

func TestRegistry_Record(t *testing.T) {
	r := NewRegistry()

	r.RecordRequest()
	r.RecordRequest()
	r.RecordRequest()
	r.RecordGet()
	r.RecordSet()
	r.RecordSet()
	r.RecordDelete()
	r.RecordExpire()

	snap := r.Snapshot()
	assert.Equal(t, uint64(3), snap.TotalRequests)
	assert.Equal(t, uint64(1), snap.GetRequests)
	assert.Equal(t, uint64(2), snap.SetRequests)
	assert.Equal(t, uint64(1), snap.DeleteRequests)
	assert.Equal(t, uint64(1), snap.ExpireRequests)
}

func TestRegistry_RestoreThenRecord(t *testing.T) {
	r := NewRegistry()

	r.Restore(Counters{
		TotalRequests:  100,
		GetRequests:    40,
		SetRequests:    30,
		DeleteRequests: 20,
		ExpireRequests: 10,
	})

	// counters continue from the restored values
	r.RecordRequest()
	r.RecordGet()

	snap := r.Snapshot()
	assert.Equal(t, uint64(101), snap.TotalRequests)
	assert.Equal(t, uint64(41), snap.GetRequests)
	assert.Equal(t, uint64(30), snap.SetRequests)
}

func TestRegistry_ConcurrentIncrements(t *testing.T) {
	r := NewRegistry()

	const workers = 8
	const perWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.RecordRequest()
				r.RecordGet()
			}
		}()
	}
	wg.Wait()

	snap := r.Snapshot()
	assert.Equal(t, uint64(workers*perWorker), snap.TotalRequests)
	assert.Equal(t, uint64(workers*perWorker), snap.GetRequests)
}
