package reaper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeStore counts sweeps and returns a fixed removal count.
type fakeStore struct {
	sweeps  atomic.Int64
	removed int
}

func (f *fakeStore) RemoveExpired() int {
	f.sweeps.Add(1)
	return f.removed
}

func TestReaper_SweepsOnInterval(t *testing.T) {
	store := &fakeStore{removed: 2}
	r := New(store, 10*time.Millisecond, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return store.sweeps.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop after context cancel")
	}
}

func TestReaper_StopsBeforeFirstTick(t *testing.T) {
	store := &fakeStore{}
	r := New(store, time.Hour, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
	assert.Equal(t, int64(0), store.sweeps.Load())
}

func TestNew_IntervalFallback(t *testing.T) {
	r := New(&fakeStore{}, 0, zap.NewNop().Sugar())
	assert.Equal(t, DefaultInterval, r.interval)

	r = New(&fakeStore{}, -time.Second, zap.NewNop().Sugar())
	assert.Equal(t, DefaultInterval, r.interval)
}
