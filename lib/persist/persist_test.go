package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shardkv/lib/engine"
	"shardkv/lib/stats"
)

func newTestWriter(t *testing.T) (*Writer, *engine.Engine) {
	t.Helper()
	eng := engine.New(stats.NewRegistry())
	w := NewWriter(t.TempDir(), 1, eng, time.Second, zap.NewNop().Sugar())
	return w, eng
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "kv_store_server1.json", FileName(1))
	assert.Equal(t, "kv_store_server42.json", FileName(42))
}

func TestWriter_SaveLoadRoundTrip(t *testing.T) {
	w, eng := newTestWriter(t)

	eng.Set("a", "1")
	eng.Set("b", "2")
	require.True(t, eng.Expire("b", 3600))
	eng.Counters().RecordRequest()
	eng.Counters().RecordSet()

	require.NoError(t, w.Save())

	// load into a fresh engine backed by the same file
	restored := engine.New(stats.NewRegistry())
	r := &Writer{path: w.Path(), engine: restored, interval: time.Second, log: zap.NewNop().Sugar()}
	require.NoError(t, r.Load())

	value, _, out := restored.Get("a")
	assert.Equal(t, "1", value)
	assert.Equal(t, engine.OutcomeFound, out)

	_, ttl, out := restored.Get("b")
	assert.Equal(t, engine.OutcomeFound, out)
	assert.Greater(t, ttl, int64(0))

	snap := restored.Counters().Snapshot()
	assert.Equal(t, uint64(1), snap.TotalRequests)
	assert.Equal(t, uint64(1), snap.SetRequests)
}

func TestWriter_LoadMissingFileStartsFresh(t *testing.T) {
	w, eng := newTestWriter(t)

	require.NoError(t, w.Load())

	total, _ := eng.Counts()
	assert.Equal(t, 0, total)
}

func TestWriter_LoadCorruptFile(t *testing.T) {
	w, _ := newTestWriter(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(w.Path()), 0o755))
	require.NoError(t, os.WriteFile(w.Path(), []byte("{not json"), 0o644))

	assert.Error(t, w.Load())
}

func TestWriter_LoadScrubsExpiredEntries(t *testing.T) {
	w, eng := newTestWriter(t)

	snap := engine.Snapshot{
		Store: map[string]string{
			"live": "v",
			"dead": "v",
		},
		Expirations: map[string]float64{
			"dead": float64(time.Now().Add(-time.Hour).Unix()),
		},
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(w.Path()), 0o755))
	require.NoError(t, os.WriteFile(w.Path(), data, 0o644))

	require.NoError(t, w.Load())

	total, _ := eng.Counts()
	assert.Equal(t, 1, total)

	_, _, out := eng.Get("dead")
	assert.Equal(t, engine.OutcomeMissing, out)
}

func TestWriter_SaveCreatesDataDir(t *testing.T) {
	eng := engine.New(stats.NewRegistry())
	dir := filepath.Join(t.TempDir(), "nested", "data")
	w := NewWriter(dir, 2, eng, time.Second, zap.NewNop().Sugar())

	eng.Set("k", "v")
	require.NoError(t, w.Save())

	_, err := os.Stat(filepath.Join(dir, FileName(2)))
	assert.NoError(t, err)
}

func TestWriter_SaveLeavesNoTempFile(t *testing.T) {
	w, eng := newTestWriter(t)

	eng.Set("k", "v")
	require.NoError(t, w.Save())

	_, err := os.Stat(w.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_SaveOverwritesPreviousSnapshot(t *testing.T) {
	w, eng := newTestWriter(t)

	eng.Set("k", "v1")
	require.NoError(t, w.Save())

	eng.Set("k", "v2")
	eng.Set("extra", "x")
	require.NoError(t, w.Save())

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)

	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "v2", snap.Store["k"])
	assert.Len(t, snap.Store, 2)
}
