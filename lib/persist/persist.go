package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"shardkv/lib/engine"
)

// DefaultInterval is the time between two periodic snapshot saves.
const DefaultInterval = 10 * time.Second

// FileName returns the snapshot file name for a server identity.
func FileName(serverID int) string {
	return fmt.Sprintf("kv_store_server%d.json", serverID)
}

// Writer owns the single snapshot file of one server. It loads the file at
// startup and rewrites it wholesale on a fixed interval. Both directions are
// best-effort: failures are logged by the caller and never stop the server.
type Writer struct {
	path     string
	engine   *engine.Engine
	interval time.Duration
	log      *zap.SugaredLogger
}

// NewWriter creates a writer for the given server identity. The snapshot
// lives at <dir>/kv_store_server<id>.json. A non-positive interval falls
// back to DefaultInterval.
func NewWriter(dir string, serverID int, eng *engine.Engine, interval time.Duration, log *zap.SugaredLogger) *Writer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Writer{
		path:     filepath.Join(dir, FileName(serverID)),
		engine:   eng,
		interval: interval,
		log:      log,
	}
}

// Path returns the snapshot file path.
func (w *Writer) Path() string {
	return w.path
}

// Load reads the snapshot file into the engine and scrubs entries whose
// deadline has already passed. A missing file is not an error: the server
// starts with empty state. Load must complete before the server accepts
// connections.
func (w *Writer) Load() error {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		w.log.Infow("no snapshot file found, starting fresh", "path", w.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap engine.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", w.path, err)
	}

	scrubbed := w.engine.Restore(snap)
	total, _ := w.engine.Counts()
	w.log.Infow("loaded snapshot", "path", w.path, "keys", total, "scrubbed", scrubbed)
	return nil
}

// Save serializes the full engine state and replaces the snapshot file.
// The state is copied under the engine's lock; disk I/O happens outside it.
// The write goes to a temporary file first and is renamed into place so a
// crash mid-write cannot leave a corrupt snapshot behind.
func (w *Writer) Save() error {
	snap := w.engine.Export()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w", err)
	}

	w.log.Debugw("saved snapshot", "path", w.path, "keys", len(snap.Store))
	return nil
}

// Run saves on the configured interval until the context is cancelled.
// Save errors are logged and do not stop the loop. The final shutdown save
// is the server's responsibility, not Run's.
func (w *Writer) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Save(); err != nil {
				w.log.Errorw("failed to save snapshot", "error", err)
			}
		case <-ctx.Done():
			w.log.Debug("persistence writer stopped")
			return
		}
	}
}
