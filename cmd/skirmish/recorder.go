package skirmish

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skyforge/combat-simulations/pkg/combat"
)

// replayRecorder streams world snapshots to a JSONL file, one
// snapshot per line, so replays can be tailed while a run is live.
type replayRecorder struct {
	file *os.File
	w    *bufio.Writer
	enc  *json.Encoder
	path string
}

// newReplayRecorder creates the replay directory if needed and opens
// one file per episode.
func newReplayRecorder(dir, runID string, episode int) (*replayRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create replay directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("skirmish_%s_ep%03d.jsonl", runID, episode))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay file: %w", err)
	}

	w := bufio.NewWriter(file)
	return &replayRecorder{
		file: file,
		w:    w,
		enc:  json.NewEncoder(w),
		path: path,
	}, nil
}

// Record appends one snapshot as a JSON line.
func (r *replayRecorder) Record(snap combat.Snapshot) error {
	if err := r.enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close flushes and closes the replay file.
func (r *replayRecorder) Close() error {
	if err := r.w.Flush(); err != nil {
		_ = r.file.Close()
		return fmt.Errorf("failed to flush replay file: %w", err)
	}
	return r.file.Close()
}

// Path returns the file the recorder is writing to.
func (r *replayRecorder) Path() string {
	return r.path
}
