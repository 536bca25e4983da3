// Telemetry: records every completed call as JSONL.
//
// DESIGN: One JSON object per line, appended immediately after each call so
// external consumers can tail the file during a run. Each line carries the
// run id, so files surviving several runs stay attributable.
package monitoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// Tracker appends execution records to a JSONL file.
type Tracker struct {
	path  string
	runID string
	log   zerolog.Logger
	mu    sync.Mutex
}

// NewTracker creates a tracker writing to path. The parent directory is
// created and an empty file ensured, so a consumer can tail it before the
// first call completes.
func NewTracker(path, runID string, log zerolog.Logger) (*Tracker, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		f.Close()
	}
	return &Tracker{path: path, runID: runID, log: log}, nil
}

// Record appends one execution record. Intended as a collector subscriber;
// write failures are logged, never surfaced into the call path.
func (t *Tracker) Record(r intercept.ExecutionResult) {
	data, err := json.Marshal(r)
	if err == nil {
		data, err = sjson.SetBytes(data, "run_id", t.runID)
	}
	if err != nil {
		t.log.Error().Err(err).Msg("failed to serialize telemetry record")
		return
	}
	data = append(data, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	f, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		t.log.Error().Err(err).Msg("failed to open telemetry file")
		return
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.log.Error().Err(err).Msg("failed to write telemetry record")
	}
}
