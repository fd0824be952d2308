package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Recorder appends entries to the history file of a data dir.
type Recorder struct {
	path     string
	lockPath string
	now      func() time.Time
}

// NewRecorder creates a Recorder that writes to the history file in dataDir.
func NewRecorder(dataDir string) *Recorder {
	return &Recorder{
		path:     Path(dataDir),
		lockPath: LockPath(dataDir),
		now:      time.Now,
	}
}

// Path returns the history file the recorder appends to.
func (r *Recorder) Path() string { return r.path }

// Record appends e as one NDJSON line. ID and Timestamp are filled in when
// empty. The append happens under an exclusive file lock so several
// keycount processes can share one data dir.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp == "" {
		e.Timestamp = r.now().UTC().Format(time.RFC3339)
	}

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("history: marshal entry: %w", err)
	}
	line = append(line, '\n')

	lock, err := os.OpenFile(r.lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		// Proceed without locking rather than failing the caller.
		return r.appendLine(line)
	}
	defer lock.Close()

	if err := lockFile(lock); err != nil {
		return r.appendLine(line)
	}
	defer func() { _ = unlockFile(lock) }()

	return r.appendLine(line)
}

func (r *Recorder) appendLine(line []byte) error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history: open file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("history: write: %w", err)
	}
	return nil
}
