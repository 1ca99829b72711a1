// Package feedback persists analyst verdicts to a durable append-only log.
//
// The log is a delimited-text file: a header row is written once, lazily,
// when the file is first created; rows are never rewritten or deleted.
package feedback

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fraudtriage/internal/domain/model"
	"fraudtriage/pkg/metrics"
)

const defaultFileMode = 0o600

// Recorder appends analyst verdicts to durable storage.
type Recorder interface {
	// Append writes one record. An error means nothing durable happened
	// and the caller must not treat the alert as resolved.
	Append(ctx context.Context, rec model.FeedbackRecord) error

	// Count returns the number of records in the log (header excluded).
	Count(ctx context.Context) (int, error)
}

// CSVRecorder implements Recorder on a local CSV file. The file is opened
// per append so a crashed process never holds the log hostage; O_APPEND
// makes each row write atomic at the OS level for our row sizes.
type CSVRecorder struct {
	mu       sync.Mutex
	path     string
	fileMode os.FileMode
}

// NewCSVRecorder creates a recorder that appends to the file at path. The
// file is not created until the first append.
func NewCSVRecorder(path string, opts ...Option) *CSVRecorder {
	r := &CSVRecorder{
		path:     path,
		fileMode: defaultFileMode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Append writes one feedback row, creating the file with a header first if
// it does not exist yet.
func (r *CSVRecorder) Append(ctx context.Context, rec model.FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("append cancelled: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	needHeader, err := r.needsHeader()
	if err != nil {
		metrics.RecordFeedbackFailure()
		return err
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			metrics.RecordFeedbackFailure()
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, r.fileMode)
	if err != nil {
		metrics.RecordFeedbackFailure()
		return fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(model.FeedbackHeader()); err != nil {
			metrics.RecordFeedbackFailure()
			return fmt.Errorf("write feedback header: %w", err)
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		metrics.RecordFeedbackFailure()
		return fmt.Errorf("write feedback row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		metrics.RecordFeedbackFailure()
		return fmt.Errorf("flush feedback log: %w", err)
	}

	metrics.RecordFeedbackRecorded()
	return nil
}

// Count reads the log back and returns the number of data rows.
func (r *CSVRecorder) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("count cancelled: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read feedback log: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows) - 1, nil
}

// needsHeader reports whether the file is absent or empty.
func (r *CSVRecorder) needsHeader() (bool, error) {
	info, err := os.Stat(r.path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat feedback log: %w", err)
	}
	return info.Size() == 0, nil
}
