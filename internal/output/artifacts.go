package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// TimestampLayout names every artifact of one run.
	TimestampLayout = "20060102_150405"

	lockFileName   = ".burstbench.lock"
	lockRetryDelay = 50 * time.Millisecond
)

// Artifacts writes the result files of a run into one directory.
type Artifacts struct {
	Dir string
	// LockTimeout bounds the wait for another run holding the directory lock.
	LockTimeout time.Duration
}

// Paths are the files written for one run.
type Paths struct {
	Results              string
	SequentialTranscript string
	ConcurrentTranscript string
	Diagnostic           string
}

// List returns the paths with the results document first.
func (p Paths) List() []string {
	return []string{p.Results, p.SequentialTranscript, p.ConcurrentTranscript, p.Diagnostic}
}

// PathsFor returns the artifact names for a run started at t.
func PathsFor(dir string, t time.Time) Paths {
	ts := t.Format(TimestampLayout)
	return Paths{
		Results:              filepath.Join(dir, "test_results_"+ts+".json"),
		SequentialTranscript: filepath.Join(dir, "responses_sequential_"+ts+".txt"),
		ConcurrentTranscript: filepath.Join(dir, "responses_concurrent_"+ts+".txt"),
		Diagnostic:           filepath.Join(dir, "diagnostic_report_"+ts+".txt"),
	}
}

// Write persists doc and its transcripts. The directory lock is held for the
// whole write so runs sharing a directory never interleave.
func (a Artifacts) Write(ctx context.Context, startedAt time.Time, doc Document) (Paths, error) {
	dir := a.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	lockCtx := ctx
	if a.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, a.LockTimeout)
		defer cancel()
	}
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return Paths{}, fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return Paths{}, fmt.Errorf("lock output dir: %s is held by another run", lock.Path())
	}
	defer lock.Unlock()

	paths := PathsFor(dir, startedAt)
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{paths.Results, func(w io.Writer) error { return WriteJSON(w, doc) }},
		{paths.SequentialTranscript, func(w io.Writer) error { return WriteTranscript(w, doc.Sequential) }},
		{paths.ConcurrentTranscript, func(w io.Writer) error { return WriteTranscript(w, doc.Concurrent) }},
		{paths.Diagnostic, func(w io.Writer) error { return WriteDiagnostic(w, doc) }},
	}
	for _, item := range writers {
		var buf bytes.Buffer
		if err := item.write(&buf); err != nil {
			return Paths{}, fmt.Errorf("render %s: %w", filepath.Base(item.path), err)
		}
		if err := writeFileAtomic(item.path, buf.Bytes()); err != nil {
			return Paths{}, err
		}
	}
	return paths, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
