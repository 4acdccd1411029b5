package report

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hupe1980/autopsy/core"
)

// FileReporter appends payloads to a file, one newline terminated JSON
// document per report. It is safe for concurrent use.
type FileReporter struct {
	path string
	mu   sync.Mutex
}

// NewFileReporter returns a reporter appending to path.
func NewFileReporter(path string) *FileReporter {
	return &FileReporter{path: path}
}

// Path returns the file the reporter appends to.
func (r *FileReporter) Path() string { return r.path }

// Report encodes p and appends it to the file, creating the file (and its
// parent directories) if needed.
func (r *FileReporter) Report(ctx context.Context, p *core.Payload) error {
	if r.path == "" {
		return ErrNoPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(p)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := EnsureFile(r.path); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open report file: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("append report: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync report: %w", err)
	}
	return f.Close()
}

// EnsureFile creates an empty file at path if nothing exists there yet.
func EnsureFile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat report file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	return f.Close()
}

// Decode reads every report document appended to r.
func Decode(r io.Reader) ([]map[string]any, error) {
	dec := json.NewDecoder(bufio.NewReader(r))
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return docs, fmt.Errorf("decode report: %w", err)
		}
		docs = append(docs, doc)
	}
}

// ReadFile decodes every report document appended to the file at path.
func ReadFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
