package tempfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"aetherpix/internal/core/port"
)

// Dir is the staging directory where every request and job stages its files
type Dir struct {
	path    string
	remover *Remover
}

// NewDir returns a staging directory backed by remover
func NewDir(path string, remover *Remover) *Dir {
	return &Dir{path: path, remover: remover}
}

// Create creates a scoped file inside the staging directory
func (d *Dir) Create(name string) (*File, error) {
	return Create(d.path, name, d.remover)
}

func (d *Dir) Path() string { return d.path }

// Sweep removes regular files older than olderThan, left behind by a process that
// terminated before its files were disposed. It returns the number of removed files.
func (d *Dir) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read temp dir: %w", err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(d.path, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove stale temp file: %w", err)
		}
		removed++
	}
	return removed, nil
}

var (
	_ port.StagingArea    = (*Dir)(nil)
	_ port.StagingSweeper = (*Dir)(nil)
)

// Stage is Create behind the port.StagingArea interface
func (d *Dir) Stage(name string) (port.StagedWriter, error) {
	f, err := d.Create(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}
