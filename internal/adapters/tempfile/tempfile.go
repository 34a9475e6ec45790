package tempfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"aetherpix/internal/core/domain"
)

// File is a file staged on local disk. It exists until Dispose is called, after which the
// backing path is removed exactly once in the background.
type File struct {
	path    string
	f       *os.File
	size    int64
	remover *Remover
	once    sync.Once
}

var _ domain.StagedFile = (*File)(nil)

// Create creates dir when missing and opens a fresh file named name inside it
func Create(dir, name string, remover *Remover) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create temp dir %s: %w", domain.ErrIO, dir, err)
	}

	path := filepath.Join(dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file %s: %w", domain.ErrIO, path, err)
	}

	return &File{path: path, f: f, remover: remover}, nil
}

// Write appends p to the file
func (t *File) Write(p []byte) (int, error) {
	if t.f == nil {
		return 0, fmt.Errorf("%w: write to sealed temp file %s", domain.ErrIO, t.path)
	}
	n, err := t.f.Write(p)
	t.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("%w: write temp file %s: %w", domain.ErrIO, t.path, err)
	}
	return n, nil
}

// Seal flushes and closes the write handle. The file stays on disk until Dispose.
func (t *File) Seal() error {
	if t.f == nil {
		return nil
	}
	f := t.f
	t.f = nil
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync temp file %s: %w", domain.ErrIO, t.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close temp file %s: %w", domain.ErrIO, t.path, err)
	}
	return nil
}

func (t *File) Path() string { return t.path }

func (t *File) Size() int64 { return t.size }

// Dispose closes any open handle and schedules removal of the backing file.
// Only the first call has an effect.
func (t *File) Dispose() {
	t.once.Do(func() {
		if t.f != nil {
			_ = t.f.Close()
			t.f = nil
		}
		t.remover.Schedule(t.path)
	})
}
