package tempfile

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// Remover deletes staged files on a background goroutine so that disposing a file
// never blocks the caller on the filesystem.
type Remover struct {
	paths  chan string
	logger *slog.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewRemover starts a background removal task with a buffer of pending paths
func NewRemover(buffer int, logger *slog.Logger) *Remover {
	if buffer <= 0 {
		buffer = 64
	}
	r := &Remover{
		paths:  make(chan string, buffer),
		logger: logger,
	}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Remover) run() {
	defer r.wg.Done()
	for path := range r.paths {
		r.remove(path)
	}
}

// Schedule queues path for removal. When the buffer is full the removal happens on a
// dedicated goroutine, and after Close it happens inline.
func (r *Remover) Schedule(path string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.remove(path)
		return
	}

	select {
	case r.paths <- path:
	default:
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.remove(path)
		}()
	}
}

// Close stops intake and waits for every scheduled removal
func (r *Remover) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.paths)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Remover) remove(path string) {
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return
	}
	r.logger.Warn("failed to clean up temp file", "path", path, "error", err)
}
