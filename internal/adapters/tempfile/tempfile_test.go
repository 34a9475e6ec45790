package tempfile_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"aetherpix/internal/adapters/tempfile"
	"aetherpix/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDir(t *testing.T) (*tempfile.Dir, *tempfile.Remover) {
	t.Helper()
	remover := tempfile.NewRemover(4, slog.Default())
	t.Cleanup(remover.Close)
	return tempfile.NewDir(filepath.Join(t.TempDir(), "staging"), remover), remover
}

func TestFile_WriteSealDispose(t *testing.T) {
	// Arrange
	dir, _ := newDir(t)

	// Act
	f, err := dir.Create("a.png")
	require.NoError(t, err)
	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Seal())

	// Assert
	assert.Equal(t, int64(5), f.Size())
	content, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	f.Dispose()
	require.Eventually(t, func() bool {
		_, err := os.Stat(f.Path())
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestFile_DisposeWithoutSeal(t *testing.T) {
	// Arrange
	dir, _ := newDir(t)
	f, err := dir.Create("partial.bin")
	require.NoError(t, err)
	_, err = f.Write([]byte("half"))
	require.NoError(t, err)

	// Act
	f.Dispose()

	// Assert
	require.Eventually(t, func() bool {
		_, err := os.Stat(f.Path())
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestFile_DisposeIsIdempotent(t *testing.T) {
	// Arrange
	dir, remover := newDir(t)
	f, err := dir.Create("twice.png")
	require.NoError(t, err)
	require.NoError(t, f.Seal())

	// Act
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.Dispose()
		}()
	}
	wg.Wait()
	remover.Close()

	// Assert
	_, err = os.Stat(f.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFile_WriteAfterSeal(t *testing.T) {
	// Arrange
	dir, _ := newDir(t)
	f, err := dir.Create("sealed.png")
	require.NoError(t, err)
	require.NoError(t, f.Seal())
	defer f.Dispose()

	// Act
	_, err = f.Write([]byte("late"))

	// Assert
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestFile_CreateExistingName(t *testing.T) {
	// Arrange
	dir, _ := newDir(t)
	f, err := dir.Create("same.png")
	require.NoError(t, err)
	defer f.Dispose()

	// Act
	_, err = dir.Create("same.png")

	// Assert
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestRemover_CloseDrainsScheduled(t *testing.T) {
	// Arrange
	root := t.TempDir()
	remover := tempfile.NewRemover(1, slog.Default())
	paths := make([]string, 0, 10)
	for i := range 10 {
		p := filepath.Join(root, string(rune('a'+i)))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
		paths = append(paths, p)
	}

	// Act
	for _, p := range paths {
		remover.Schedule(p)
	}
	remover.Close()

	// Assert
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), p)
	}
}

func TestRemover_ScheduleAfterClose(t *testing.T) {
	// Arrange
	root := t.TempDir()
	remover := tempfile.NewRemover(1, slog.Default())
	remover.Close()
	p := filepath.Join(root, "late")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	// Act
	remover.Schedule(p)

	// Assert
	require.Eventually(t, func() bool {
		_, err := os.Stat(p)
		return os.IsNotExist(err)
	}, time.Second, 10*time.Millisecond)
}

func TestDir_Sweep(t *testing.T) {
	// Arrange
	dir, _ := newDir(t)
	stale, err := dir.Create("stale.png")
	require.NoError(t, err)
	require.NoError(t, stale.Seal())
	fresh, err := dir.Create("fresh.png")
	require.NoError(t, err)
	require.NoError(t, fresh.Seal())
	defer fresh.Dispose()

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale.Path(), old, old))

	// Act
	removed, err := dir.Sweep(context.Background(), time.Hour)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(stale.Path())
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh.Path())
	assert.NoError(t, err)
}

func TestDir_SweepMissingDir(t *testing.T) {
	// Arrange
	remover := tempfile.NewRemover(1, slog.Default())
	defer remover.Close()
	dir := tempfile.NewDir(filepath.Join(t.TempDir(), "missing"), remover)

	// Act
	removed, err := dir.Sweep(context.Background(), time.Hour)

	// Assert
	assert.NoError(t, err)
	assert.Zero(t, removed)
}
