package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestFileWatcher_ReportsSettledChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "filters.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	changed := make(chan string, 4)
	fw, err := NewFileWatcher(path, 50*time.Millisecond, func(_ context.Context, p string) {
		changed <- p
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, fw.Start(ctx))

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"maxResults": "5"}`), 0o600))
	}

	select {
	case p := <-changed:
		assert.Equal(t, fw.Path(), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	fw.Stop()
	stats := fw.Stats()
	assert.Equal(t, 1, stats.Changes, "rapid writes are debounced into one change")
	assert.GreaterOrEqual(t, stats.Events, 1)
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "x.json"), 0, func(context.Context, string) {})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, fw.debounceDur)
	fw.Stop()
}

func TestFileWatcher_StopAfterFailedStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	missing := filepath.Join(t.TempDir(), "missing", "filters.json")
	fw, err := NewFileWatcher(missing, 0, func(context.Context, string) {})
	require.NoError(t, err)
	require.Error(t, fw.Start(context.Background()))

	stopped := make(chan struct{})
	go func() {
		fw.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked after Start failed")
	}
}
