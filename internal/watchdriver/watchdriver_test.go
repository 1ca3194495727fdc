package watchdriver

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndClose(t *testing.T) {
	dir := t.TempDir()
	d, err := New([]string{dir}, 10*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, d.Close())
}

func TestNewRejectsMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "does-not-exist")}, 10*time.Millisecond)
	assert.Error(t, err)
}

func TestRunDebouncesBurstIntoSingleResync(t *testing.T) {
	dir := t.TempDir()
	d, err := New([]string{dir}, 30*time.Millisecond)
	require.NoError(t, err)
	defer d.Close()

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, func() error {
			n := atomic.AddInt32(&calls, 1)
			if n == 1 {
				cancel()
			}
			return nil
		})
	}()

	path := filepath.Join(dir, "a.txt")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunPropagatesResyncError(t *testing.T) {
	dir := t.TempDir()
	d, err := New([]string{dir}, 10*time.Millisecond)
	require.NoError(t, err)
	defer d.Close()

	boom := assert.AnError
	done := make(chan error, 1)
	go func() {
		done <- d.Run(context.Background(), func() error { return boom })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return the resync error")
	}
}
