// Package watchdriver is a minimal example of the external watch driver
// spec.md §5 describes: one background file-notification thread posts
// events onto an in-memory channel; the caller's goroutine drains,
// debounces, and re-runs a sync operation as a single serial step. It is
// never invoked by tangle/stitch/sync themselves — those stay
// single-threaded, per spec.md §5.
package watchdriver

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Driver watches a set of directories and calls Resync, debounced, once
// events settle.
type Driver struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New creates a driver watching every given directory non-recursively.
// Callers that need recursive watching add each subdirectory themselves
// — fsnotify does not recurse, matching the teacher's own watcher setup
// (internal/indexing/watcher.go in the pack watches one directory per
// fsnotify.Add call).
func New(dirs []string, debounce time.Duration) (*Driver, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return &Driver{watcher: watcher, debounce: debounce}, nil
}

// Close releases the underlying OS watch handles.
func (d *Driver) Close() error { return d.watcher.Close() }

// Run drains fsnotify events on the caller's goroutine, debounces bursts
// of changes into a single call, and invokes resync once per settled
// burst until ctx is canceled. It returns the first error returned by
// resync, the first error observed on the fsnotify error channel,
// ctx.Err() on cancellation, or nil once a fsnotify channel is closed.
func (d *Driver) Run(ctx context.Context, resync func() error) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(d.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(d.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := resync(); err != nil {
				return err
			}

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
