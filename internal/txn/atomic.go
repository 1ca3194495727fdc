package txn

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

var tempCounter atomic.Int64

// atomicWrite writes data to a uniquely-named temp file in path's
// directory, fsyncs it, then renames it onto path. The temp name mixes
// the process id with a per-process atomic counter so concurrent
// transactions writing into the same directory never collide.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", path, err)
		}
	}

	n := tempCounter.Add(1)
	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.%d.%d.tmp", filepath.Base(path), os.Getpid(), n))

	f, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("fsync temp file for %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file onto %s: %w", path, err)
	}
	return nil
}

// atomicDelete removes path. Deletion has no partial-write hazard, so it
// needs no temp-file dance, but is kept here so Action.Execute has one
// place to look for filesystem side effects.
func atomicDelete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
