// Package discover expands include/exclude glob patterns into a concrete
// source-file set and reads their contents concurrently. Source
// discovery is explicitly external to the core (spec.md §1); this
// package exists to give doublestar and a bounded errgroup a concrete
// home, grounded in the teacher's include/exclude filtering concern in
// internal/config/gitignore.go and the bounded-worker-pool pattern in
// internal/indexing/concurrent_operations.go (a sync.WaitGroup there,
// an errgroup limit here — same bounded-fan-out shape).
package discover

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// SourceFile is one discovered document: its path and its full text.
type SourceFile struct {
	Path    string
	Content string
}

// DefaultConcurrency bounds how many files are read in flight at once.
const DefaultConcurrency = 8

// Discover walks root, keeping files whose root-relative, slash-separated
// path matches at least one of includes (or matches anything when
// includes is empty) and none of excludes, then reads every kept file's
// content with a bounded pool of goroutines. This concurrency is local to
// discovery — spec.md §5 requires the core itself to stay single-threaded
// with no worker spawning; discover is one of the named external
// collaborators that may do otherwise.
func Discover(ctx context.Context, root string, includes, excludes []string) ([]SourceFile, error) {
	var matched []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchesAny(includes, rel, true) {
			return nil
		}
		if matchesAny(excludes, rel, false) {
			return nil
		}
		matched = append(matched, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matched)

	results := make([]SourceFile, len(matched))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, path := range matched {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = SourceFile{Path: path, Content: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// matchesAny reports whether path matches any pattern. emptyResult is
// returned when patterns is empty — true for includes ("no include
// filter" means everything passes), false for excludes ("no exclude
// filter" means nothing is excluded).
func matchesAny(patterns []string, path string, emptyResult bool) bool {
	if len(patterns) == 0 {
		return emptyResult
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
