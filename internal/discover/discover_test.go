package discover

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscoverFindsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "alpha")
	writeFile(t, dir, "sub/b.md", "beta")
	writeFile(t, dir, "c.txt", "gamma")

	files, err := Discover(context.Background(), dir, []string{"**/*.md"}, nil)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f.Path)
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)
	assert.Equal(t, []string{"a.md", "sub/b.md"}, rels)
}

func TestDiscoverExcludesOverrideIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "k")
	writeFile(t, dir, "skip.md", "s")

	files, err := Discover(context.Background(), dir, []string{"**/*.md"}, []string{"skip.md"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "k", files[0].Content)
}

func TestDiscoverEmptyIncludesMatchesEverything(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "any.ext", "x")

	files, err := Discover(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestDiscoverReadsFileContent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "hello world")

	files, err := Discover(context.Background(), dir, []string{"*.md"}, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "hello world", files[0].Content)
}
