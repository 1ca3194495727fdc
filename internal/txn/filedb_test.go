package txn

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAndIsModified(t *testing.T) {
	db := NewDB()
	db.Record("out.py", []byte("hello"), time.Now())

	assert.True(t, db.IsTracked("out.py"))
	assert.False(t, db.IsModified("out.py", []byte("hello")))
	assert.True(t, db.IsModified("out.py", []byte("changed")))
}

func TestIsModifiedUntracked(t *testing.T) {
	db := NewDB()
	assert.True(t, db.IsModified("nope.py", []byte("anything")))
}

func TestRemove(t *testing.T) {
	db := NewDB()
	db.Record("out.py", []byte("hi"), time.Now())
	db.Remove("out.py")
	assert.False(t, db.IsTracked("out.py"))
}

func TestSaveAndLoadDBRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filedb.json")

	db := NewDB()
	db.Record("out.py", []byte("hello"), time.Now())
	require.NoError(t, db.Save(path))

	loaded, err := LoadDB(path)
	require.NoError(t, err)
	rec, ok := loaded.Get("out.py")
	require.True(t, ok)
	assert.Equal(t, int64(5), rec.Size)
	assert.False(t, loaded.IsModified("out.py", []byte("hello")))
}

func TestLoadDBMissingFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	db, err := LoadDB(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, db.Files)
}

func TestLoadDBRejectsInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filedb.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a valid filedb"}`), 0o644))

	_, err := LoadDB(path)
	require.Error(t, err)
}
