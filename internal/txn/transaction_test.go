package txn

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionExecuteAbortsOnConflict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	tr := New()
	tr.Add(&Create{Path: path, Content: []byte("new")})

	errs := tr.Execute(NewDB())
	require.Len(t, errs, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestTransactionExecuteAppliesAndRecordsAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.py")

	tr := New()
	tr.Add(&Create{Path: path, Content: []byte("first")})

	db := NewDB()
	errs := tr.Execute(db)
	require.Empty(t, errs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
	assert.True(t, db.IsTracked(path))
}

func TestTransactionExecuteForceIgnoresConflicts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	tr := New()
	tr.Add(&Write{Path: path, Content: []byte("overwritten")})

	db := NewDB()
	db.Record(path, []byte("different recorded content"), time.Now())

	errs := tr.ExecuteForce(db)
	require.Empty(t, errs)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "overwritten", string(data))
}

func TestIsEmpty(t *testing.T) {
	tr := New()
	assert.True(t, tr.IsEmpty())
	tr.Add(&Delete{Path: "x"})
	assert.False(t, tr.IsEmpty())
}
