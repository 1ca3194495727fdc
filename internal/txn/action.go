package txn

import (
	"fmt"
	"os"
	"time"

	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
)

// Action is one filesystem side effect a Transaction can carry out. The
// concrete variants are Create, Write, and Delete (spec.md §3, §4.8).
type Action interface {
	Target() string
	Describe() string
	ProposedContent() []byte // nil for Delete
	CheckConflict(db *DB) error
	Execute() error
	UpdateDB(db *DB)
}

// Create fails if path already exists on disk.
type Create struct {
	Path    string
	Content []byte
}

func (a *Create) Target() string          { return a.Path }
func (a *Create) ProposedContent() []byte { return a.Content }
func (a *Create) Describe() string        { return fmt.Sprintf("create %s", a.Path) }

func (a *Create) CheckConflict(db *DB) error {
	if _, err := os.Stat(a.Path); err == nil {
		return entangledErrors.NewConflictError(a.Path)
	}
	return nil
}

func (a *Create) Execute() error { return atomicWrite(a.Path, a.Content) }

func (a *Create) UpdateDB(db *DB) {
	db.Record(a.Path, a.Content, time.Now())
}

// Write conflict-checks against the file database when the path is
// tracked: a tracked path whose on-disk content no longer matches the
// recorded hash means someone edited the output outside this engine.
type Write struct {
	Path    string
	Content []byte
}

func (a *Write) Target() string          { return a.Path }
func (a *Write) ProposedContent() []byte { return a.Content }
func (a *Write) Describe() string        { return fmt.Sprintf("write %s", a.Path) }

func (a *Write) CheckConflict(db *DB) error {
	if !db.IsTracked(a.Path) {
		return nil
	}
	current, err := os.ReadFile(a.Path)
	if os.IsNotExist(err) {
		// Tracked but missing: treat as a conflict, same as externally
		// deleted content the engine hasn't seen.
		return entangledErrors.NewConflictError(a.Path)
	}
	if err != nil {
		return err
	}
	if db.IsModified(a.Path, current) {
		return entangledErrors.NewConflictError(a.Path)
	}
	return nil
}

func (a *Write) Execute() error { return atomicWrite(a.Path, a.Content) }

func (a *Write) UpdateDB(db *DB) {
	db.Record(a.Path, a.Content, time.Now())
}

// Delete conflict-checks like Write, except that a tracked path already
// missing from disk is not a conflict.
type Delete struct {
	Path string
}

func (a *Delete) Target() string          { return a.Path }
func (a *Delete) ProposedContent() []byte { return nil }
func (a *Delete) Describe() string        { return fmt.Sprintf("delete %s", a.Path) }

func (a *Delete) CheckConflict(db *DB) error {
	if !db.IsTracked(a.Path) {
		return nil
	}
	current, err := os.ReadFile(a.Path)
	if os.IsNotExist(err) {
		return nil // already gone, nothing to conflict with
	}
	if err != nil {
		return err
	}
	if db.IsModified(a.Path, current) {
		return entangledErrors.NewConflictError(a.Path)
	}
	return nil
}

func (a *Delete) Execute() error { return atomicDelete(a.Path) }

func (a *Delete) UpdateDB(db *DB) {
	db.Remove(a.Path)
}
