// Package txn implements the transaction + file database (C7): a
// hash-indexed "last-known content" store guarding conflict-checked,
// atomic batches of filesystem writes.
package txn

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/jsonschema-go/jsonschema"
)

// FileRecord is the content this engine last wrote for one output path.
type FileRecord struct {
	Hash    string    // sha256 hex digest
	Size    int64
	ModTime time.Time
}

// wireRecord is the on-disk shape spec.md §6 specifies.
type wireRecord struct {
	Stat struct {
		MTime time.Time `json:"mtime"`
		Size  int64     `json:"size"`
	} `json:"stat"`
	HexDigest string `json:"hexdigest"`
}

type wireDB struct {
	Version string                `json:"version"`
	Files   map[string]wireRecord `json:"files"`
}

// DB is the in-memory file database, loaded at startup and persisted at
// commit.
type DB struct {
	Files    map[string]FileRecord
	fastHash map[string]uint64 // xxhash fast-path cache, never persisted
}

// NewDB returns an empty, unpersisted database.
func NewDB() *DB {
	return &DB{Files: make(map[string]FileRecord), fastHash: make(map[string]uint64)}
}

var filedbSchema = &jsonschema.Schema{
	Type:     "object",
	Required: []string{"version", "files"},
	Properties: map[string]*jsonschema.Schema{
		"version": {Type: "string"},
		"files": {
			Type: "object",
			AdditionalProperties: &jsonschema.Schema{
				Type:     "object",
				Required: []string{"stat", "hexdigest"},
				Properties: map[string]*jsonschema.Schema{
					"stat": {
						Type:     "object",
						Required: []string{"mtime", "size"},
						Properties: map[string]*jsonschema.Schema{
							"mtime": {Type: "string"},
							"size":  {Type: "integer"},
						},
					},
					"hexdigest": {Type: "string"},
				},
			},
		},
	},
}

// validateFileDBJSON checks raw JSON bytes against the on-disk schema
// before the content is trusted, per SPEC_FULL.md's domain-stack wiring
// of google/jsonschema-go.
func validateFileDBJSON(data []byte) error {
	resolved, err := filedbSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve filedb schema: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse filedb json: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("filedb schema validation: %w", err)
	}
	return nil
}

// LoadDB reads the file database from path. A missing file is not an
// error — it yields a fresh, empty database.
func LoadDB(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewDB(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := validateFileDBJSON(data); err != nil {
		return nil, err
	}
	var w wireDB
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	db := NewDB()
	for path, rec := range w.Files {
		db.Files[path] = FileRecord{Hash: rec.HexDigest, Size: rec.Stat.Size, ModTime: rec.Stat.MTime}
	}
	return db, nil
}

// Save persists the database as pretty JSON to path, creating parent
// directories on demand.
func (db *DB) Save(path string) error {
	w := wireDB{Version: "1.0", Files: make(map[string]wireRecord, len(db.Files))}
	for p, rec := range db.Files {
		var wr wireRecord
		wr.Stat.MTime = rec.ModTime
		wr.Stat.Size = rec.Size
		wr.HexDigest = rec.Hash
		w.Files[p] = wr
	}
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// Record stores the hash of content as the last-known content for path.
func (db *DB) Record(path string, content []byte, modTime time.Time) {
	sum := sha256.Sum256(content)
	db.Files[path] = FileRecord{
		Hash:    hex.EncodeToString(sum[:]),
		Size:    int64(len(content)),
		ModTime: modTime,
	}
	db.fastHash[path] = xxhash.Sum64(content)
}

// Remove drops path from the database.
func (db *DB) Remove(path string) {
	delete(db.Files, path)
	delete(db.fastHash, path)
}

// Get returns the recorded state for path.
func (db *DB) Get(path string) (FileRecord, bool) {
	rec, ok := db.Files[path]
	return rec, ok
}

// IsTracked reports whether path has a recorded entry.
func (db *DB) IsTracked(path string) bool {
	_, ok := db.Files[path]
	return ok
}

// IsModified reports whether current differs from the last content this
// engine recorded for path. The xxhash fast-path short-circuits the
// common case of an unchanged file without touching the slower SHA-256
// digest, mirroring the FastHash/content-hash split the teacher pack
// uses for its own file store.
func (db *DB) IsModified(path string, current []byte) bool {
	rec, ok := db.Files[path]
	if !ok {
		return true
	}
	fast := xxhash.Sum64(current)
	if cached, ok := db.fastHash[path]; ok && cached == fast {
		return false
	}
	sum := sha256.Sum256(current)
	matches := hex.EncodeToString(sum[:]) == rec.Hash
	if matches {
		db.fastHash[path] = fast
	}
	return !matches
}
