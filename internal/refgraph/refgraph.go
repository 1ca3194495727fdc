// Package refgraph implements the reference graph (C4): a dual-indexed
// store of code blocks keyed by both a stable (name, instance) id and a
// human-visible name, with multi-block concatenation semantics.
package refgraph

import (
	"fmt"
	"strings"

	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
	"github.com/standardbeagle/entangled-go/internal/location"
)

// ID is a reference id: a (name, instance) pair, rendered as "name[instance]".
type ID struct {
	Name     string
	Instance int
}

func (id ID) String() string {
	return fmt.Sprintf("%s[%d]", id.Name, id.Instance)
}

// Block is one fenced code region, carrying an id, optional language and
// file target, raw source, origin location, and auxiliary metadata.
type Block struct {
	ID         ID
	Language   string
	Target     string // output path, set for file-target blocks
	Source     string
	Location   location.Location
	Classes    []string
	Attributes map[string]string
}

// Graph is the central datum: three coordinated indexes kept in lock-step
// over an append-only set of immutable blocks.
type Graph struct {
	primary  map[ID]Block
	order    []ID            // insertion order — fixes concatenation order
	names    map[string][]ID // name -> ordered ids
	targets  map[string]string
	counters map[string]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		primary:  make(map[ID]Block),
		names:    make(map[string][]ID),
		targets:  make(map[string]string),
		counters: make(map[string]int),
	}
}

// Insert assigns block the next free instance for its name, updates all
// three indexes, and returns the assigned id. The Instance field of
// block.ID is ignored and overwritten.
func (g *Graph) Insert(block Block) ID {
	name := block.ID.Name
	inst := g.counters[name]
	g.counters[name] = inst + 1

	id := ID{Name: name, Instance: inst}
	block.ID = id
	g.store(id, block)
	return id
}

// InsertWithID inserts block under the given id, bumping the per-name
// counter above id.Instance so later plain Inserts stay dense. It returns
// false without modifying the graph if id is already present — the
// caller is responsible for falling back to Insert in that case.
func (g *Graph) InsertWithID(id ID, block Block) bool {
	if _, exists := g.primary[id]; exists {
		return false
	}
	block.ID = id
	g.store(id, block)
	if id.Instance+1 > g.counters[id.Name] {
		g.counters[id.Name] = id.Instance + 1
	}
	return true
}

func (g *Graph) store(id ID, block Block) {
	g.primary[id] = block
	g.order = append(g.order, id)
	g.names[id.Name] = append(g.names[id.Name], id)
	if block.Target != "" {
		if _, ok := g.targets[block.Target]; !ok {
			g.targets[block.Target] = id.Name
		}
	}
}

// Get returns the block stored under id.
func (g *Graph) Get(id ID) (Block, bool) {
	b, ok := g.primary[id]
	return b, ok
}

// GetByName returns the ids registered under name, in insertion order.
func (g *Graph) GetByName(name string) []ID {
	ids := g.names[name]
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

// GetTargetName resolves a file-target output path to the name that
// writes it, if any.
func (g *Graph) GetTargetName(path string) (string, bool) {
	name, ok := g.targets[path]
	return name, ok
}

// Targets returns every registered target path, for orchestration to
// iterate when tangling "every target in the aggregate".
func (g *Graph) Targets() []string {
	out := make([]string, 0, len(g.targets))
	for path := range g.targets {
		out = append(out, path)
	}
	return out
}

// Names returns every distinct name with at least one block, in the
// order each name was first seen.
func (g *Graph) Names() []string {
	seen := make(map[string]bool, len(g.names))
	var out []string
	for _, id := range g.order {
		if !seen[id.Name] {
			seen[id.Name] = true
			out = append(out, id.Name)
		}
	}
	return out
}

// Order returns every id in the graph in insertion order.
func (g *Graph) Order() []ID {
	out := make([]ID, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the number of blocks stored.
func (g *Graph) Len() int { return len(g.order) }

// ConcatenateSource joins every block registered under name, in
// insertion order, separated by "\n". It fails with a reference-not-found
// error if name has no blocks.
func (g *Graph) ConcatenateSource(name string) (string, error) {
	ids := g.names[name]
	if len(ids) == 0 {
		err := entangledErrors.NewReferenceNotFound(name, location.Location{})
		if suggestion, ok := g.Suggest(name); ok {
			err.Suggestion = suggestion
		}
		return "", err
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = g.primary[id].Source
	}
	return strings.Join(parts, "\n"), nil
}

// Merge copies every block of src into dst, in src's insertion order,
// preserving dst's own prior order. It first tries InsertWithID so
// namespaced ids (doc#name, unique per document) keep their original
// identity across the merge; when that id is already taken — two
// documents sharing a bare, non-namespaced name — it falls back to a
// fresh Insert so the aggregate's per-name instance numbering stays
// dense, per spec.md §3's graph invariants. It returns the src-id ->
// dst-id mapping so callers tracking per-document state keyed by the
// original ids (e.g. stitch source locations) can remap it to the
// aggregate's ids.
func Merge(dst *Graph, src *Graph) map[ID]ID {
	mapping := make(map[ID]ID, len(src.order))
	for _, id := range src.order {
		block := src.primary[id]
		if dst.InsertWithID(id, block) {
			mapping[id] = id
			continue
		}
		mapping[id] = dst.Insert(block)
	}
	return mapping
}
