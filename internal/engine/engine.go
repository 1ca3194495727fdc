package engine

import (
	"github.com/standardbeagle/entangled-go/internal/config"
	"github.com/standardbeagle/entangled-go/internal/refgraph"
	"github.com/standardbeagle/entangled-go/internal/stitch"
	"github.com/standardbeagle/entangled-go/internal/tangle"
	"github.com/standardbeagle/entangled-go/internal/txn"
)

// ReadFileFunc abstracts reading an already-tangled output file off
// disk, so Stitch/Sync/Status/Locate stay testable without touching a
// real filesystem.
type ReadFileFunc func(path string) ([]byte, error)

func modeFor(cfg config.EngineConfig, agg *refgraph.Graph, name string) tangle.Mode {
	switch cfg.Mode {
	case config.ModeNaked:
		return tangle.Naked()
	case config.ModeBare:
		return tangle.Bare()
	default: // ModeStandard, ModeSupplemental
		language := firstLanguage(agg, name)
		return tangle.Annotated(cfg.CommentFor(language), cfg.Markers.ToTangle())
	}
}

func firstLanguage(g *refgraph.Graph, name string) string {
	ids := g.GetByName(name)
	if len(ids) == 0 {
		return ""
	}
	b, _ := g.Get(ids[0])
	return b.Language
}

// Tangle implements spec.md §4.6 steps 4-7: merge every document's
// graph, expand every target in the aggregate under the configured
// mode, run the post-tangle hooks, and materialize a Write action per
// target.
func Tangle(docs []*Document, cfg config.EngineConfig) (*txn.Transaction, error) {
	agg, _ := aggregate(docs)
	t := txn.New()

	for _, target := range sortedTargets(agg) {
		name, _ := agg.GetTargetName(target)
		mode := modeFor(cfg, agg, name)

		content, err := tangle.Tangle(agg, name, mode)
		if err != nil {
			return nil, err
		}
		content = runPostTangleHooks(content, mode)

		t.Add(&txn.Write{Path: target, Content: []byte(content)})
	}

	return t, nil
}

// Stitch implements spec.md §4.7: for every stitchable target that
// exists, recover a graph from its annotated output, diff each leaf
// block against its source document, and splice mismatches back in.
func Stitch(docs []*Document, cfg config.EngineConfig, readFile ReadFileFunc) (*txn.Transaction, error) {
	t := txn.New()
	if !cfg.Mode.Stitchable() {
		return t, nil
	}

	agg, locs := aggregate(docs)
	var allSplices []stitch.Splice

	for _, target := range sortedTargets(agg) {
		data, err := readFile(target)
		if err != nil {
			continue // target doesn't exist (yet): nothing to stitch
		}
		recovered, err := stitch.ReadAnnotated(string(data))
		if err != nil {
			return nil, err
		}
		allSplices = append(allSplices, stitch.ComputeSplices(recovered, agg, locs)...)
	}

	docByPath := make(map[string]*Document, len(docs))
	for _, d := range docs {
		docByPath[d.Path] = d
	}

	for path, splices := range stitch.GroupByDocument(allSplices) {
		doc, ok := docByPath[path]
		if !ok {
			continue
		}
		newText := stitch.ApplyDocument(doc.RawText, splices)
		if newText == doc.RawText {
			continue
		}
		t.Add(&txn.Write{Path: path, Content: []byte(newText)})
	}

	return t, nil
}

// Sync runs Stitch, applies its in-memory effect to re-parse the
// affected documents, then runs Tangle on the result — spec.md §2's
// "sync = stitch then tangle" — and returns both sets of writes as one
// transaction so a caller can commit them together.
func Sync(docs []*Document, cfg config.EngineConfig, readFile ReadFileFunc) (*txn.Transaction, error) {
	stitchTxn, err := Stitch(docs, cfg, readFile)
	if err != nil {
		return nil, err
	}

	writes := make(map[string][]byte, len(stitchTxn.Actions))
	for _, a := range stitchTxn.Actions {
		if w, ok := a.(*txn.Write); ok {
			writes[w.Path] = w.Content
		}
	}

	updated := make([]*Document, len(docs))
	for i, d := range docs {
		content, changed := writes[d.Path]
		if !changed {
			updated[i] = d
			continue
		}
		reparsed, err := ParseDocument(d.Path, string(content), cfg)
		if err != nil {
			return nil, err
		}
		updated[i] = reparsed
	}

	tangleTxn, err := Tangle(updated, cfg)
	if err != nil {
		return nil, err
	}

	combined := txn.New()
	combined.Actions = append(combined.Actions, stitchTxn.Actions...)
	combined.Actions = append(combined.Actions, tangleTxn.Actions...)
	return combined, nil
}

// StatusState is the per-target verdict Status reports.
type StatusState string

const (
	StatusUnchanged  StatusState = "unchanged"
	StatusWouldWrite StatusState = "would-write"
	StatusConflict   StatusState = "conflict"
	StatusUntracked  StatusState = "untracked"
)

// StatusEntry reports one target's state without writing anything.
type StatusEntry struct {
	Target string
	State  StatusState
}

// Status is the read-only counterpart to Tangle, grounded on
// original_source/entangled-cli/src/commands/status.rs: it compares the
// file database against what a Tangle run would produce, and reports
// one of unchanged/would-write/conflict/untracked per target.
func Status(docs []*Document, cfg config.EngineConfig, db *txn.DB, readFile ReadFileFunc) ([]StatusEntry, error) {
	agg, _ := aggregate(docs)
	var entries []StatusEntry

	for _, target := range sortedTargets(agg) {
		name, _ := agg.GetTargetName(target)
		mode := modeFor(cfg, agg, name)

		content, err := tangle.Tangle(agg, name, mode)
		if err != nil {
			return nil, err
		}
		content = runPostTangleHooks(content, mode)

		var state StatusState
		current, readErr := readFile(target)
		switch {
		case !db.IsTracked(target):
			state = StatusUntracked
		case readErr != nil:
			state = StatusConflict
		case db.IsModified(target, current):
			state = StatusConflict
		case string(current) == content:
			state = StatusUnchanged
		default:
			state = StatusWouldWrite
		}

		entries = append(entries, StatusEntry{Target: target, State: state})
	}

	return entries, nil
}

// LocateResult is the document position a tangled output line maps back
// to.
type LocateResult struct {
	DocPath string
	Line    int
}

// Locate implements the §4.7 auxiliary operation: given an output path
// and line, resolve the enclosing block's source document and line.
// Marker lines (and lines outside any annotated region) return ok=false.
func Locate(docs []*Document, target string, line int, readFile ReadFileFunc) (LocateResult, bool, error) {
	_, locs := aggregate(docs)

	data, err := readFile(target)
	if err != nil {
		return LocateResult{}, false, err
	}

	found, ok := stitch.LocateInOutput(string(data), line)
	if !ok {
		return LocateResult{}, false, nil
	}
	loc, ok := locs[found.ID]
	if !ok {
		return LocateResult{}, false, nil
	}
	return LocateResult{DocPath: loc.DocPath, Line: loc.ContentStart + found.Offset}, true, nil
}
