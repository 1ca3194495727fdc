// Package tangle implements the tangle expander (C5): a cycle-detecting,
// indentation-propagating macro expander that turns a named reference
// into annotated, bare, or naked output text.
package tangle

import (
	"fmt"
	"regexp"
	"strings"

	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
	"github.com/standardbeagle/entangled-go/internal/location"
	"github.com/standardbeagle/entangled-go/internal/refgraph"
)

// referencePattern matches a whole line consisting of whitespace, a
// "<<NAME>>" reference, and trailing whitespace, capturing the leading
// indent and the inner name.
var referencePattern = regexp.MustCompile(`^(\s*)<<([^<>]+)>>\s*$`)

// ModeKind selects one of the three output modes spec.md §4.4 names.
type ModeKind int

const (
	ModeNaked ModeKind = iota
	ModeBare
	ModeAnnotated
)

// Markers controls the begin/end marker syntax emitted in annotated mode.
type Markers struct {
	Open  string // default "<<"
	Close string // default ">>"
	Begin string // default "begin"
	End   string // default "end"
}

// DefaultMarkers returns the spec.md §4.4 defaults.
func DefaultMarkers() Markers {
	return Markers{Open: "<<", Close: ">>", Begin: "begin", End: "end"}
}

// Mode is the tangle output mode. Comment is only consulted when Kind is
// ModeAnnotated.
type Mode struct {
	Kind    ModeKind
	Comment CommentStyle
	Markers Markers
}

func Naked() Mode { return Mode{Kind: ModeNaked} }
func Bare() Mode  { return Mode{Kind: ModeBare} }
func Annotated(comment CommentStyle, markers Markers) Mode {
	return Mode{Kind: ModeAnnotated, Comment: comment, Markers: markers}
}

// Standard builds the annotated mode spec.md §4.6 calls "Standard": the
// comment style inferred from language via table, falling back to "#"
// when the language is unknown.
func Standard(language string, overrides map[string]string) Mode {
	return Annotated(CommentFor(language, overrides), DefaultMarkers())
}

// expander carries the per-invocation state: the graph being expanded and
// the cycle-detector stack.
type expander struct {
	refs  *refgraph.Graph
	mode  Mode
	stack []string
	onStack map[string]bool
}

// Tangle expands name against refs under mode, with an empty base indent.
func Tangle(refs *refgraph.Graph, name string, mode Mode) (string, error) {
	e := &expander{refs: refs, mode: mode, onStack: make(map[string]bool)}
	lines, err := e.expand(name, "")
	if err != nil {
		return "", err
	}
	out := strings.Join(lines, "\n")
	if mode.Kind == ModeBare {
		out = collapseBlank(out)
	}
	return out, nil
}

// expand is the single recursive worker shared by all three modes, per
// the "keep a single recursive worker" design note in spec.md §9.
func (e *expander) expand(name string, base string) ([]string, error) {
	if e.onStack[name] {
		cycle := append(append([]string{}, e.stack...), name)
		return nil, entangledErrors.NewCycleDetected(cycle)
	}
	ids := e.refs.GetByName(name)
	if len(ids) == 0 {
		err := entangledErrors.NewReferenceNotFound(name, location.Location{})
		if suggestion, ok := e.refs.Suggest(name); ok {
			err.Suggestion = suggestion
		}
		return nil, err
	}

	e.onStack[name] = true
	e.stack = append(e.stack, name)
	defer func() {
		e.stack = e.stack[:len(e.stack)-1]
		delete(e.onStack, name)
	}()

	var out []string
	for _, id := range ids {
		block, _ := e.refs.Get(id)

		switch e.mode.Kind {
		case ModeAnnotated:
			out = append(out, base+e.beginMarker(id))
		case ModeBare:
			out = append(out, "")
		}

		for _, line := range strings.Split(block.Source, "\n") {
			if m := referencePattern.FindStringSubmatch(line); m != nil {
				indent, inner := m[1], m[2]
				nested, err := e.expand(inner, base+indent)
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
				continue
			}
			out = append(out, base+line)
		}

		switch e.mode.Kind {
		case ModeAnnotated:
			out = append(out, base+e.endMarker())
		case ModeBare:
			out = append(out, "")
		}
	}

	return out, nil
}

// beginMarker renders "<prefix> ~/~ begin <<id>>". Block-comment
// languages (Suffix != "") still use the prefix alone here — the marker
// is never closed, matching original_source's annotation_begin, which
// takes only the comment's opening delimiter.
func (e *expander) beginMarker(id refgraph.ID) string {
	m := e.mode.Markers
	c := e.mode.Comment
	return fmt.Sprintf("%s ~/~ %s %s%s%s", c.Prefix, m.Begin, m.Open, id.String(), m.Close)
}

// endMarker renders "<prefix> ~/~ end", again never closed even for
// block-comment languages — see beginMarker.
func (e *expander) endMarker() string {
	m := e.mode.Markers
	c := e.mode.Comment
	return fmt.Sprintf("%s ~/~ %s", c.Prefix, m.End)
}

// collapseBlank implements bare mode's post-processing: collapse runs of
// >=2 blank lines to one, and strip leading/trailing blanks.
func collapseBlank(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	blankRun := false
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			if blankRun {
				continue
			}
			blankRun = true
			out = append(out, "")
			continue
		}
		blankRun = false
		out = append(out, l)
	}
	// strip leading/trailing blanks
	start := 0
	for start < len(out) && strings.TrimSpace(out[start]) == "" {
		start++
	}
	end := len(out)
	for end > start && strings.TrimSpace(out[end-1]) == "" {
		end--
	}
	return strings.Join(out[start:end], "\n")
}
