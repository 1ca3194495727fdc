// Package stitch implements the annotated-source reverse reader (C6) and
// the splice engine that propagates edits made in tangled output files
// back into their originating documents.
package stitch

import (
	"regexp"
	"strconv"
	"strings"

	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
	"github.com/standardbeagle/entangled-go/internal/location"
	"github.com/standardbeagle/entangled-go/internal/refgraph"
)

// beginRe / endRe are the bit-exact recovery regexes from spec.md §6.
var beginRe = regexp.MustCompile(`^\s*\S+\s+~/~\s+begin\s+<<([^>]+)>>`)
var endRe = regexp.MustCompile(`^\s*\S+\s+~/~\s+end\s*$`)

// leadingWS returns the leading run of spaces/tabs of s.
func leadingWS(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}

// parseIDString parses "name[instance]" into a refgraph.ID.
func parseIDString(s string) (refgraph.ID, bool) {
	i := strings.LastIndexByte(s, '[')
	if i < 0 || !strings.HasSuffix(s, "]") {
		return refgraph.ID{}, false
	}
	n, err := strconv.Atoi(s[i+1 : len(s)-1])
	if err != nil {
		return refgraph.ID{}, false
	}
	return refgraph.ID{Name: s[:i], Instance: n}, true
}

type frame struct {
	id        refgraph.ID
	indent    string
	startLine int
	lines     []string
}

// ReadAnnotated reconstructs a reference graph from an annotated tangled
// file. Begin markers push a frame; end markers pop and emit a block.
// Nested markers produce one block per recovered id, and the enclosing
// block's source gets a reconstructed "<<name>>" reference line in place
// of the nested region, mirroring how it reads in the source document.
func ReadAnnotated(content string) (*refgraph.Graph, error) {
	g := refgraph.New()
	lines := strings.Split(content, "\n")
	var stack []*frame

	for lineno, line := range lines {
		lineno1 := lineno + 1

		if m := beginRe.FindStringSubmatch(line); m != nil {
			id, ok := parseIDString(m[1])
			if !ok {
				return nil, entangledErrors.NewParseError(location.LineOnly(lineno1), "invalid id string in marker: %q", m[1])
			}
			stack = append(stack, &frame{id: id, indent: leadingWS(line), startLine: lineno1})
			continue
		}

		if endRe.MatchString(line) {
			if len(stack) == 0 {
				// Stray end without a matching begin: warning-level, ignored.
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			block := refgraph.Block{
				ID:       top.id,
				Source:   strings.Join(top.lines, "\n"),
				Location: location.LineOnly(top.startLine),
			}
			if !g.InsertWithID(top.id, block) {
				return nil, entangledErrors.NewInternalError("duplicate recovered id %s in annotated source", top.id)
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				rel := relativeIndent(top.indent, parent.indent)
				parent.lines = append(parent.lines, rel+"<<"+top.id.Name+">>")
			}
			continue
		}

		if len(stack) == 0 {
			continue // content outside any frame (shouldn't happen in well-formed output)
		}
		top := stack[len(stack)-1]
		top.lines = append(top.lines, stripIndent(line, top.indent))
	}

	if len(stack) > 0 {
		unclosed := stack[0]
		return nil, entangledErrors.NewParseError(location.LineOnly(unclosed.startLine), "unclosed annotated block %s", unclosed.id)
	}

	return g, nil
}

// ReadTopLevelAnnotated is the "top-level blocks" companion variant:
// only the outermost frame is recognized as a block boundary; nested
// markers and their intervening text become part of the outer block's
// source verbatim.
func ReadTopLevelAnnotated(content string) (*refgraph.Graph, error) {
	g := refgraph.New()
	lines := strings.Split(content, "\n")
	var top *frame
	depth := 0

	for lineno, line := range lines {
		lineno1 := lineno + 1

		if m := beginRe.FindStringSubmatch(line); m != nil {
			if depth == 0 {
				id, ok := parseIDString(m[1])
				if !ok {
					return nil, entangledErrors.NewParseError(location.LineOnly(lineno1), "invalid id string in marker: %q", m[1])
				}
				top = &frame{id: id, indent: leadingWS(line), startLine: lineno1}
			} else if top != nil {
				top.lines = append(top.lines, stripIndent(line, top.indent))
			}
			depth++
			continue
		}

		if endRe.MatchString(line) {
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && top != nil {
				block := refgraph.Block{
					ID:       top.id,
					Source:   strings.Join(top.lines, "\n"),
					Location: location.LineOnly(top.startLine),
				}
				if !g.InsertWithID(top.id, block) {
					return nil, entangledErrors.NewInternalError("duplicate recovered id %s in annotated source", top.id)
				}
				top = nil
			} else if top != nil {
				top.lines = append(top.lines, stripIndent(line, top.indent))
			}
			continue
		}

		if top != nil {
			top.lines = append(top.lines, stripIndent(line, top.indent))
		}
	}

	if depth > 0 && top != nil {
		return nil, entangledErrors.NewParseError(location.LineOnly(top.startLine), "unclosed annotated block %s", top.id)
	}

	return g, nil
}

func stripIndent(line, indent string) string {
	if strings.HasPrefix(line, indent) {
		return line[len(indent):]
	}
	return line
}

// relativeIndent computes the child's indent relative to its parent: the
// child indent with the parent's prefix stripped, or the full child
// indent when the parent isn't a literal prefix of it.
func relativeIndent(childIndent, parentIndent string) string {
	if strings.HasPrefix(childIndent, parentIndent) {
		return childIndent[len(parentIndent):]
	}
	return childIndent
}

// HasReference reports whether source contains a "<<name>>" reference
// line — the §4.7 test for "non-leaf" blocks whose tangled content is an
// expansion, not original source.
func HasReference(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		t := strings.TrimSpace(line)
		if strings.HasPrefix(t, "<<") && strings.HasSuffix(t, ">>") {
			return true
		}
	}
	return false
}
