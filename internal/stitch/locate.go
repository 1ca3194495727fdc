package stitch

import (
	"strings"

	"github.com/standardbeagle/entangled-go/internal/refgraph"
)

// LocateResult identifies, for one line of tangled output, the id whose
// content that line belongs to and its 0-indexed offset within that
// id's content lines. Annotation-marker lines have no mapping.
type LocateResult struct {
	ID     refgraph.ID
	Offset int
}

// LocateInOutput walks annotated output with the same frame stack as
// ReadAnnotated, but counts only content lines within the innermost
// frame, and reports which frame (and offset) targetLine (1-indexed)
// falls on. Marker lines return ok=false, matching spec.md §9's resolved
// ambiguity that blank content lines still count toward the offset.
func LocateInOutput(content string, targetLine int) (LocateResult, bool) {
	lines := strings.Split(content, "\n")
	type stackFrame struct {
		id     refgraph.ID
		offset int
	}
	var stack []stackFrame

	for lineno, line := range lines {
		lineno1 := lineno + 1

		if m := beginRe.FindStringSubmatch(line); m != nil {
			id, ok := parseIDString(m[1])
			if !ok {
				continue
			}
			if lineno1 == targetLine {
				return LocateResult{}, false
			}
			stack = append(stack, stackFrame{id: id})
			continue
		}

		if endRe.MatchString(line) {
			if lineno1 == targetLine {
				return LocateResult{}, false
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		if len(stack) == 0 {
			continue
		}
		top := &stack[len(stack)-1]
		if lineno1 == targetLine {
			return LocateResult{ID: top.id, Offset: top.offset}, true
		}
		top.offset++
	}

	return LocateResult{}, false
}
