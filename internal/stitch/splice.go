package stitch

import (
	"sort"
	"strings"

	"github.com/standardbeagle/entangled-go/internal/refgraph"
)

// BlockLoc is where a block's source text lives in its originating
// document: the content lines run [ContentStart, ContentEnd), 1-indexed.
type BlockLoc struct {
	DocPath      string
	ContentStart int
	ContentEnd   int
}

// Splice is a line-range replacement to apply to one document.
type Splice struct {
	DocPath  string
	Start    int // 1-indexed, inclusive
	End      int // 1-indexed, exclusive
	NewLines []string
}

// ComputeSplices implements spec.md §4.7 step 3: for every recovered
// block whose id is also known to the source graph, skip non-leaf
// blocks, compare recovered vs. original source, and record a splice on
// mismatch.
func ComputeSplices(recovered *refgraph.Graph, source *refgraph.Graph, locs map[refgraph.ID]BlockLoc) []Splice {
	var splices []Splice
	for _, id := range recovered.Order() {
		rb, _ := recovered.Get(id)
		if HasReference(rb.Source) {
			continue
		}
		sb, ok := source.Get(id)
		if !ok {
			continue
		}
		loc, ok := locs[id]
		if !ok {
			continue
		}
		if rb.Source == sb.Source {
			continue
		}
		var newLines []string
		if rb.Source != "" {
			newLines = strings.Split(rb.Source, "\n")
		}
		splices = append(splices, Splice{
			DocPath:  loc.DocPath,
			Start:    loc.ContentStart,
			End:      loc.ContentEnd,
			NewLines: newLines,
		})
	}
	return splices
}

// ApplyDocument applies splices (which must all belong to the same
// document) to text, splicing bottom-up by start line so earlier offsets
// stay valid, and preserves the document's trailing-newline policy.
func ApplyDocument(text string, splices []Splice) string {
	if len(splices) == 0 {
		return text
	}
	hadTrailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	if hadTrailingNewline {
		lines = lines[:len(lines)-1]
	}

	ordered := make([]Splice, len(splices))
	copy(ordered, splices)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Start > ordered[j].Start })

	for _, sp := range ordered {
		startIdx := sp.Start - 1
		endIdx := sp.End - 1
		if startIdx < 0 {
			startIdx = 0
		}
		if endIdx > len(lines) {
			endIdx = len(lines)
		}
		if startIdx > endIdx {
			startIdx = endIdx
		}
		replacement := append([]string{}, lines[:startIdx]...)
		replacement = append(replacement, sp.NewLines...)
		replacement = append(replacement, lines[endIdx:]...)
		lines = replacement
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out
}

// GroupByDocument partitions splices by DocPath, for callers applying
// changes document-by-document.
func GroupByDocument(splices []Splice) map[string][]Splice {
	out := make(map[string][]Splice)
	for _, s := range splices {
		out[s.DocPath] = append(out[s.DocPath], s)
	}
	return out
}
