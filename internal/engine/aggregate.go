package engine

import (
	"sort"

	"github.com/standardbeagle/entangled-go/internal/refgraph"
	"github.com/standardbeagle/entangled-go/internal/stitch"
)

// aggregate merges every document's graph into one, in the given
// iteration order (the caller's order is the aggregation order, per
// spec.md §4.3), and remaps each document's block locations onto the
// resulting aggregate ids.
func aggregate(docs []*Document) (*refgraph.Graph, map[refgraph.ID]stitch.BlockLoc) {
	agg := refgraph.New()
	locs := make(map[refgraph.ID]stitch.BlockLoc)

	for _, doc := range docs {
		mapping := refgraph.Merge(agg, doc.Graph)
		for oldID, loc := range doc.BlockLocs {
			newID := mapping[oldID]
			locs[newID] = loc
		}
	}

	return agg, locs
}

// sortedTargets returns every target path in the graph, sorted for
// deterministic iteration (the spec leaves per-run target order
// unspecified beyond per-target concatenation order).
func sortedTargets(g *refgraph.Graph) []string {
	targets := g.Targets()
	sort.Strings(targets)
	return targets
}
