package stitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/entangled-go/internal/refgraph"
	"github.com/standardbeagle/entangled-go/internal/tangle"
)

func TestReadAnnotatedRoundTripsTangleOutput(t *testing.T) {
	g := refgraph.New()
	g.Insert(refgraph.Block{ID: refgraph.ID{Name: "main"}, Source: "first\nsecond"})

	out, err := tangle.Tangle(g, "main", tangle.Standard("python", nil))
	require.NoError(t, err)

	recovered, err := ReadAnnotated(out)
	require.NoError(t, err)

	ids := recovered.GetByName("main")
	require.Len(t, ids, 1)
	b, ok := recovered.Get(ids[0])
	require.True(t, ok)
	assert.Equal(t, "first\nsecond", b.Source)
}

func TestReadAnnotatedNestedRecordsReferenceLine(t *testing.T) {
	g := refgraph.New()
	g.Insert(refgraph.Block{ID: refgraph.ID{Name: "main"}, Source: "top\n  <<helper>>"})
	g.Insert(refgraph.Block{ID: refgraph.ID{Name: "helper"}, Source: "nested"})

	out, err := tangle.Tangle(g, "main", tangle.Standard("python", nil))
	require.NoError(t, err)

	recovered, err := ReadAnnotated(out)
	require.NoError(t, err)

	mainIDs := recovered.GetByName("main")
	require.Len(t, mainIDs, 1)
	mainBlock, _ := recovered.Get(mainIDs[0])
	assert.Contains(t, mainBlock.Source, "<<helper>>")

	helperIDs := recovered.GetByName("helper")
	require.Len(t, helperIDs, 1)
	helperBlock, _ := recovered.Get(helperIDs[0])
	assert.Equal(t, "nested", helperBlock.Source)
}

func TestReadAnnotatedUnclosedBlockErrors(t *testing.T) {
	_, err := ReadAnnotated("# ~/~ begin <<main[0]>>\nbody\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed")
}

func TestHasReference(t *testing.T) {
	assert.True(t, HasReference("top\n  <<helper>>\nbottom"))
	assert.False(t, HasReference("plain source\nwith no refs"))
}

func TestComputeSplicesSkipsNonLeafBlocks(t *testing.T) {
	id := refgraph.ID{Name: "main", Instance: 0}
	recovered := refgraph.New()
	recovered.InsertWithID(id, refgraph.Block{ID: id, Source: "<<helper>>"})

	source := refgraph.New()
	source.InsertWithID(id, refgraph.Block{ID: id, Source: "<<helper>>"})

	locs := map[refgraph.ID]BlockLoc{id: {DocPath: "doc.md", ContentStart: 3, ContentEnd: 4}}

	splices := ComputeSplices(recovered, source, locs)
	assert.Empty(t, splices)
}

func TestComputeSplicesDetectsEdit(t *testing.T) {
	id := refgraph.ID{Name: "main", Instance: 0}
	recovered := refgraph.New()
	recovered.InsertWithID(id, refgraph.Block{ID: id, Source: "edited body"})

	source := refgraph.New()
	source.InsertWithID(id, refgraph.Block{ID: id, Source: "original body"})

	locs := map[refgraph.ID]BlockLoc{id: {DocPath: "doc.md", ContentStart: 3, ContentEnd: 4}}

	splices := ComputeSplices(recovered, source, locs)
	require.Len(t, splices, 1)
	assert.Equal(t, "doc.md", splices[0].DocPath)
	assert.Equal(t, []string{"edited body"}, splices[0].NewLines)
}

func TestApplyDocumentSplicesLinesInPlace(t *testing.T) {
	text := "line1\nline2\nline3\nline4\n"
	splices := []Splice{{DocPath: "doc.md", Start: 2, End: 3, NewLines: []string{"replaced"}}}

	out := ApplyDocument(text, splices)
	assert.Equal(t, "line1\nreplaced\nline3\nline4\n", out)
}

func TestApplyDocumentPreservesNoTrailingNewline(t *testing.T) {
	text := "line1\nline2"
	splices := []Splice{{DocPath: "doc.md", Start: 1, End: 2, NewLines: []string{"x"}}}

	out := ApplyDocument(text, splices)
	assert.Equal(t, "x\nline2", out)
}

func TestGroupByDocument(t *testing.T) {
	splices := []Splice{
		{DocPath: "a.md", Start: 1, End: 2},
		{DocPath: "b.md", Start: 3, End: 4},
		{DocPath: "a.md", Start: 5, End: 6},
	}
	grouped := GroupByDocument(splices)
	assert.Len(t, grouped["a.md"], 2)
	assert.Len(t, grouped["b.md"], 1)
}

func TestLocateInOutputFindsContentLine(t *testing.T) {
	g := refgraph.New()
	g.Insert(refgraph.Block{ID: refgraph.ID{Name: "main"}, Source: "first\nsecond"})

	out, err := tangle.Tangle(g, "main", tangle.Standard("python", nil))
	require.NoError(t, err)

	// line 1 is the begin marker, line 2 is "first", line 3 is "second"
	result, ok := LocateInOutput(out, 3)
	require.True(t, ok)
	assert.Equal(t, 1, result.Offset)
}

func TestLocateInOutputMarkerLineNotFound(t *testing.T) {
	g := refgraph.New()
	g.Insert(refgraph.Block{ID: refgraph.ID{Name: "main"}, Source: "body"})

	out, err := tangle.Tangle(g, "main", tangle.Standard("python", nil))
	require.NoError(t, err)

	_, ok := LocateInOutput(out, 1)
	assert.False(t, ok)
}
