package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAllSimpleBlock(t *testing.T) {
	results := ExtractAll("```python\nprint('hello')\n```")
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "python", results[0].Token.Info)
	assert.Equal(t, "print('hello')", results[0].Token.Content)
	assert.Equal(t, 1, results[0].Token.Location.Line)
}

func TestExtractAllAttributes(t *testing.T) {
	results := ExtractAll("```python #main file=out.py\ncode\n```")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "python #main file=out.py", results[0].Token.Info)
}

func TestExtractAllTildeFence(t *testing.T) {
	results := ExtractAll("~~~rust\nfn main() {}\n~~~")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "rust", results[0].Token.Info)
	assert.Equal(t, "fn main() {}", results[0].Token.Content)
}

func TestExtractAllLongerFence(t *testing.T) {
	results := ExtractAll("````python\n```not a fence```\n````")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "```not a fence```", results[0].Token.Content)
}

func TestExtractAllNotDelimited(t *testing.T) {
	results := ExtractAll("Just some text")
	require.Len(t, results, 1)
	assert.Equal(t, "Just some text", results[0].NotDelimited)
}

func TestExtractAllUnclosed(t *testing.T) {
	results := ExtractAll("```python\ncode\nmore code")
	require.NotNil(t, results[0].Unclosed)
	assert.Equal(t, "python", results[0].Unclosed.Info)
	assert.Equal(t, "code\nmore code", results[0].Unclosed.Content)
}

func TestExtractAllIndentedFence(t *testing.T) {
	results := ExtractAll("    ```python\n    code\n    ```")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "    ", results[0].Token.Indent)
	assert.Equal(t, "code", results[0].Token.Content)
}

func TestExtractAllMultipleBlocks(t *testing.T) {
	input := "text\n```python\ncode1\n```\nmore text\n```rust\ncode2\n```"
	results := ExtractAll(input)
	require.Len(t, results, 4)
	assert.NotEmpty(t, results[0].NotDelimited)
	assert.NotNil(t, results[1].Token)
	assert.NotEmpty(t, results[2].NotDelimited)
	assert.NotNil(t, results[3].Token)
}

func TestExtractAllEmptyBlock(t *testing.T) {
	results := ExtractAll("```python\n```")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "", results[0].Token.Content)
}

func TestExtractAllMultiline(t *testing.T) {
	results := ExtractAll("```python\nline1\nline2\nline3\n```")
	require.NotNil(t, results[0].Token)
	assert.Equal(t, "line1\nline2\nline3", results[0].Token.Content)
}

func TestExtractYAMLHeader(t *testing.T) {
	input := "---\ntitle: Test\nauthor: Me\n---\n# Content"
	header, ok := ExtractYAMLHeader(input)
	require.True(t, ok)
	assert.Equal(t, "title: Test\nauthor: Me", header.Content)
	assert.Equal(t, 4, header.LinesConsumed)
}

func TestExtractYAMLHeaderMissing(t *testing.T) {
	_, ok := ExtractYAMLHeader("# Just markdown\nNo frontmatter")
	assert.False(t, ok)
}

func TestExtractYAMLHeaderUnclosed(t *testing.T) {
	_, ok := ExtractYAMLHeader("---\ntitle: Test\nauthor: Me")
	assert.False(t, ok)
}

func TestSplitYAMLHeader(t *testing.T) {
	input := "---\ntitle: Test\n---\n# Content\nMore"
	header, ok, remaining := SplitYAMLHeader(input)
	require.True(t, ok)
	assert.Equal(t, 3, header.LinesConsumed)
	assert.Equal(t, "# Content\nMore", remaining)
}

func TestSplitYAMLHeaderNone(t *testing.T) {
	input := "# Content\nMore"
	_, ok, remaining := SplitYAMLHeader(input)
	assert.False(t, ok)
	assert.Equal(t, input, remaining)
}
