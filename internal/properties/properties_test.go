package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNative(t *testing.T) {
	cases := []struct {
		name string
		info string
		want []Property
	}{
		{"bare language", "python", []Property{Class("python")}},
		{"language and id", "python #main", []Property{Class("python"), ID("main")}},
		{
			"language id and target",
			`python #main file="src/main.py"`,
			[]Property{Class("python"), ID("main"), Attribute("file", "src/main.py")},
		},
		{"empty", "", nil},
		{"class prefixed language", ".python #main", []Property{Class("python"), ID("main")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseNative(tc.info)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Items)
		})
	}
}

func TestParsePandoc(t *testing.T) {
	got, err := ParsePandoc(`{.python #main file="src/main.py"}`)
	require.NoError(t, err)
	lang, ok := got.Language()
	require.True(t, ok)
	assert.Equal(t, "python", lang)
	id, ok := got.ID()
	require.True(t, ok)
	assert.Equal(t, "main", id)
	target, ok := got.Target()
	require.True(t, ok)
	assert.Equal(t, "src/main.py", target)
}

func TestParseKnitr(t *testing.T) {
	got, err := ParseKnitr(`python, label="main", file="src/main.py"`)
	require.NoError(t, err)
	lang, ok := got.Language()
	require.True(t, ok)
	assert.Equal(t, "python", lang)
	id, ok := got.ID()
	require.True(t, ok)
	assert.Equal(t, "main", id)
	target, ok := got.Target()
	require.True(t, ok)
	assert.Equal(t, "src/main.py", target)
}

func TestParseKnitrBareFlag(t *testing.T) {
	got, err := ParseKnitr("python, echo")
	require.NoError(t, err)
	val, ok := got.GetAttribute("echo")
	require.True(t, ok)
	assert.Equal(t, "true", val)
}

func TestParseQuartoInfo(t *testing.T) {
	got, err := ParseQuartoInfo("{python}")
	require.NoError(t, err)
	lang, ok := got.Language()
	require.True(t, ok)
	assert.Equal(t, "python", lang)
}

func TestExtractQuartoOptions(t *testing.T) {
	body := "#| label: main\n#| file: src/main.py\nprint(1)\n"
	opts, remaining := ExtractQuartoOptions(body)
	assert.Equal(t, "main", opts.Label)
	assert.Equal(t, "src/main.py", opts.File)
	assert.Equal(t, "print(1)\n", remaining)
}

func TestExtractQuartoOptionsNoOptions(t *testing.T) {
	body := "print(1)\n"
	opts, remaining := ExtractQuartoOptions(body)
	assert.True(t, opts.IsEmpty())
	assert.Equal(t, body, remaining)
}

func TestQuartoOptionsToProperties(t *testing.T) {
	opts := QuartoOptions{Label: "main", File: "src/main.py"}
	list := opts.ToProperties("python")
	lang, _ := list.Language()
	id, _ := list.ID()
	target, _ := list.Target()
	assert.Equal(t, "python", lang)
	assert.Equal(t, "main", id)
	assert.Equal(t, "src/main.py", target)
}

func TestStyleForExtension(t *testing.T) {
	assert.Equal(t, StyleQuarto, StyleForExtension("doc.qmd", StyleEntangledNative))
	assert.Equal(t, StyleKnitr, StyleForExtension("doc.Rmd", StyleEntangledNative))
	assert.Equal(t, StylePandoc, StyleForExtension("doc.md", StylePandoc))
}
