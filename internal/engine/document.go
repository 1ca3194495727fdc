// Package engine is the orchestration layer: it composes the reference
// graph (C4), tangle expander (C5), reverse reader (C6), and transaction
// layer (C7) into the Tangle, Stitch, and Sync entry points spec.md §4.6
// and §4.7 describe, plus the status/locate conveniences spec.md's
// original sources supported.
package engine

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/entangled-go/internal/config"
	"github.com/standardbeagle/entangled-go/internal/properties"
	"github.com/standardbeagle/entangled-go/internal/refgraph"
	"github.com/standardbeagle/entangled-go/internal/scanner"
	"github.com/standardbeagle/entangled-go/internal/stitch"
)

// Document is a parsed source document: its own reference graph, the raw
// frontmatter text, the source path, and the block locations needed to
// splice stitch edits back in. Per spec.md §3 it is produced once and
// never mutated.
type Document struct {
	Path        string
	RawText     string
	Frontmatter string
	Graph       *refgraph.Graph
	BlockLocs   map[refgraph.ID]stitch.BlockLoc
}

// ParseDocument splits YAML frontmatter, scans fenced blocks, parses
// each fence's info string under the configured style, and inserts every
// non-anonymous block into a fresh per-document graph (spec.md §4.6
// steps 1-3).
func ParseDocument(path, text string, cfg config.EngineConfig) (*Document, error) {
	header, hasHeader, body := scanner.SplitYAMLHeader(text)
	startLine := 1
	frontmatter := ""
	if hasHeader {
		startLine = header.LinesConsumed + 1
		frontmatter = header.Content
	}

	doc := &Document{
		Path:        path,
		RawText:     text,
		Frontmatter: frontmatter,
		Graph:       refgraph.New(),
		BlockLocs:   make(map[refgraph.ID]stitch.BlockLoc),
	}

	style := properties.StyleForExtension(path, cfg.Style)
	results := scanner.ExtractAllAt(body, startLine)

	for _, r := range results {
		tok := r.Token
		if tok == nil {
			continue // NotDelimited or Unclosed: unclosed fences contribute no block
		}

		propList, source, err := parseFenceProperties(style, tok.Info, tok.Content, cfg)
		if err != nil {
			return nil, err
		}

		id, hasID := propList.ID()
		target, hasTarget := propList.Target()
		if !hasID && !hasTarget {
			continue // anonymous block: silently ignored
		}

		name := resolveName(path, id, hasID, target, hasTarget, cfg.NamespaceDefault)
		language, _ := propList.Language()

		attrs := make(map[string]string)
		for _, p := range propList.Attributes() {
			attrs[p.Key] = p.Value
		}

		block := refgraph.Block{
			ID:         refgraph.ID{Name: name},
			Language:   language,
			Source:     source,
			Location:   tok.Location,
			Classes:    propList.Classes(),
			Attributes: attrs,
		}
		if hasTarget {
			block.Target = target
		}

		assigned := doc.Graph.Insert(block)

		contentStart := tok.Location.Line + 1
		contentEnd := contentStart + lineCount(source)
		doc.BlockLocs[assigned] = stitch.BlockLoc{
			DocPath:      path,
			ContentStart: contentStart,
			ContentEnd:   contentEnd,
		}
	}

	return doc, nil
}

// parseFenceProperties dispatches to the style-appropriate grammar,
// handling Quarto's body-level "#|" option lines specially (spec.md
// §4.1).
func parseFenceProperties(style properties.Style, info, content string, cfg config.EngineConfig) (properties.List, string, error) {
	if style != properties.StyleQuarto {
		propList, err := properties.Parse(style, info)
		return propList, content, err
	}

	infoProps, err := properties.ParseQuartoInfo(info)
	if err != nil {
		return properties.List{}, "", err
	}
	language, _ := infoProps.Language()
	opts, remaining := properties.ExtractQuartoOptions(content)
	propList := opts.ToProperties(language)

	source := content
	if cfg.StripQuartoOptions {
		source = remaining
	}
	return propList, source, nil
}

// resolveName implements spec.md §4.6 step 3's name resolution.
func resolveName(docPath, id string, hasID bool, target string, hasTarget bool, ns config.NamespaceDefault) string {
	if hasID {
		if ns == config.NamespaceFile {
			return docBaseName(docPath) + "#" + id
		}
		return id
	}
	return "file:" + target
}

func docBaseName(path string) string {
	return filepath.Base(path)
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
