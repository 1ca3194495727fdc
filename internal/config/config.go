// Package config defines EngineConfig, the plain value the core's entry
// points take instead of ever loading a path themselves — spec.md §1
// keeps configuration file loading an external concern. This package
// also hosts the one loader allowed to touch disk, LoadKDL, which is
// only ever called from cmd/entangled.
package config

import (
	"strings"

	"github.com/standardbeagle/entangled-go/internal/properties"
	"github.com/standardbeagle/entangled-go/internal/tangle"
)

// NamespaceDefault controls whether a bare block id is namespaced by its
// document's file name (spec.md §3).
type NamespaceDefault int

const (
	NamespaceFile NamespaceDefault = iota
	NamespaceNone
)

// AnnotationMode selects the tangle output mode (spec.md §2, Glossary).
// Supplemental behaves like Standard for tangling but is tracked
// separately because spec.md §9 flags inconsistent stitchability across
// the two in the original sources; this module stitches both uniformly
// (see DESIGN.md).
type AnnotationMode int

const (
	ModeStandard AnnotationMode = iota
	ModeSupplemental
	ModeBare
	ModeNaked
)

// Stitchable reports whether a tangled file produced under this mode can
// be read back by the reverse reader. Naked and bare output carry no
// markers, so neither is stitchable.
func (m AnnotationMode) Stitchable() bool {
	return m == ModeStandard || m == ModeSupplemental
}

// Markers mirrors tangle.Markers as a config-layer value so callers never
// need to import internal/tangle just to build a config.
type Markers struct {
	Open, Close, Begin, End string
}

// ToTangle converts to the tangle package's Markers type.
func (m Markers) ToTangle() tangle.Markers {
	return tangle.Markers{Open: m.Open, Close: m.Close, Begin: m.Begin, End: m.End}
}

// DefaultMarkers returns the spec.md §4.4 defaults.
func DefaultMarkers() Markers {
	return Markers{Open: "<<", Close: ">>", Begin: "begin", End: "end"}
}

// EngineConfig is the value every core entry point takes: style,
// namespace default, annotation mode and markers, comment-table
// overrides, and the file database path.
type EngineConfig struct {
	Style              properties.Style
	NamespaceDefault   NamespaceDefault
	Mode               AnnotationMode
	Markers            Markers
	CommentOverrides   map[string]string
	FileDBPath         string
	StripQuartoOptions bool
}

// Default returns the spec-mandated defaults: Entangled-native style,
// namespace-by-file-name on, standard annotated tangling, default
// markers, no comment overrides, and the §4.8 default filedb path.
func Default() EngineConfig {
	return EngineConfig{
		Style:              properties.StyleEntangledNative,
		NamespaceDefault:   NamespaceFile,
		Mode:               ModeStandard,
		Markers:            DefaultMarkers(),
		CommentOverrides:   map[string]string{},
		FileDBPath:         ".entangled/filedb.json",
		StripQuartoOptions: true,
	}
}

// CommentFor resolves the comment style for a block's language under
// this configuration's overrides.
func (c EngineConfig) CommentFor(language string) tangle.CommentStyle {
	return tangle.CommentFor(language, c.CommentOverrides)
}

func parseStyle(s string) (properties.Style, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "entangled-native", "entangled_native":
		return properties.StyleEntangledNative, true
	case "pandoc":
		return properties.StylePandoc, true
	case "knitr":
		return properties.StyleKnitr, true
	case "quarto":
		return properties.StyleQuarto, true
	default:
		return 0, false
	}
}

func parseNamespaceDefault(s string) (NamespaceDefault, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file":
		return NamespaceFile, true
	case "none":
		return NamespaceNone, true
	default:
		return 0, false
	}
}

func parseMode(s string) (AnnotationMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard":
		return ModeStandard, true
	case "supplemental":
		return ModeSupplemental, true
	case "bare":
		return ModeBare, true
	case "naked":
		return ModeNaked, true
	default:
		return 0, false
	}
}
