package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
)

// LoadKDL reads a .entangled.kdl sidecar file from dir, the same way the
// teacher reads its own .lci.kdl. A missing sidecar is not an error: it
// yields Default(). This function, like the teacher's LoadKDL, is a
// thin orchestration helper — the core packages never call it, per
// spec.md §1's external-configuration-loading boundary.
func LoadKDL(dir string) (EngineConfig, error) {
	path := filepath.Join(dir, ".entangled.kdl")
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return EngineConfig{}, entangledErrors.NewConfigError("reading "+path, err)
	}
	return parseKDL(string(content))
}

// parseKDL parses KDL content into an EngineConfig, starting from
// Default() and overlaying whatever sections are present.
func parseKDL(content string) (EngineConfig, error) {
	cfg := Default()
	if strings.TrimSpace(content) == "" {
		return cfg, nil
	}

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return EngineConfig{}, entangledErrors.NewConfigError("parsing KDL config", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "style":
			if s, ok := firstStringArg(n); ok {
				style, ok := parseStyle(s)
				if !ok {
					return EngineConfig{}, entangledErrors.NewConfigError(fmt.Sprintf("unknown style %q", s), nil)
				}
				cfg.Style = style
			}
		case "namespace_default":
			if s, ok := firstStringArg(n); ok {
				ns, ok := parseNamespaceDefault(s)
				if !ok {
					return EngineConfig{}, entangledErrors.NewConfigError(fmt.Sprintf("unknown namespace_default %q", s), nil)
				}
				cfg.NamespaceDefault = ns
			}
		case "strip_quarto_options":
			if b, ok := firstBoolArg(n); ok {
				cfg.StripQuartoOptions = b
			}
		case "filedb":
			if s, ok := firstStringArg(n); ok {
				cfg.FileDBPath = s
			}
		case "annotation":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "mode":
					if s, ok := firstStringArg(cn); ok {
						mode, ok := parseMode(s)
						if !ok {
							return EngineConfig{}, entangledErrors.NewConfigError(fmt.Sprintf("unknown annotation mode %q", s), nil)
						}
						cfg.Mode = mode
					}
				case "open":
					assignSimpleString(cn, "open", func(v string) { cfg.Markers.Open = v })
				case "close":
					assignSimpleString(cn, "close", func(v string) { cfg.Markers.Close = v })
				case "begin":
					assignSimpleString(cn, "begin", func(v string) { cfg.Markers.Begin = v })
				case "end":
					assignSimpleString(cn, "end", func(v string) { cfg.Markers.End = v })
				}
			}
		case "comment":
			args := collectStringArgs(n)
			if len(args) == 2 {
				cfg.CommentOverrides[args[0]] = args[1]
			}
		}
	}

	return cfg, nil
}

// The following helpers mirror the teacher's kdl-go document-walking
// helpers (internal/config/kdl_config.go): small free functions over
// *document.Node rather than a generic decoder, since the schema here is
// tiny and fixed.

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
