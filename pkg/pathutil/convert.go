// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Architecture Pattern:
// The engine operates on whatever paths its caller hands it — Document.Path and every
// txn.Action target are kept exactly as given, with no normalization to absolute form.
// That pushes the absolute/relative boundary out to the CLI and to external language
// bindings: this is the one package meant to be imported from outside the module, so
// output boundaries can present root-relative paths to a user while the engine itself
// stays agnostic about it.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/entangled-go/internal/engine"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	// Handle empty inputs
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	// Clean both paths to normalize separators and remove redundant elements
	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	// Try to make relative
	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// If the relative path starts with ".." it means the file is outside the root
	// In this case, return the absolute path as it's clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeStatusEntries converts Target paths in a StatusEntry slice from
// absolute to relative. Creates a new slice without modifying the original.
//
// This function is designed for use at output boundaries where results are
// displayed to users:
//   - CLI status output
//   - JSON serialization
//   - Language-binding responses
func ToRelativeStatusEntries(entries []engine.StatusEntry, rootDir string) []engine.StatusEntry {
	if len(entries) == 0 {
		return entries
	}

	// Create a copy to avoid modifying the original
	converted := make([]engine.StatusEntry, len(entries))
	copy(converted, entries)

	for i := range converted {
		converted[i].Target = ToRelative(converted[i].Target, rootDir)
	}

	return converted
}

// ToRelativeLocateResult converts a LocateResult's DocPath from absolute to
// relative, for use at the same output boundaries as ToRelativeStatusEntries.
func ToRelativeLocateResult(result engine.LocateResult, rootDir string) engine.LocateResult {
	result.DocPath = ToRelative(result.DocPath, rootDir)
	return result
}
