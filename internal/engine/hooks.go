package engine

import (
	"strings"

	"github.com/standardbeagle/entangled-go/internal/tangle"
)

// applyShebangHook hoists a leading "#!" line to the very top of the
// output. Per original_source's hooks/shebang.rs, it only ever looks at
// the first emitted block's first content line — in annotated mode that
// is the line right after the first begin marker — and fires at most
// once per file.
func applyShebangHook(content string, mode tangle.ModeKind) string {
	lines := strings.Split(content, "\n")
	firstContentIdx := 0
	if mode == tangle.ModeAnnotated && len(lines) > 0 {
		firstContentIdx = 1
	}
	if firstContentIdx >= len(lines) {
		return content
	}
	if !strings.HasPrefix(lines[firstContentIdx], "#!") {
		return content
	}

	shebang := lines[firstContentIdx]
	rest := append(append([]string{}, lines[:firstContentIdx]...), lines[firstContentIdx+1:]...)
	out := append([]string{shebang}, rest...)
	return strings.Join(out, "\n")
}

// applySPDXHook hoists the first SPDX-License-Identifier comment to the
// top of the output (after any shebang). It only matches the language's
// single-line comment prefix — block-comment-only languages (Suffix !=
// "") are skipped entirely, per original_source's hooks/spdx_license.rs.
func applySPDXHook(content string, comment tangle.CommentStyle) string {
	if comment.Suffix != "" || comment.Prefix == "" {
		return content
	}
	marker := comment.Prefix + " SPDX-License-Identifier:"
	lines := strings.Split(content, "\n")

	idx := -1
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), marker) {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return content // not found, or already first line
	}

	spdx := lines[idx]
	rest := append(append([]string{}, lines[:idx]...), lines[idx+1:]...)

	insertAt := 0
	if len(rest) > 0 && strings.HasPrefix(rest[0], "#!") {
		insertAt = 1
	}
	out := append(append(append([]string{}, rest[:insertAt]...), spdx), rest[insertAt:]...)
	return strings.Join(out, "\n")
}

// runPostTangleHooks applies the built-in shebang and SPDX hooks to
// content destined for a file target, per spec.md §6's hook contract.
// The SPDX hook runs only in annotated mode, where a comment style is
// known; naked and bare output get the shebang hook alone.
func runPostTangleHooks(content string, mode tangle.Mode) string {
	content = applyShebangHook(content, mode.Kind)
	if mode.Kind == tangle.ModeAnnotated {
		content = applySPDXHook(content, mode.Comment)
	}
	return content
}
