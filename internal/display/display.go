// Package display renders transaction plans, sync summaries, and error
// chains for the thin CLI front end. The teacher pack has no structured
// logging dependency — its own diagnostics go through internal/display
// as formatted stdout/stderr — so this module follows the same house
// style rather than introducing a logging library (see DESIGN.md).
package display

import (
	"errors"
	"fmt"
	"strings"

	"github.com/standardbeagle/entangled-go/internal/engine"
	"github.com/standardbeagle/entangled-go/internal/txn"
)

// Options controls rendering, mirroring the teacher's FormatterOptions
// shape (a format selector plus a couple of display toggles).
type Options struct {
	Format   string // not read by any formatter here; output is always plain text
	ShowDiff bool
}

// FormatTransaction renders a transaction's planned actions as a
// human-readable list, one line per action, with a unified diff appended
// per action when opts.ShowDiff is set.
func FormatTransaction(t *txn.Transaction, opts Options) string {
	if t == nil || t.IsEmpty() {
		return "no changes"
	}

	var sb strings.Builder
	for _, a := range t.Actions {
		sb.WriteString(a.Describe())
		sb.WriteByte('\n')
		if opts.ShowDiff {
			if d := txn.Diff(a); d != "" {
				sb.WriteString(d)
			}
		}
	}
	return sb.String()
}

// FormatStatus renders one line per target's Status verdict.
func FormatStatus(entries []engine.StatusEntry, opts Options) string {
	if len(entries) == 0 {
		return "nothing to report"
	}
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-12s %s\n", e.State, e.Target)
	}
	return sb.String()
}

// FormatError renders an error and its full Unwrap chain, one line per
// level, indented to show nesting — the same "walk the chain" idea the
// teacher's coordination_errors.go applies to its own wrapped errors.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var sb strings.Builder
	depth := 0
	for err != nil {
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", depth), err.Error())
		err = errors.Unwrap(err)
		depth++
	}
	return sb.String()
}
