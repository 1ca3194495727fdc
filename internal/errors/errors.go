// Package errors defines the typed error kinds the core raises, following
// the error-type-plus-constructor shape the rest of the lci error package
// used, rather than bare errors.New/fmt.Errorf everywhere.
package errors

import (
	"fmt"

	"github.com/standardbeagle/entangled-go/internal/location"
)

// Kind classifies an error for the exit-code taxonomy and for callers that
// want to branch on error category without type-asserting every variant.
type Kind string

const (
	KindIO           Kind = "io"
	KindConfig       Kind = "config"
	KindParse        Kind = "parse"
	KindReference    Kind = "reference"
	KindFileConflict Kind = "file_conflict"
	KindTransaction  Kind = "transaction"
	KindInternal     Kind = "internal"
)

// ReferenceError covers every §7 "Reference" error: not-found, cycle,
// duplicate insertion, and unknown language.
type ReferenceError struct {
	Op         string // "not_found", "cycle", "duplicate", "unknown_language"
	Name       string
	Cycle      []string // populated for Op == "cycle"
	Suggestion string   // fuzzy-matched near-miss for Op == "not_found"
	Location   location.Location
}

func (e *ReferenceError) Error() string {
	switch e.Op {
	case "cycle":
		return fmt.Sprintf("cycle detected in references: %v", e.Cycle)
	case "duplicate":
		return fmt.Sprintf("duplicate reference: %s", e.Name)
	case "unknown_language":
		return fmt.Sprintf("unknown language: %s", e.Name)
	default:
		if e.Suggestion != "" {
			return fmt.Sprintf("reference not found: %s (did you mean %q?)", e.Name, e.Suggestion)
		}
		return fmt.Sprintf("reference not found: %s", e.Name)
	}
}

func NewReferenceNotFound(name string, loc location.Location) *ReferenceError {
	return &ReferenceError{Op: "not_found", Name: name, Location: loc}
}

func NewCycleDetected(cycle []string) *ReferenceError {
	return &ReferenceError{Op: "cycle", Cycle: cycle}
}

func NewDuplicateReference(name string) *ReferenceError {
	return &ReferenceError{Op: "duplicate", Name: name}
}

func NewUnknownLanguage(name string) *ReferenceError {
	return &ReferenceError{Op: "unknown_language", Name: name}
}

// ParseError is a structural parse failure carrying a text location.
type ParseError struct {
	Location location.Location
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Location, e.Message)
}

func NewParseError(loc location.Location, format string, args ...any) *ParseError {
	return &ParseError{Location: loc, Message: fmt.Sprintf(format, args...)}
}

// ConfigError wraps unparseable fence info, unknown properties, and
// unknown annotation modes.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{Message: message, Err: err}
}

// ConflictError is raised when a tracked output changed on disk since the
// last commit. It is the only error kind with a defined recovery path:
// the caller reruns with force.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file conflict: %s has been modified externally", e.Path)
}

func NewConflictError(path string) *ConflictError {
	return &ConflictError{Path: path}
}

// InternalError marks a should-not-happen invariant violation.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Message)
}

func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// ExitCode implements the §6 exit-code taxonomy for the thin CLI front end.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch err.(type) {
	case *ConflictError:
		return 1
	case *ConfigError:
		return 2
	case *ReferenceError:
		return 4
	case *ParseError, *InternalError:
		return 5
	default:
		return 3 // I/O or anything uncategorized falls to the I/O bucket
	}
}
