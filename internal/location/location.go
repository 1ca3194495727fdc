// Package location tracks file/line/column positions for diagnostics.
package location

import "fmt"

// Location is a position within a text file. Filename is empty when the
// text being parsed has no associated path (e.g. a string fed to the
// scanner directly from a test).
type Location struct {
	Filename string
	Line     int
	Column   int
}

// LineOnly builds a Location with no filename and column 1.
func LineOnly(line int) Location {
	return Location{Line: line, Column: 1}
}

// FileLine builds a Location with a filename and column 1.
func FileLine(filename string, line int) Location {
	return Location{Filename: filename, Line: line, Column: 1}
}

// WithFilename returns a copy of l with Filename set.
func (l Location) WithFilename(filename string) Location {
	l.Filename = filename
	return l
}

func (l Location) String() string {
	if l.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Column)
	}
	return fmt.Sprintf("line %d:%d", l.Line, l.Column)
}
