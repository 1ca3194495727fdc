// Package scanner extracts fenced code blocks and YAML frontmatter from a
// literate document, tracking line numbers as it goes.
package scanner

import (
	"regexp"
	"strings"

	"github.com/standardbeagle/entangled-go/internal/location"
)

var fenceOpen = regexp.MustCompile(`^(\s*)(` + "`" + `{3,}|~{3,})(.*)$`)

// Token is a single fenced block extracted from the input: the info
// string from the opening fence, the de-indented content between the
// fences, the location of the opening fence, and the fence's own
// indentation (stripped from every content line that carried it).
type Token struct {
	Info     string
	Content  string
	Location location.Location
	Indent   string
}

// Result is the outcome of one extraction step: exactly one of Token,
// NotDelimited or Unclosed is populated, mirroring the Rust
// ExtractResult enum.
type Result struct {
	Token       *Token
	NotDelimited string
	Unclosed    *Token // Location/Info/Content/Indent populated
}

// Getter walks a document line by line, pulling out fenced tokens.
type Getter struct {
	line int
}

// NewGetter creates a getter starting at line 1.
func NewGetter() *Getter { return &Getter{line: 1} }

// NewGetterAt creates a getter starting at an arbitrary line number, used
// when scanning a slice of a larger document whose absolute line numbers
// matter (e.g. after a YAML header has been split off).
func NewGetterAt(line int) *Getter { return &Getter{line: line} }

// Extract pulls the next token from the remaining lines, advancing the
// cursor. It returns (Result{}, false) once lines is exhausted.
func (g *Getter) Extract(lines *lineCursor) (Result, bool) {
	line, ok := lines.next()
	if !ok {
		return Result{}, false
	}
	startLine := g.line
	g.line++

	m := fenceOpen.FindStringSubmatch(line)
	if m == nil {
		return Result{NotDelimited: line}, true
	}
	indent, fence := m[1], m[2]
	info := strings.TrimSpace(m[3])
	fenceChar := fence[0]
	fenceLen := len(fence)

	closeRe := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(string(fenceChar)) + `{` + itoa(fenceLen) + `,}\s*$`)

	var content []string
	for {
		contentLine, ok := lines.next()
		if !ok {
			return Result{Unclosed: &Token{
				Info:     info,
				Content:  strings.Join(content, "\n"),
				Location: location.LineOnly(startLine),
				Indent:   indent,
			}}, true
		}
		g.line++
		if closeRe.MatchString(contentLine) {
			return Result{Token: &Token{
				Info:     info,
				Content:  strings.Join(content, "\n"),
				Location: location.LineOnly(startLine),
				Indent:   indent,
			}}, true
		}
		stripped := contentLine
		if strings.HasPrefix(contentLine, indent) {
			stripped = contentLine[len(indent):]
		}
		content = append(content, stripped)
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// lineCursor is a simple forward iterator over a document split on "\n",
// kept as its own type so successive Extract calls resume where the
// previous one stopped.
type lineCursor struct {
	lines []string
	pos   int
}

func newLineCursor(s string) *lineCursor {
	return &lineCursor{lines: strings.Split(s, "\n")}
}

func (c *lineCursor) next() (string, bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	l := c.lines[c.pos]
	c.pos++
	return l, true
}

// ExtractAll runs a fresh Getter over the whole input and returns every
// result in order — the convenience entry point most callers use.
func ExtractAll(input string) []Result {
	return ExtractAllAt(input, 1)
}

// ExtractAllAt is ExtractAll but starting line numbers at startLine,
// for use on a slice of a document (e.g. after the YAML header).
func ExtractAllAt(input string, startLine int) []Result {
	g := NewGetterAt(startLine)
	cur := newLineCursor(input)
	var results []Result
	for {
		r, ok := g.Extract(cur)
		if !ok {
			break
		}
		results = append(results, r)
	}
	return results
}

// YAMLHeader is the YAML frontmatter block at the top of a document.
type YAMLHeader struct {
	Content       string
	Location      location.Location
	LinesConsumed int // includes both `---` delimiters
}

// ExtractYAMLHeader returns the frontmatter block at the start of input,
// or ok=false if the document doesn't open with a `---` line, or the
// delimiter is never closed.
func ExtractYAMLHeader(input string) (YAMLHeader, bool) {
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return YAMLHeader{}, false
	}

	var content []string
	lineCount := 1
	for _, line := range lines[1:] {
		lineCount++
		if strings.TrimSpace(line) == "---" {
			return YAMLHeader{
				Content:       strings.Join(content, "\n"),
				Location:      location.LineOnly(1),
				LinesConsumed: lineCount,
			}, true
		}
		content = append(content, line)
	}
	return YAMLHeader{}, false
}

// SplitYAMLHeader splits input into its YAML header (if any) and the
// remaining document text. The remaining text starts at the first line
// after the closing `---`.
func SplitYAMLHeader(input string) (YAMLHeader, bool, string) {
	header, ok := ExtractYAMLHeader(input)
	if !ok {
		return YAMLHeader{}, false, input
	}

	lines := strings.SplitAfter(input, "\n")
	var pos, lineCount int
	for _, line := range lines {
		lineCount++
		pos += len(line)
		if lineCount >= header.LinesConsumed {
			break
		}
	}
	if pos > len(input) {
		pos = len(input)
	}
	return header, true, input[pos:]
}
