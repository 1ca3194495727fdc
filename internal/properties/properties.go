// Package properties parses a fence info-string into an ordered list of
// class/id/attribute properties, per the four supported document styles.
package properties

import (
	"fmt"
	"strings"
)

// Kind tags which variant a Property holds.
type Kind int

const (
	KindClass Kind = iota
	KindID
	KindAttribute
)

// Property is one entry from a fence info-string: a class, an id, or a
// key/value attribute. It is a tagged sum rather than an interface
// hierarchy, mirroring the teacher's preference for small tagged structs
// over inheritance.
type Property struct {
	Kind  Kind
	Key   string // attribute key; unused for Class/ID
	Value string // class name, id name, or attribute value
}

func Class(v string) Property        { return Property{Kind: KindClass, Value: v} }
func ID(v string) Property           { return Property{Kind: KindID, Value: v} }
func Attribute(k, v string) Property { return Property{Kind: KindAttribute, Key: k, Value: v} }

// List is an ordered property list with accessors mirroring the spec's
// "derived accessors" (§4.1): language, id, target.
type List struct {
	Items []Property
}

func New(items []Property) List { return List{Items: items} }

func (l List) Classes() []string {
	var out []string
	for _, p := range l.Items {
		if p.Kind == KindClass {
			out = append(out, p.Value)
		}
	}
	return out
}

// Language returns the first class, which by convention is the block's
// language identifier.
func (l List) Language() (string, bool) {
	for _, p := range l.Items {
		if p.Kind == KindClass {
			return p.Value, true
		}
	}
	return "", false
}

func (l List) ID() (string, bool) {
	for _, p := range l.Items {
		if p.Kind == KindID {
			return p.Value, true
		}
	}
	return "", false
}

func (l List) Attributes() []Property {
	var out []Property
	for _, p := range l.Items {
		if p.Kind == KindAttribute {
			out = append(out, p)
		}
	}
	return out
}

func (l List) GetAttribute(key string) (string, bool) {
	for _, p := range l.Items {
		if p.Kind == KindAttribute && p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Target returns the file= attribute, i.e. the file-target path.
func (l List) Target() (string, bool) {
	return l.GetAttribute("file")
}

func isIdentChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '_' || c == '-' || c == ':' || c == '/' || c == '.'
}

// identScanner walks a small hand-written scanner over the Entangled-native
// grammar: whitespace-separated tokens, first bare, rest prefixed.
type identScanner struct {
	s   string
	pos int
}

func (p *identScanner) skipSpace() {
	for p.pos < len(p.s) && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
	}
}

func (p *identScanner) eof() bool { return p.pos >= len(p.s) }

func (p *identScanner) peek() byte {
	if p.eof() {
		return 0
	}
	return p.s[p.pos]
}

func (p *identScanner) readIdent() (string, error) {
	start := p.pos
	for p.pos < len(p.s) && isIdentChar(rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected identifier at offset %d", start)
	}
	return p.s[start:p.pos], nil
}

func (p *identScanner) readQuoted() (string, error) {
	if p.peek() != '"' {
		return "", fmt.Errorf("expected opening quote at offset %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", fmt.Errorf("unterminated quoted value")
		}
		c := p.s[p.pos]
		if c == '\\' && p.pos+1 < len(p.s) {
			next := p.s[p.pos+1]
			switch next {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(next)
			}
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *identScanner) readValue() (string, error) {
	if p.peek() == '"' {
		return p.readQuoted()
	}
	return p.readIdent()
}

// readProperty parses one prefixed property: .class, #id, key=value.
func (p *identScanner) readProperty() (Property, error) {
	switch p.peek() {
	case '.':
		p.pos++
		id, err := p.readIdent()
		if err != nil {
			return Property{}, err
		}
		return Class(id), nil
	case '#':
		p.pos++
		id, err := p.readIdent()
		if err != nil {
			return Property{}, err
		}
		return ID(id), nil
	default:
		key, err := p.readIdent()
		if err != nil {
			return Property{}, err
		}
		if p.peek() != '=' {
			return Property{}, fmt.Errorf("expected '=' after %q at offset %d", key, p.pos)
		}
		p.pos++
		val, err := p.readValue()
		if err != nil {
			return Property{}, err
		}
		return Attribute(key, val), nil
	}
}

// ParseNative parses the Entangled-native grammar (also used, wrapped in
// braces, by ParsePandoc): whitespace-separated tokens; the first token may
// be an unprefixed class (the language); every later token must be
// prefixed.
func ParseNative(info string) (List, error) {
	p := &identScanner{s: strings.TrimSpace(info)}
	p.skipSpace()
	var items []Property

	if p.eof() {
		return New(nil), nil
	}

	first, err := p.readFirst()
	if err != nil {
		return List{}, err
	}
	items = append(items, first)

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		prop, err := p.readProperty()
		if err != nil {
			return List{}, err
		}
		items = append(items, prop)
	}
	return New(items), nil
}

// readFirst parses the first property, which may be a bare identifier
// (the language) in addition to the usual prefixed forms.
func (p *identScanner) readFirst() (Property, error) {
	switch p.peek() {
	case '.', '#':
		return p.readProperty()
	default:
		// Could be `key=value` or a bare language identifier; read the
		// identifier first and check what follows.
		start := p.pos
		id, err := p.readIdent()
		if err != nil {
			return Property{}, err
		}
		if p.peek() == '=' {
			p.pos++
			val, err := p.readValue()
			if err != nil {
				return Property{}, err
			}
			return Attribute(id, val), nil
		}
		_ = start
		return Class(id), nil
	}
}

func stripBraces(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// ParsePandoc strips the outer {…} and parses with ParseNative.
func ParsePandoc(info string) (List, error) {
	return ParseNative(stripBraces(info))
}

// splitKnitrOptions splits a knitr info string on commas, respecting
// quoted values.
func splitKnitrOptions(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			cur.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		parts = append(parts, strings.TrimSpace(cur.String()))
	}
	return parts
}

func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ParseKnitr parses the comma-separated knitr grammar: first bare token is
// the language, label= becomes an Id, other key=value pairs become
// attributes, and a lone key means Attribute(key, "true").
func ParseKnitr(info string) (List, error) {
	inner := stripBraces(info)
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return New(nil), nil
	}

	var items []Property
	for i, part := range splitKnitrOptions(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i == 0 && !strings.Contains(part, "=") {
			items = append(items, Class(part))
			continue
		}
		if key, val, ok := strings.Cut(part, "="); ok {
			key = strings.TrimSpace(key)
			val = stripQuotes(val)
			if key == "label" {
				items = append(items, ID(val))
			} else {
				items = append(items, Attribute(key, val))
			}
			continue
		}
		items = append(items, Attribute(part, "true"))
	}
	return New(items), nil
}

// ParseQuartoInfo extracts only the language from a Quarto info string,
// e.g. "{python}".
func ParseQuartoInfo(info string) (List, error) {
	inner := strings.TrimSpace(stripBraces(info))
	if inner == "" {
		return New(nil), nil
	}
	return New([]Property{Class(inner)}), nil
}

// QuartoOptions holds the #| option lines collected from a Quarto block
// body.
type QuartoOptions struct {
	Label string
	File  string
	Other []Property
}

func (o QuartoOptions) IsEmpty() bool {
	return o.Label == "" && o.File == "" && len(o.Other) == 0
}

func (o *QuartoOptions) set(key, value string) {
	switch key {
	case "label":
		o.Label = value
	case "file":
		o.File = value
	default:
		o.Other = append(o.Other, Attribute(key, value))
	}
}

// ToProperties converts the collected options (plus an optional language)
// into a property List, the same shape ParseNative/ParsePandoc produce.
func (o QuartoOptions) ToProperties(language string) List {
	var items []Property
	if language != "" {
		items = append(items, Class(language))
	}
	if o.Label != "" {
		items = append(items, ID(o.Label))
	}
	if o.File != "" {
		items = append(items, Attribute("file", o.File))
	}
	items = append(items, o.Other...)
	return New(items)
}

func parseQuartoOptionLine(line string) (string, string, bool) {
	if key, val, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), stripQuotes(strings.TrimSpace(val)), true
	}
	if key, val, ok := strings.Cut(line, "="); ok && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), stripQuotes(strings.TrimSpace(val)), true
	}
	return "", "", false
}

// ExtractQuartoOptions pulls `#|` option lines out of a Quarto block body,
// returning the parsed options and the remaining content with those lines
// removed.
func ExtractQuartoOptions(content string) (QuartoOptions, string) {
	var opts QuartoOptions
	var remaining []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if rest, ok := strings.CutPrefix(trimmed, "#|"); ok {
			rest = strings.TrimSpace(rest)
			if key, val, ok := parseQuartoOptionLine(rest); ok {
				opts.set(key, val)
			}
			continue
		}
		remaining = append(remaining, line)
	}
	return opts, strings.Join(remaining, "\n")
}

// Style enumerates the four fence-info grammars spec.md §4.1 names.
type Style int

const (
	StyleEntangledNative Style = iota
	StylePandoc
	StyleKnitr
	StyleQuarto
)

// StyleForExtension chooses a document style by file extension, falling
// back to the configured default when the extension gives no signal.
func StyleForExtension(filename string, configured Style) Style {
	switch {
	case strings.HasSuffix(filename, ".qmd"):
		return StyleQuarto
	case strings.HasSuffix(filename, ".Rmd"):
		return StyleKnitr
	default:
		return configured
	}
}

// Parse dispatches to the style-appropriate grammar.
func Parse(style Style, info string) (List, error) {
	switch style {
	case StylePandoc:
		return ParsePandoc(info)
	case StyleKnitr:
		return ParseKnitr(info)
	case StyleQuarto:
		return ParseQuartoInfo(info)
	default:
		return ParseNative(info)
	}
}
