package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citefill/internal/reference"
)

// Entry is one @-block of a BibTeX file.
type Entry struct {
	Type   string            // Lower-cased entry type ("article", "comment", ...)
	Key    string            // Citation key, empty for @comment, @preamble and @string
	Fields map[string]string // Lower-cased field name to value, outer delimiters removed
	Raw    string            // Source text from '@' through the closing delimiter
	Line   int               // 1-based line of the '@'
}

// Title returns the entry's title field, or "" if it has none.
func (e Entry) Title() string {
	return e.Fields["title"]
}

// Bibliography is the ordered list of entries read from a BibTeX file.
// Text between entries is not retained.
type Bibliography struct {
	Entries []Entry
}

// ParseError reports an entry whose closing delimiter was never found.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bibtex line %d: %s", e.Line, e.Msg)
}

// ReadBibTeXFile parses the BibTeX file at path.
// Returns an empty bibliography if the file doesn't exist.
func ReadBibTeXFile(path string) (*Bibliography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Bibliography{}, nil
		}
		return nil, fmt.Errorf("reading bibliography: %w", err)
	}

	bib, err := ParseBibTeX(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return bib, nil
}

// WriteBibTeXFile overwrites path with content.
func WriteBibTeXFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	return nil
}

// ParseBibTeX splits src into entries. Each entry keeps its exact source
// text; fields are parsed on a best-effort basis and parsing of an entry's
// fields stops at the first malformed one.
func ParseBibTeX(src string) (*Bibliography, error) {
	bib := &Bibliography{}

	pos := 0
	for {
		at := strings.IndexByte(src[pos:], '@')
		if at < 0 {
			break
		}
		at += pos

		entry, next, ok, err := parseBlock(src, at)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Stray '@' outside an entry (e.g. an email address in a comment)
			pos = at + 1
			continue
		}
		bib.Entries = append(bib.Entries, entry)
		pos = next
	}

	return bib, nil
}

// TitleIndex maps normalized titles to entries. When two entries share a
// title the later one wins.
func (b *Bibliography) TitleIndex() map[string]*Entry {
	idx := make(map[string]*Entry, len(b.Entries))
	for i := range b.Entries {
		title := b.Entries[i].Title()
		if title == "" {
			continue
		}
		idx[reference.NormalizeTitle(title)] = &b.Entries[i]
	}
	return idx
}

// Serialize returns the existing entries in their original form followed by
// additions, separated by blank lines.
func (b *Bibliography) Serialize(additions []string) string {
	parts := make([]string, 0, len(b.Entries)+len(additions))
	for _, e := range b.Entries {
		parts = append(parts, e.Raw)
	}
	parts = append(parts, additions...)
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// parseBlock parses the @-block starting at src[at]. ok is false when the
// '@' does not start an entry.
func parseBlock(src string, at int) (entry Entry, next int, ok bool, err error) {
	i := at + 1
	for i < len(src) && isLetter(src[i]) {
		i++
	}
	if i == at+1 {
		return Entry{}, 0, false, nil
	}
	typ := strings.ToLower(src[at+1 : i])

	open := skipSpace(src, i)
	if open >= len(src) || (src[open] != '{' && src[open] != '(') {
		return Entry{}, 0, false, nil
	}

	line := 1 + strings.Count(src[:at], "\n")
	end, ok := matchDelimiter(src, open)
	if !ok {
		return Entry{}, 0, false, &ParseError{Line: line, Msg: fmt.Sprintf("unterminated @%s entry", typ)}
	}

	entry = Entry{
		Type:   typ,
		Raw:    src[at : end+1],
		Line:   line,
		Fields: make(map[string]string),
	}
	switch typ {
	case "comment", "preamble", "string":
	default:
		entry.Key = parseBody(src[open+1:end], entry.Fields)
	}

	return entry, end + 1, true, nil
}

// matchDelimiter returns the index of the delimiter closing src[open], which
// must be '{' or '('. Braces nest; parentheses only close at brace depth 0.
func matchDelimiter(src string, open int) (int, bool) {
	closer := byte('}')
	if src[open] == '(' {
		closer = ')'
	}

	depth := 0
	for k := open + 1; k < len(src); k++ {
		switch src[k] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return k, closer == '}'
			}
			depth--
		case ')':
			if closer == ')' && depth == 0 {
				return k, true
			}
		}
	}
	return 0, false
}

// parseBody reads "key, name = value, ..." into fields and returns the key.
func parseBody(body string, fields map[string]string) string {
	comma := strings.IndexByte(body, ',')
	if comma < 0 {
		return strings.TrimSpace(body)
	}

	p := fieldParser{s: body, pos: comma + 1}
	for {
		name, value, ok := p.next()
		if !ok {
			break
		}
		fields[name] = value
	}
	return strings.TrimSpace(body[:comma])
}

type fieldParser struct {
	s   string
	pos int
}

func (p *fieldParser) next() (name, value string, ok bool) {
	for p.pos < len(p.s) && (isSpace(p.s[p.pos]) || p.s[p.pos] == ',') {
		p.pos++
	}

	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != '=' && p.s[p.pos] != ',' && !isSpace(p.s[p.pos]) {
		p.pos++
	}
	name = strings.ToLower(p.s[start:p.pos])
	if name == "" {
		return "", "", false
	}

	p.pos = skipSpace(p.s, p.pos)
	if p.pos >= len(p.s) || p.s[p.pos] != '=' {
		return "", "", false
	}
	p.pos++

	// Values may be concatenated with '#'
	var parts []string
	for {
		p.pos = skipSpace(p.s, p.pos)
		part, ok := p.value()
		if !ok {
			return "", "", false
		}
		parts = append(parts, part)

		p.pos = skipSpace(p.s, p.pos)
		if p.pos < len(p.s) && p.s[p.pos] == '#' {
			p.pos++
			continue
		}
		break
	}

	return name, strings.Join(parts, ""), true
}

func (p *fieldParser) value() (string, bool) {
	if p.pos >= len(p.s) {
		return "", false
	}

	switch p.s[p.pos] {
	case '{':
		end, ok := matchDelimiter(p.s, p.pos)
		if !ok {
			return "", false
		}
		v := p.s[p.pos+1 : end]
		p.pos = end + 1
		return v, true

	case '"':
		depth := 0
		for k := p.pos + 1; k < len(p.s); k++ {
			switch p.s[k] {
			case '{':
				depth++
			case '}':
				depth--
			case '"':
				if depth == 0 {
					v := p.s[p.pos+1 : k]
					p.pos = k + 1
					return v, true
				}
			}
		}
		return "", false

	default:
		// Bare number or @string macro name
		start := p.pos
		for p.pos < len(p.s) && p.s[p.pos] != ',' && p.s[p.pos] != '#' && !isSpace(p.s[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return "", false
		}
		return p.s[start:p.pos], true
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
