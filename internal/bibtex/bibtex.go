// Package bibtex parses BibTeX source text into structured entries.
//
// The parser is deliberately tolerant: real .bib files accumulate years of
// hand edits, exporter quirks, and half-finished entries. Anything with
// balanced braces parses; anything without is dropped silently. Parsing
// never returns an error.
package bibtex

import (
	"regexp"
	"strings"
)

// Entry is a single BibTeX record.
type Entry struct {
	CiteKey   string `json:"cite_key"`
	EntryType string `json:"entry_type"` // lowercase: article, inproceedings, ...
	Fields    Fields `json:"fields"`
}

// Fields holds the field values of an entry. The fields the resolver reads
// get typed slots; everything else lands in Other keyed by lowercase name.
type Fields struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Year   string `json:"year,omitempty"`
	DOI    string `json:"doi,omitempty"`
	Eprint string `json:"eprint,omitempty"`
	Note   string `json:"note,omitempty"`

	Other map[string]string `json:"other,omitempty"`
}

// Get returns the value of a field by its lowercase name.
func (f Fields) Get(name string) string {
	switch name {
	case "title":
		return f.Title
	case "author":
		return f.Author
	case "year":
		return f.Year
	case "doi":
		return f.DOI
	case "eprint":
		return f.Eprint
	case "note":
		return f.Note
	}
	return f.Other[name]
}

// Empty reports whether no field has a value.
func (f Fields) Empty() bool {
	return f.Title == "" && f.Author == "" && f.Year == "" &&
		f.DOI == "" && f.Eprint == "" && f.Note == "" && len(f.Other) == 0
}

func (f *Fields) set(name, value string) {
	switch name {
	case "title":
		f.Title = value
	case "author":
		f.Author = value
	case "year":
		f.Year = value
	case "doi":
		f.DOI = value
	case "eprint":
		f.Eprint = value
	case "note":
		f.Note = value
	default:
		if f.Other == nil {
			f.Other = make(map[string]string)
		}
		f.Other[name] = value
	}
}

// entryHeader matches "@type{key," at the start of an entry.
var entryHeader = regexp.MustCompile(`@([a-zA-Z]+)\s*\{\s*([^,\s{}]+)\s*,`)

// Parse extracts all well-formed entries from raw BibTeX text, in order of
// appearance. Entries with unbalanced braces are skipped. Duplicate cite
// keys are passed through; dedup policy belongs to the caller.
func Parse(raw string) []Entry {
	var entries []Entry

	pos := 0
	for pos < len(raw) {
		loc := entryHeader.FindStringSubmatchIndex(raw[pos:])
		if loc == nil {
			break
		}

		entryType := strings.ToLower(raw[pos+loc[2] : pos+loc[3]])
		citeKey := raw[pos+loc[4] : pos+loc[5]]
		bodyStart := pos + loc[1]

		// @comment and @preamble blocks look like entries but are not.
		if entryType == "comment" || entryType == "preamble" || entryType == "string" {
			pos += loc[1]
			continue
		}

		body, end, ok := entrySpan(raw, bodyStart)
		if !ok {
			// Unbalanced entry: skip past the header and keep scanning.
			pos += loc[1]
			continue
		}

		entries = append(entries, Entry{
			CiteKey:   citeKey,
			EntryType: entryType,
			Fields:    parseFields(body),
		})
		pos = end
	}

	return entries
}

// entrySpan consumes forward from just after "@type{key," tracking brace
// depth until the entry's closing brace. Returns the field body, the index
// past the closing brace, and whether the braces balanced.
func entrySpan(raw string, start int) (string, int, bool) {
	depth := 1 // inside the entry's opening brace
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start:i], i + 1, true
			}
		}
	}
	return "", len(raw), false
}

// parseFields scans "name = value" pairs within an entry body. Values may
// be brace-delimited (with nesting preserved verbatim), double-quoted, or
// bare (numeric years and the like). Unrecognized syntax is skipped at the
// field level rather than failing the entry.
func parseFields(body string) Fields {
	var fields Fields

	i := 0
	for i < len(body) {
		// Skip separators between fields.
		for i < len(body) && (body[i] == ',' || isSpace(body[i])) {
			i++
		}
		if i >= len(body) {
			break
		}

		nameStart := i
		for i < len(body) && isFieldNameChar(body[i]) {
			i++
		}
		name := strings.ToLower(body[nameStart:i])
		if name == "" {
			i++ // not a field name, resync
			continue
		}

		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i >= len(body) || body[i] != '=' {
			continue
		}
		i++ // consume '='
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		if i >= len(body) {
			break
		}

		var value string
		var ok bool
		switch body[i] {
		case '{':
			value, i, ok = bracedValue(body, i)
		case '"':
			value, i, ok = quotedValue(body, i)
		default:
			value, i = bareValue(body, i)
			ok = true
		}
		if ok {
			fields.set(name, strings.TrimSpace(value))
		}
	}

	return fields
}

// bracedValue reads a {...} value starting at the opening brace, keeping
// nested braces as written.
func bracedValue(s string, start int) (string, int, bool) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start+1 : i], i + 1, true
			}
		}
	}
	return "", len(s), false
}

// quotedValue reads a "..." value starting at the opening quote.
func quotedValue(s string, start int) (string, int, bool) {
	for i := start + 1; i < len(s); i++ {
		if s[i] == '"' {
			return s[start+1 : i], i + 1, true
		}
	}
	return "", len(s), false
}

// bareValue reads an unquoted value up to the next comma or end of body.
func bareValue(s string, start int) (string, int) {
	i := start
	for i < len(s) && s[i] != ',' && s[i] != '\n' {
		i++
	}
	return s[start:i], i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isFieldNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-'
}
