// Package match provides title normalization, word-set similarity scoring,
// and search-query construction for fuzzy bibliographic matching.
package match

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	mathSpan     = regexp.MustCompile(`\$[^$]*\$`)
	latexCommand = regexp.MustCompile(`\\[a-zA-Z]+\s?`)
	specialChars = regexp.MustCompile(`[{}\\$^_]`)
	nonAlphaNum  = regexp.MustCompile(`[^a-z0-9 ]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// NormalizeTitle canonicalizes a title for comparison: lowercase, inline
// math spans and LaTeX commands stripped, remaining TeX punctuation and
// non-alphanumerics removed, whitespace collapsed. Idempotent.
func NormalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = mathSpan.ReplaceAllString(s, " ")
	s = latexCommand.ReplaceAllString(s, " ")
	s = specialChars.ReplaceAllString(s, "")
	s = nonAlphaNum.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Similarity computes word-set Jaccard similarity between two titles.
// Each title is normalized, split on whitespace, and filtered to words
// longer than 2 characters; the score is |intersection| / |union|.
// Symmetric, bounded in [0,1], and 0 when either word set is empty.
func Similarity(a, b string) float64 {
	setA := wordSet(NormalizeTitle(a))
	setB := wordSet(NormalizeTitle(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(normalized string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) > 2 {
			set[w] = true
		}
	}
	return set
}

// MaxQueryTerms bounds the number of title words used in a search query.
const MaxQueryTerms = 6

// Query is the provider-independent content of a metadata search. Each
// provider renders it in its own query syntax.
type Query struct {
	TitleTerms []string
	Author     string // first author's surname
	Year       string
}

// Empty reports whether the query has no usable content at all.
func (q Query) Empty() bool {
	return len(q.TitleTerms) == 0 && q.Author == "" && q.Year == ""
}

// String renders a generic "term term author:X year:Y" form, used for
// cache keys and diagnostics. Providers render their own syntax.
func (q Query) String() string {
	parts := append([]string(nil), q.TitleTerms...)
	if q.Author != "" {
		parts = append(parts, "author:"+q.Author)
	}
	if q.Year != "" {
		parts = append(parts, "year:"+q.Year)
	}
	return strings.Join(parts, " ")
}

// BuildQuery constructs a search query from raw BibTeX title, author, and
// year fields. The title contributes up to MaxQueryTerms alphabetic words
// of length >= 3; the author field contributes the first author's surname;
// year is passed through when it parses. A title with no usable terms is
// fine: the query may consist of author and year alone.
func BuildQuery(title, author, year string) Query {
	var q Query

	for _, w := range strings.Fields(NormalizeTitle(title)) {
		if len(w) < 3 || !isAlpha(w) {
			continue
		}
		q.TitleTerms = append(q.TitleTerms, w)
		if len(q.TitleTerms) == MaxQueryTerms {
			break
		}
	}

	q.Author = FirstAuthorSurname(author)

	year = strings.TrimSpace(year)
	if _, err := strconv.Atoi(year); err == nil && year != "" {
		q.Year = year
	}

	return q
}

// FirstAuthorSurname extracts the first author's surname from a BibTeX
// author field: the substring before the first comma, with braces and an
// "and others" suffix stripped.
func FirstAuthorSurname(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return ""
	}

	if idx := strings.Index(author, ","); idx >= 0 {
		author = author[:idx]
	} else if idx := strings.Index(author, " and "); idx >= 0 {
		// "First Last and ..." form: keep the first author only.
		first := strings.TrimSpace(author[:idx])
		if parts := strings.Fields(first); len(parts) > 0 {
			author = parts[len(parts)-1]
		}
	} else if parts := strings.Fields(author); len(parts) > 1 {
		// "First Last" form: surname is the final word.
		author = parts[len(parts)-1]
	}

	author = strings.TrimSuffix(strings.TrimSpace(author), "and others")
	author = strings.Map(func(r rune) rune {
		if r == '{' || r == '}' {
			return -1
		}
		return r
	}, author)
	return strings.TrimSpace(author)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
