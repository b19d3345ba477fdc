// Package ident extracts and normalizes bibliographic identifiers from
// parsed BibTeX entries.
package ident

import (
	"regexp"
	"strings"

	"github.com/overcite/overcite/internal/bibtex"
)

// Identifiers holds the normalized identifiers found in one entry. Each
// field is either empty or a non-empty normalized value; extraction never
// fails, it only omits.
type Identifiers struct {
	DOI      string `json:"doi,omitempty"`
	ArXivID  string `json:"arxiv_id,omitempty"`
	NativeID string `json:"native_id,omitempty"`
}

// arxivVersion matches a trailing version suffix like v2.
var arxivVersion = regexp.MustCompile(`v\d+$`)

// nativeIDPatterns recognize provider record URLs that sometimes end up in
// note fields, embedding a numeric record id.
var nativeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`inspirehep\.net/(?:literature|record|api/literature)/(\d+)`),
	regexp.MustCompile(`inspirehep\.net/search\?p=recid%3A(\d+)`),
}

// Extract pulls DOI, arXiv id, and native record id hints out of an entry.
// The three are extracted independently; priority between them is the
// resolver's concern.
func Extract(e bibtex.Entry) Identifiers {
	var ids Identifiers

	if doi := NormalizeDOI(e.Fields.DOI); doi != "" {
		ids.DOI = doi
	}

	arxiv := e.Fields.Eprint
	if arxiv == "" {
		arxiv = e.Fields.Get("arxivid")
	}
	if arxiv == "" {
		arxiv = e.Fields.Get("arxiv")
	}
	if a := NormalizeArXiv(arxiv); a != "" {
		ids.ArXivID = a
	}

	if native := nativeIDFromNote(e.Fields.Note); native != "" {
		ids.NativeID = native
	}

	return ids
}

// NormalizeDOI normalizes a DOI for lookup and comparison. It removes URL
// and "doi:" prefixes and lowercases.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "https://dx.doi.org/")
	doi = strings.TrimPrefix(doi, "http://dx.doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	doi = strings.TrimPrefix(doi, "DOI:")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.ToLower(strings.TrimSpace(doi))
}

// NormalizeArXiv normalizes an arXiv identifier: the "arXiv:" prefix goes
// (any case), as does a trailing version suffix (2301.00001v2 and
// 2301.00001 name the same paper).
func NormalizeArXiv(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= 6 && strings.EqualFold(id[:6], "arxiv:") {
		id = id[6:]
	}
	id = strings.TrimSpace(id)
	id = arxivVersion.ReplaceAllString(id, "")
	return id
}

// nativeIDFromNote scans a note field for a provider record URL and returns
// the embedded record id, or "" if none is recognized.
func nativeIDFromNote(note string) string {
	if note == "" {
		return ""
	}
	for _, p := range nativeIDPatterns {
		if m := p.FindStringSubmatch(note); m != nil {
			return m[1]
		}
	}
	return ""
}
