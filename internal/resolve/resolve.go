// Package resolve matches BibTeX entries to canonical records in a remote
// bibliographic database.
//
// For each entry a fixed cascade of strategies runs in priority order —
// native record id, DOI, arXiv id, then a fuzzy title+author search — and
// the first hit wins. All remote access goes through the Lookup capability
// supplied by the caller; the package itself performs no I/O.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/overcite/overcite/internal/bibtex"
	"github.com/overcite/overcite/internal/ident"
	"github.com/overcite/overcite/internal/match"
)

// Document is the slice of a remote record the resolver understands. Raw
// carries the provider's full record verbatim for callers that want it.
type Document struct {
	ID    string          `json:"id"`
	Title string          `json:"title,omitempty"`
	Year  int             `json:"year,omitempty"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}

// SearchResult is a bounded page of documents from a metadata search.
type SearchResult struct {
	Documents []Document `json:"documents"`
	NumFound  int        `json:"num_found"`
}

// Lookup is the capability the resolver needs from a bibliographic
// database. A nil document with a nil error means "not found"; errors are
// reserved for transport and provider failures.
type Lookup interface {
	LookupByID(ctx context.Context, id string) (*Document, error)
	LookupByDOI(ctx context.Context, doi string) (*Document, error)
	LookupByArxiv(ctx context.Context, arxivID string) (*Document, error)
	Search(ctx context.Context, q match.Query, limit int) (*SearchResult, error)
}

// Method names the strategy that resolved an entry.
type Method string

const (
	MethodNativeID Method = "native_id"
	MethodDOI      Method = "doi"
	MethodArxiv    Method = "arxiv"
	MethodTitle    Method = "title"
	MethodNotFound Method = "not_found"
)

// Confidence assigned per strategy. Exact identifier matches rank above
// any fuzzy match; the title strategy caps below all of them.
const (
	ConfidenceNativeID = 1.0
	ConfidenceDOI      = 0.99
	ConfidenceArxiv    = 0.98
	ConfidenceTitleCap = 0.9

	// SimilarityThreshold is the minimum raw title similarity (strictly
	// exceeded) for a search candidate to be eligible.
	SimilarityThreshold = 0.5

	// YearBonus is added to a candidate's selection score when its year
	// matches the entry's. It influences which candidate wins, never the
	// reported confidence.
	YearBonus = 0.1

	// TitleSearchLimit bounds the candidate page for the title fallback.
	TitleSearchLimit = 5
)

// Result is the outcome of resolving one entry. A non-empty ResolvedID
// implies Method != MethodNotFound and Confidence > 0. Err records a
// failed resolution attempt; an errored result always has an empty
// ResolvedID.
type Result struct {
	CiteKey    string    `json:"cite_key"`
	EntryType  string    `json:"entry_type"`
	ResolvedID string    `json:"resolved_id,omitempty"`
	Method     Method    `json:"method"`
	Confidence float64   `json:"confidence"`
	Document   *Document `json:"document,omitempty"`
	Err        string    `json:"error,omitempty"`
}

// Found reports whether the entry resolved to a record.
func (r Result) Found() bool {
	return r.ResolvedID != ""
}

// strategy tries one way of resolving an entry. A nil result with a nil
// error means the strategy does not apply or found nothing; the cascade
// moves on.
type strategy func(ctx context.Context, e bibtex.Entry, ids ident.Identifiers, lk Lookup) (*Result, error)

// strategies run in priority order; the first non-nil result wins.
var strategies = []strategy{
	byNativeID,
	byDOI,
	byArxiv,
	byTitle,
}

// One resolves a single entry against the capability. Remote failures are
// absorbed into Result.Err so one bad entry can never abort a batch; the
// returned error is reserved for contract violations (a zero entry), which
// indicate a caller bug.
func One(ctx context.Context, e bibtex.Entry, lk Lookup) (Result, error) {
	if e.CiteKey == "" && e.Fields.Empty() {
		return Result{}, fmt.Errorf("resolve: entry has no cite key and no fields")
	}

	res := Result{
		CiteKey:   e.CiteKey,
		EntryType: e.EntryType,
		Method:    MethodNotFound,
	}

	ids := ident.Extract(e)
	for _, strat := range strategies {
		hit, err := strat(ctx, e, ids, lk)
		if err != nil {
			res.Err = err.Error()
			return res, nil
		}
		if hit != nil {
			hit.CiteKey = e.CiteKey
			hit.EntryType = e.EntryType
			return *hit, nil
		}
	}

	return res, nil
}

func byNativeID(ctx context.Context, e bibtex.Entry, ids ident.Identifiers, lk Lookup) (*Result, error) {
	if ids.NativeID == "" {
		return nil, nil
	}
	doc, err := lk.LookupByID(ctx, ids.NativeID)
	if err != nil || doc == nil {
		return nil, err
	}
	return &Result{
		ResolvedID: doc.ID,
		Method:     MethodNativeID,
		Confidence: ConfidenceNativeID,
		Document:   doc,
	}, nil
}

func byDOI(ctx context.Context, e bibtex.Entry, ids ident.Identifiers, lk Lookup) (*Result, error) {
	if ids.DOI == "" {
		return nil, nil
	}
	doc, err := lk.LookupByDOI(ctx, ids.DOI)
	if err != nil || doc == nil {
		return nil, err
	}
	return &Result{
		ResolvedID: doc.ID,
		Method:     MethodDOI,
		Confidence: ConfidenceDOI,
		Document:   doc,
	}, nil
}

func byArxiv(ctx context.Context, e bibtex.Entry, ids ident.Identifiers, lk Lookup) (*Result, error) {
	if ids.ArXivID == "" {
		return nil, nil
	}
	doc, err := lk.LookupByArxiv(ctx, ids.ArXivID)
	if err != nil || doc == nil {
		return nil, err
	}
	return &Result{
		ResolvedID: doc.ID,
		Method:     MethodArxiv,
		Confidence: ConfidenceArxiv,
		Document:   doc,
	}, nil
}

// byTitle is the fuzzy fallback: a bounded search on title terms plus
// first-author surname, scored by word-set similarity against the entry's
// title. Requires both title and author fields.
func byTitle(ctx context.Context, e bibtex.Entry, _ ident.Identifiers, lk Lookup) (*Result, error) {
	title := e.Fields.Title
	author := e.Fields.Author
	if title == "" || author == "" {
		return nil, nil
	}

	q := match.BuildQuery(title, author, e.Fields.Year)
	if q.Empty() {
		return nil, nil
	}

	page, err := lk.Search(ctx, q, TitleSearchLimit)
	if err != nil {
		return nil, err
	}
	if page == nil || len(page.Documents) == 0 {
		return nil, nil
	}

	entryYear, _ := strconv.Atoi(e.Fields.Year)

	var best *Document
	bestScore := 0.0
	bestSim := 0.0
	for i := range page.Documents {
		cand := &page.Documents[i]
		sim := match.Similarity(title, cand.Title)
		if sim <= SimilarityThreshold {
			continue
		}
		score := sim
		if entryYear != 0 && cand.Year == entryYear {
			score += YearBonus
		}
		if score > bestScore {
			best = cand
			bestScore = score
			bestSim = sim
		}
	}

	if best == nil {
		return nil, nil
	}

	confidence := bestSim
	if confidence > ConfidenceTitleCap {
		confidence = ConfidenceTitleCap
	}
	return &Result{
		ResolvedID: best.ID,
		Method:     MethodTitle,
		Confidence: confidence,
		Document:   best,
	}, nil
}
