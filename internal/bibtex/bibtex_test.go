package bibtex

import "testing"

func TestParse_SingleEntry(t *testing.T) {
	entries := Parse(`@article{K,title={A {B} C},year=2020}`)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.CiteKey != "K" {
		t.Errorf("expected cite key K, got %q", e.CiteKey)
	}
	if e.EntryType != "article" {
		t.Errorf("expected entry type article, got %q", e.EntryType)
	}
	if e.Fields.Title != "A {B} C" {
		t.Errorf("expected title %q, got %q", "A {B} C", e.Fields.Title)
	}
	if e.Fields.Year != "2020" {
		t.Errorf("expected year 2020, got %q", e.Fields.Year)
	}
}

func TestParse_ValueForms(t *testing.T) {
	raw := `@inproceedings{conf2021,
	author = {Smith, Jane and Doe, John},
	title = "Quoted Title",
	year = 2021,
	pages = {1--10},
}`
	entries := Parse(raw)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Fields.Author != "Smith, Jane and Doe, John" {
		t.Errorf("wrong author: %q", e.Fields.Author)
	}
	if e.Fields.Title != "Quoted Title" {
		t.Errorf("wrong title: %q", e.Fields.Title)
	}
	if e.Fields.Year != "2021" {
		t.Errorf("wrong year: %q", e.Fields.Year)
	}
	if e.Fields.Other["pages"] != "1--10" {
		t.Errorf("wrong pages: %q", e.Fields.Other["pages"])
	}
}

func TestParse_MultipleEntriesPreserveOrder(t *testing.T) {
	raw := `@article{first, title={One}}
@book{second,title={Two}}

@misc{third, title = {Three}}`
	entries := Parse(raw)

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].CiteKey != want {
			t.Errorf("entry %d: expected key %s, got %s", i, want, entries[i].CiteKey)
		}
	}
}

func TestParse_AdjacentEntries(t *testing.T) {
	entries := Parse(`@article{a,title={X}}@article{b,title={Y}}`)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParse_UnbalancedEntryDropped(t *testing.T) {
	raw := `@article{broken, title={never closed
@article{good, title={Fine}, year=1999}`
	entries := Parse(raw)

	// The broken entry swallows nothing: scanning resumes past its header
	// and the good entry still parses.
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].CiteKey != "good" {
		t.Errorf("expected key good, got %s", entries[0].CiteKey)
	}
	if entries[0].Fields.Year != "1999" {
		t.Errorf("expected year 1999, got %q", entries[0].Fields.Year)
	}
}

func TestParse_DeepNesting(t *testing.T) {
	entries := Parse(`@article{n, title = {The {HIV-1} {{Nested}} Case}}`)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].Fields.Title; got != "The {HIV-1} {{Nested}} Case" {
		t.Errorf("nesting not preserved: %q", got)
	}
}

func TestParse_SkipsCommentAndString(t *testing.T) {
	raw := `@comment{just a comment, ignored}
@string{jname = {Journal of Things}}
@article{real, title={Real}}`
	entries := Parse(raw)

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].CiteKey != "real" {
		t.Errorf("expected key real, got %s", entries[0].CiteKey)
	}
}

func TestParse_DuplicateKeysPassedThrough(t *testing.T) {
	entries := Parse(`@article{dup,title={A}} @article{dup,title={B}}`)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestParse_EmptyAndGarbageInput(t *testing.T) {
	for _, raw := range []string{"", "no entries here", "@", "@article", "@article{"} {
		if got := Parse(raw); len(got) != 0 {
			t.Errorf("Parse(%q): expected no entries, got %d", raw, len(got))
		}
	}
}

func TestParse_FieldsCaseInsensitive(t *testing.T) {
	entries := Parse(`@ARTICLE{k, TITLE={T}, DOI={10.1/x}}`)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.EntryType != "article" {
		t.Errorf("expected lowercase entry type, got %q", e.EntryType)
	}
	if e.Fields.Title != "T" || e.Fields.DOI != "10.1/x" {
		t.Errorf("uppercase field names not recognized: %+v", e.Fields)
	}
}

func TestFields_GetAndEmpty(t *testing.T) {
	var f Fields
	if !f.Empty() {
		t.Error("zero Fields should be empty")
	}

	f.set("title", "T")
	f.set("volume", "12")
	if f.Empty() {
		t.Error("populated Fields should not be empty")
	}
	if f.Get("title") != "T" {
		t.Errorf("Get(title) = %q", f.Get("title"))
	}
	if f.Get("volume") != "12" {
		t.Errorf("Get(volume) = %q", f.Get("volume"))
	}
	if f.Get("missing") != "" {
		t.Errorf("Get(missing) = %q", f.Get("missing"))
	}
}
