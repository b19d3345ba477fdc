package ident

import (
	"testing"

	"github.com/overcite/overcite/internal/bibtex"
)

func TestNormalizeDOI(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"10.1000/xyz", "10.1000/xyz"},
		{"https://doi.org/10.1000/XYZ", "10.1000/xyz"},
		{"http://dx.doi.org/10.1000/xyz", "10.1000/xyz"},
		{"doi:10.1000/xyz", "10.1000/xyz"},
		{"  DOI:10.1000/xyz  ", "10.1000/xyz"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeDOI(c.in); got != c.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeArXiv(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2301.00001", "2301.00001"},
		{"arXiv:2301.00001", "2301.00001"},
		{"ARXIV:2301.00001v3", "2301.00001"},
		{"hep-th/9901001v2", "hep-th/9901001"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeArXiv(c.in); got != c.want {
			t.Errorf("NormalizeArXiv(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtract_AllThreeIndependent(t *testing.T) {
	e := bibtex.Entry{
		CiteKey:   "k",
		EntryType: "article",
		Fields: bibtex.Fields{
			DOI:    "https://doi.org/10.1000/xyz",
			Eprint: "arXiv:2301.00001v2",
			Note:   "record at https://inspirehep.net/literature/1234567",
		},
	}

	ids := Extract(e)
	if ids.DOI != "10.1000/xyz" {
		t.Errorf("DOI = %q", ids.DOI)
	}
	if ids.ArXivID != "2301.00001" {
		t.Errorf("ArXivID = %q", ids.ArXivID)
	}
	if ids.NativeID != "1234567" {
		t.Errorf("NativeID = %q", ids.NativeID)
	}
}

func TestExtract_ArXivFallbackFields(t *testing.T) {
	e := bibtex.Entry{Fields: bibtex.Fields{
		Other: map[string]string{"arxivid": "2105.01234"},
	}}
	if ids := Extract(e); ids.ArXivID != "2105.01234" {
		t.Errorf("ArXivID = %q", ids.ArXivID)
	}

	e = bibtex.Entry{Fields: bibtex.Fields{
		Other: map[string]string{"arxiv": "2105.05678"},
	}}
	if ids := Extract(e); ids.ArXivID != "2105.05678" {
		t.Errorf("ArXivID = %q", ids.ArXivID)
	}
}

func TestExtract_AbsentFieldsYieldAbsentIDs(t *testing.T) {
	ids := Extract(bibtex.Entry{Fields: bibtex.Fields{Title: "Some Title"}})
	if ids != (Identifiers{}) {
		t.Errorf("expected empty identifiers, got %+v", ids)
	}
}

func TestExtract_NoteWithoutRecognizableURL(t *testing.T) {
	e := bibtex.Entry{Fields: bibtex.Fields{
		Note: "see also https://example.com/paper/123",
	}}
	if ids := Extract(e); ids.NativeID != "" {
		t.Errorf("NativeID = %q, want empty", ids.NativeID)
	}
}

func TestExtract_OldStyleRecidURL(t *testing.T) {
	e := bibtex.Entry{Fields: bibtex.Fields{
		Note: "https://inspirehep.net/search?p=recid%3A873765",
	}}
	if ids := Extract(e); ids.NativeID != "873765" {
		t.Errorf("NativeID = %q, want 873765", ids.NativeID)
	}
}
