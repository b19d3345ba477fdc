package pdfdoi

import "testing"

func TestFindInText(t *testing.T) {
	cases := []struct {
		name, text, want string
	}{
		{"plain", "DOI: 10.1038/s41586-020-2649-2 published 2020", "10.1038/s41586-020-2649-2"},
		{"in url", "available at https://doi.org/10.1103/PhysRevLett.116.061102", "10.1103/PhysRevLett.116.061102"},
		{"trailing punctuation", "see 10.1000/xyz123., for details", "10.1000/xyz123"},
		{"none", "no identifier in this text", ""},
		{"too short", "10.1/x", ""},
		{"first of several", "10.1000/first then 10.1000/second", "10.1000/first"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := FindInText(c.text); got != c.want {
				t.Errorf("FindInText(%q) = %q, want %q", c.text, got, c.want)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	if _, err := Extract("/nonexistent/paper.pdf"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
