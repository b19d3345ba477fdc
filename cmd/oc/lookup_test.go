package main

import "testing"

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKind  string
		wantValue string
	}{
		{
			name:      "doi prefix",
			raw:       "doi:10.1093/mnras/staa1234",
			wantKind:  "doi",
			wantValue: "10.1093/mnras/staa1234",
		},
		{
			name:      "doi prefix uppercase",
			raw:       "DOI:10.1103/PhysRevD.98.030001",
			wantKind:  "doi",
			wantValue: "10.1103/physrevd.98.030001",
		},
		{
			name:      "arxiv prefix",
			raw:       "arxiv:2101.00123",
			wantKind:  "arxiv",
			wantValue: "2101.00123",
		},
		{
			name:      "arxiv prefix with version",
			raw:       "arXiv:2101.00123v3",
			wantKind:  "arxiv",
			wantValue: "2101.00123",
		},
		{
			name:      "bibcode passes through untouched",
			raw:       "2020MNRAS.tmp.1234S",
			wantKind:  "native",
			wantValue: "2020MNRAS.tmp.1234S",
		},
		{
			name:      "inspire record number",
			raw:       "1234567",
			wantKind:  "native",
			wantValue: "1234567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, value := splitIdentifier(tt.raw)
			if kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if value != tt.wantValue {
				t.Errorf("value = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this one is definitely too long", 10, "this on..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}
