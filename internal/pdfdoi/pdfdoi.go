// Package pdfdoi extracts DOIs from PDF files, so a paper on disk can be
// resolved without hand-typing its identifier.
package pdfdoi

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// doiPattern matches 10.XXXX/suffix with a registrant code of 4-9 digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// maxScanPages bounds the front-matter scan; the DOI is nearly always on
// the first page.
const maxScanPages = 3

// Extract returns the first valid DOI found in the leading pages of the
// PDF at path, or "" if none is present (not an error).
func Extract(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pages := r.NumPage()
	if pages > maxScanPages {
		pages = maxScanPages
	}

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if doi := FindInText(text); doi != "" {
			return doi, nil
		}
	}

	return "", nil
}

// FindInText returns the first valid DOI in free text, or "".
func FindInText(text string) string {
	for _, m := range doiPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".,;:)")
		if valid(m) {
			return m
		}
	}
	return ""
}

// valid performs basic shape checks on a candidate DOI.
func valid(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}
