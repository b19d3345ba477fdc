package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/overcite/overcite/internal/resolve"
)

// TitleMaxLen truncates titles in human-readable listings.
const TitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// printDocumentHuman prints one record in human-readable form.
func printDocumentHuman(doc *resolve.Document) {
	fmt.Printf("ID: %s\n", doc.ID)
	if doc.Title != "" {
		fmt.Printf("Title: %s\n", truncateString(doc.Title, TitleMaxLen))
	}
	if doc.Year != 0 {
		fmt.Printf("Year: %d\n", doc.Year)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
