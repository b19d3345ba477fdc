package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/bibtex"
	"github.com/overcite/overcite/internal/ident"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE.bib",
	Short: "Parse a BibTeX file and list its entries",
	Long: `Parse a BibTeX file and output its entries with the identifiers
extracted from each (DOI, arXiv id, native record id).

Malformed entries are skipped silently, matching resolve behavior.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

// ParsedEntry is one entry in parse output, with extracted identifiers.
type ParsedEntry struct {
	bibtex.Entry
	Identifiers ident.Identifiers `json:"identifiers"`
}

func runParse(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	entries := bibtex.Parse(string(content))
	out := make([]ParsedEntry, len(entries))
	for i, e := range entries {
		out[i] = ParsedEntry{Entry: e, Identifiers: ident.Extract(e)}
	}

	if humanOutput {
		for _, pe := range out {
			fmt.Printf("%s (%s)\n", pe.CiteKey, pe.EntryType)
			if pe.Fields.Title != "" {
				fmt.Printf("  %s\n", truncateString(pe.Fields.Title, TitleMaxLen))
			}
			if pe.Identifiers.DOI != "" {
				fmt.Printf("  doi: %s\n", pe.Identifiers.DOI)
			}
			if pe.Identifiers.ArXivID != "" {
				fmt.Printf("  arxiv: %s\n", pe.Identifiers.ArXivID)
			}
			if pe.Identifiers.NativeID != "" {
				fmt.Printf("  record: %s\n", pe.Identifiers.NativeID)
			}
		}
		fmt.Printf("\n%d entries\n", len(out))
		return nil
	}

	return outputJSON(out)
}
