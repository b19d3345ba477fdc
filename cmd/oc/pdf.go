package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/pdfdoi"
)

var (
	pdfProvider string
	pdfNoCache  bool
	pdfDOIOnly  bool
)

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringVar(&pdfProvider, "provider", "", "Bibliographic database: ads or inspire (default from config)")
	pdfCmd.Flags().BoolVar(&pdfNoCache, "no-cache", false, "Bypass the lookup cache")
	pdfCmd.Flags().BoolVar(&pdfDOIOnly, "doi-only", false, "Print the extracted DOI without looking it up")
}

var pdfCmd = &cobra.Command{
	Use:   "pdf FILE.pdf",
	Short: "Extract a DOI from a PDF and look up its record",
	Long: `Scan the first pages of a PDF for a DOI and resolve it against the
configured bibliographic database.

Examples:
  oc pdf paper.pdf
  oc pdf paper.pdf --doi-only`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

// pdfResult pairs the extracted DOI with its resolved record.
type pdfResult struct {
	Path string `json:"path"`
	DOI  string `json:"doi"`
}

func runPDF(cmd *cobra.Command, args []string) error {
	doi, err := pdfdoi.Extract(args[0])
	if err != nil {
		exitWithError(ExitDataError, "scanning %s: %v", args[0], err)
	}
	if doi == "" {
		exitWithError(ExitNotFound, "no DOI found in %s", args[0])
	}

	if pdfDOIOnly {
		if humanOutput {
			fmt.Println(doi)
			return nil
		}
		return outputJSON(pdfResult{Path: args[0], DOI: doi})
	}

	cfg := mustLoadConfig()
	provider := pdfProvider
	if provider == "" {
		provider = cfg.ProviderName()
	}
	lk, cleanup := mustBuildLookup(cfg, provider, pdfNoCache)
	defer cleanup()

	doc, err := lk.LookupByDOI(cmd.Context(), doi)
	if err != nil {
		exitWithError(ExitError, "lookup failed: %v", err)
	}
	if doc == nil {
		exitWithError(ExitNotFound, "no record found for DOI %s", doi)
	}

	if humanOutput {
		fmt.Printf("DOI: %s\n", doi)
		printDocumentHuman(doc)
		return nil
	}
	return outputJSON(struct {
		pdfResult
		Document interface{} `json:"document"`
	}{pdfResult{Path: args[0], DOI: doi}, doc})
}
