package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/ident"
	"github.com/overcite/overcite/internal/resolve"
)

var (
	lookupProvider string
	lookupNoCache  bool
)

func init() {
	rootCmd.AddCommand(lookupCmd)
	lookupCmd.Flags().StringVar(&lookupProvider, "provider", "", "Bibliographic database: ads or inspire (default from config)")
	lookupCmd.Flags().BoolVar(&lookupNoCache, "no-cache", false, "Bypass the lookup cache")
}

var lookupCmd = &cobra.Command{
	Use:   "lookup IDENTIFIER",
	Short: "Look up a single record by identifier",
	Long: `Look up one record by identifier.

The identifier kind is chosen by prefix: "doi:" for a DOI, "arxiv:" for
an arXiv id, anything else is treated as the provider's native record id
(an ADS bibcode or an INSPIRE record number).

Examples:
  oc lookup doi:10.1093/mnras/staa1234
  oc lookup arxiv:2101.00123
  oc lookup 2020MNRAS.tmp.1234S --provider ads`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	provider := lookupProvider
	if provider == "" {
		provider = cfg.ProviderName()
	}
	lk, cleanup := mustBuildLookup(cfg, provider, lookupNoCache)
	defer cleanup()

	ctx := cmd.Context()
	raw := args[0]

	var (
		doc *resolve.Document
		err error
	)
	kind, value := splitIdentifier(raw)
	switch kind {
	case "doi":
		doc, err = lk.LookupByDOI(ctx, value)
	case "arxiv":
		doc, err = lk.LookupByArxiv(ctx, value)
	default:
		doc, err = lk.LookupByID(ctx, value)
	}
	if err != nil {
		exitWithError(ExitError, "lookup failed: %v", err)
	}
	if doc == nil {
		exitWithError(ExitNotFound, "no record found for %s", raw)
	}

	if humanOutput {
		printDocumentHuman(doc)
		return nil
	}
	return outputJSON(doc)
}

// splitIdentifier classifies a raw identifier by prefix. "doi:" and
// "arxiv:" (case-insensitive) select their kind and normalize the value;
// anything else is the provider's native record id, passed through as-is.
func splitIdentifier(raw string) (kind, value string) {
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "doi:"):
		return "doi", ident.NormalizeDOI(raw[len("doi:"):])
	case strings.HasPrefix(lower, "arxiv:"):
		return "arxiv", ident.NormalizeArXiv(raw[len("arxiv:"):])
	default:
		return "native", raw
	}
}
