package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/resolve"
)

var (
	searchProvider string
	searchLimit    int
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchProvider, "provider", "", "Bibliographic database: ads or inspire (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search a bibliographic database with a raw query",
	Long: `Search with a query in the provider's own syntax, passed through
verbatim.

ADS uses Solr fields (title:, author:, year:); INSPIRE uses its own
search terms (t, a, d).

Examples:
  oc search 'title:(gravitational waves) year:2016'
  oc search --provider inspire 't neutrino oscillations and d 1998'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

// rawSearcher is the provider-syntax passthrough both clients implement.
type rawSearcher interface {
	SearchRaw(ctx context.Context, q string, limit int) (*resolve.SearchResult, error)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	provider := searchProvider
	if provider == "" {
		provider = cfg.ProviderName()
	}
	lk, err := buildProvider(cfg, provider)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	rs, ok := lk.(rawSearcher)
	if !ok {
		exitWithError(ExitError, "provider %s does not support raw search", provider)
	}

	query := strings.Join(args, " ")
	page, err := rs.SearchRaw(cmd.Context(), query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "search failed: %v", err)
	}
	if page == nil || len(page.Documents) == 0 {
		exitWithError(ExitNotFound, "no results for %q", query)
	}

	if humanOutput {
		fmt.Printf("Found %d record(s), showing %d:\n", page.NumFound, len(page.Documents))
		for i := range page.Documents {
			fmt.Println()
			printDocumentHuman(&page.Documents[i])
		}
		return nil
	}
	return outputJSON(page)
}
