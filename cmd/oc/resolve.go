package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/bibtex"
	"github.com/overcite/overcite/internal/resolve"
)

var (
	resolveProvider string
	resolveDelay    time.Duration
	resolveNoCache  bool
	resolveQuiet    bool
)

func init() {
	// Load .env if present (for ADS_API_TOKEN)
	_ = godotenv.Load()

	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveProvider, "provider", "", "Bibliographic database: ads or inspire (default from config)")
	resolveCmd.Flags().DurationVar(&resolveDelay, "delay", 0, "Pause between entries (default from config, else 150ms)")
	resolveCmd.Flags().BoolVar(&resolveNoCache, "no-cache", false, "Bypass the lookup cache")
	resolveCmd.Flags().BoolVar(&resolveQuiet, "quiet", false, "Suppress per-entry progress on stderr")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve FILE.bib",
	Short: "Resolve every entry in a BibTeX file to a database record",
	Long: `Resolve each entry in a BibTeX file to a canonical record.

Strategies run in priority order per entry: native record id, DOI, arXiv
id, then a fuzzy title+author search. Entries are processed one at a time
with a pause between them to respect the provider's rate budget. A failed
lookup marks that entry and the batch continues.

Examples:
  oc resolve refs.bib
  oc resolve refs.bib --provider inspire --human
  oc resolve refs.bib --delay 500ms --no-cache`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	entries := bibtex.Parse(string(content))
	if len(entries) == 0 {
		exitWithError(ExitDataError, "no BibTeX entries found in %s", args[0])
	}

	cfg := mustLoadConfig()
	provider := resolveProvider
	if provider == "" {
		provider = cfg.ProviderName()
	}
	lk, cleanup := mustBuildLookup(cfg, provider, resolveNoCache)
	defer cleanup()

	delay := resolveDelay
	if delay == 0 {
		if delay, err = cfg.BatchDelayDuration(); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	opts := resolve.BatchOptions{Delay: delay}
	if !resolveQuiet {
		opts.OnProgress = printProgress
	}

	results, err := resolve.Batch(cmd.Context(), entries, lk, opts)
	if err != nil {
		exitWithError(ExitError, "resolving: %v", err)
	}

	categorized := resolve.Categorize(results)
	if humanOutput {
		printResolveSummaryHuman(categorized)
		return nil
	}
	return outputJSON(categorized)
}

// printProgress writes one line per completed entry to stderr.
func printProgress(done, total int, latest resolve.Result) {
	switch {
	case latest.Err != "":
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: error: %s\n", done, total, latest.CiteKey, latest.Err)
	case latest.Found():
		fmt.Fprintf(os.Stderr, "[%d/%d] %s -> %s (%s, %.2f)\n",
			done, total, latest.CiteKey, latest.ResolvedID, latest.Method, latest.Confidence)
	default:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: not found\n", done, total, latest.CiteKey)
	}
}

// printResolveSummaryHuman prints categorized results in human-readable form.
func printResolveSummaryHuman(c resolve.Categorized) {
	fmt.Printf("Resolution summary:\n")
	fmt.Printf("  Total entries: %d\n", c.Stats.Total)
	fmt.Printf("  Resolved: %d\n", c.Stats.Found)
	for method, n := range c.Stats.ByMethod {
		fmt.Printf("    by %s: %d\n", method, n)
	}
	fmt.Printf("  Not found: %d\n", c.Stats.NotFound)
	if c.Stats.Errors > 0 {
		fmt.Printf("  Errors: %d\n", c.Stats.Errors)
	}

	if len(c.Found) > 0 {
		fmt.Println()
		fmt.Println("Resolved:")
		for _, r := range c.Found {
			fmt.Printf("  %s -> %s (%s, %.2f)\n", r.CiteKey, r.ResolvedID, r.Method, r.Confidence)
		}
	}
	if len(c.NotFound) > 0 {
		fmt.Println()
		fmt.Println("Not found:")
		for _, r := range c.NotFound {
			if r.Err != "" {
				fmt.Printf("  %s (error: %s)\n", r.CiteKey, r.Err)
			} else {
				fmt.Printf("  %s\n", r.CiteKey)
			}
		}
	}
}
