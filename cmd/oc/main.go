// Package main provides the oc CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/ads"
	"github.com/overcite/overcite/internal/cache"
	"github.com/overcite/overcite/internal/config"
	"github.com/overcite/overcite/internal/inspire"
	"github.com/overcite/overcite/internal/resolve"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "oc",
	Short: "Resolve BibTeX entries against bibliographic databases",
	Long: `oc matches BibTeX entries to canonical records in NASA ADS or
INSPIRE HEP.

Each entry is resolved through a cascade of strategies: native record id,
DOI, arXiv id, then a fuzzy title+author search scored by word overlap.
Results report the winning strategy and a confidence value.

Lookups are cached locally with a TTL so re-running on the same .bib file
is cheap. All commands output JSON by default; use --human for
human-readable output.

Environment Variables:
  ADS_API_TOKEN  NASA ADS API token (required for the ads provider)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// buildProvider constructs the Lookup client for the named provider.
func buildProvider(cfg *config.Config, provider string) (resolve.Lookup, error) {
	switch provider {
	case "ads":
		token := cfg.ADSToken()
		if token == "" {
			return nil, fmt.Errorf("no ADS API token: set ADS_API_TOKEN or ads_api_token in %s", config.Path())
		}
		return ads.NewClient(ads.WithToken(token)), nil
	case "inspire":
		return inspire.NewClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want ads or inspire)", provider)
	}
}

// mustBuildLookup constructs the provider client, wrapped in the TTL cache
// unless disabled. The returned cleanup closes the cache store.
func mustBuildLookup(cfg *config.Config, provider string, noCache bool) (resolve.Lookup, func()) {
	lk, err := buildProvider(cfg, provider)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if noCache {
		return lk, func() {}
	}

	ttl, err := cfg.CacheTTLDuration()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	store, err := cache.Open(cfg.CacheDBPath(), ttl)
	if err != nil {
		// Cache trouble shouldn't block resolution; warn and go direct.
		fmt.Fprintf(os.Stderr, "warning: lookup cache unavailable: %v\n", err)
		return lk, func() {}
	}

	return store.Wrap(lk), func() { store.Close() }
}

// mustOpenCache opens the cache store for maintenance commands.
func mustOpenCache(cfg *config.Config) *cache.Store {
	ttl, err := cfg.CacheTTLDuration()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	store, err := cache.Open(cfg.CacheDBPath(), ttl)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return store
}
