package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the lookup cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lookup cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		store := mustOpenCache(cfg)
		defer store.Close()

		st, err := store.Stat()
		if err != nil {
			exitWithError(ExitError, "reading cache: %v", err)
		}
		if humanOutput {
			fmt.Printf("Cache: %s\n", cfg.CacheDBPath())
			fmt.Printf("  Entries: %d\n", st.Entries)
			fmt.Printf("  Expired: %d\n", st.Expired)
			fmt.Printf("  Size: %d bytes\n", st.Bytes)
			return nil
		}
		return outputJSON(st)
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		store := mustOpenCache(cfg)
		defer store.Close()

		if err := store.Clear(); err != nil {
			exitWithError(ExitError, "clearing cache: %v", err)
		}
		if humanOutput {
			fmt.Println("Cache cleared.")
			return nil
		}
		return outputJSON(StatusResponse{Status: "cleared", Path: cfg.CacheDBPath()})
	},
}
