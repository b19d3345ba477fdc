package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/overcite/overcite/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		if humanOutput {
			fmt.Printf("Config file: %s\n", config.Path())
			fmt.Printf("  Provider: %s\n", cfg.ProviderName())
			if cfg.ADSToken() != "" {
				fmt.Printf("  ADS token: set\n")
			} else {
				fmt.Printf("  ADS token: not set\n")
			}
			fmt.Printf("  Cache: %s\n", cfg.CacheDBPath())
			return nil
		}
		return outputJSON(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if _, err := os.Stat(path); err == nil {
			exitWithError(ExitConfigError, "config already exists at %s", path)
		}

		cfg := &config.Config{
			Provider:  "ads",
			CachePath: config.DefaultCachePath(),
		}
		if err := config.Save(cfg); err != nil {
			exitWithError(ExitError, "writing config: %v", err)
		}
		if humanOutput {
			fmt.Printf("Wrote %s\n", path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "created", Path: path})
	},
}
