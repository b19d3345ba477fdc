// Package config handles global configuration for the oc CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents configuration stored in ~/.config/oc/config.yml.
// Every field has a sensible default; the file is optional.
type Config struct {
	Provider    string `yaml:"provider,omitempty"`      // ads or inspire
	ADSAPIToken string `yaml:"ads_api_token,omitempty"` // overridden by ADS_API_TOKEN
	CachePath   string `yaml:"cache_path,omitempty"`    // lookup cache database
	CacheTTL    string `yaml:"cache_ttl,omitempty"`     // Go duration, e.g. 24h
	BatchDelay  string `yaml:"batch_delay,omitempty"`   // Go duration between entries
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "oc"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// CacheFile is the default cache database file name.
	CacheFile = "lookups.db"

	// DefaultProvider is used when neither config nor flag names one.
	DefaultProvider = "ads"
)

// configCache caches the loaded config.
var configCache *Config

// Path returns the path to the config file. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/oc/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// DefaultCachePath returns the default location of the lookup cache.
// Respects XDG_CACHE_HOME via os.UserCacheDir.
func DefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDir, CacheFile)
}

// Load loads the configuration file. Returns a zero config (not an error)
// if the file doesn't exist.
func Load() (*Config, error) {
	if configCache != nil {
		return configCache, nil
	}

	path := Path()
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	configCache = &cfg
	return &cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	configCache = nil
}

// Save writes the configuration file, creating its directory if needed.
func Save(cfg *Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	configCache = nil
	return nil
}

// ProviderName returns the configured provider, falling back to the default.
func (c *Config) ProviderName() string {
	if c.Provider != "" {
		return c.Provider
	}
	return DefaultProvider
}

// ADSToken returns the ADS API token, preferring the environment variable.
func (c *Config) ADSToken() string {
	if tok := os.Getenv("ADS_API_TOKEN"); tok != "" {
		return tok
	}
	return c.ADSAPIToken
}

// CacheDBPath returns the configured cache path or the default.
func (c *Config) CacheDBPath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return DefaultCachePath()
}

// CacheTTLDuration parses the configured TTL; zero means "use the cache
// package default".
func (c *Config) CacheTTLDuration() (time.Duration, error) {
	if c.CacheTTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_ttl %q: %w", c.CacheTTL, err)
	}
	return d, nil
}

// BatchDelayDuration parses the configured batch delay; zero means "use
// the resolver default".
func (c *Config) BatchDelayDuration() (time.Duration, error) {
	if c.BatchDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.BatchDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid batch_delay %q: %w", c.BatchDelay, err)
	}
	return d, nil
}
