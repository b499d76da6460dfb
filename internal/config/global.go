// Package config handles citefill's global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/citefill/config.yml.
// Zero values mean "use the default", except for ArxivRateSeconds where nil
// is the default and 0 disables the limit.
type GlobalConfig struct {
	ExaAPIKey        string   `yaml:"exa_api_key,omitempty"`
	ContextWidth     int      `yaml:"context_width,omitempty"`
	NumResults       int      `yaml:"num_results,omitempty"`
	IncludeDomains   []string `yaml:"include_domains,omitempty"`
	Category         string   `yaml:"category,omitempty"`
	CachePath        string   `yaml:"cache_path,omitempty"`
	ArxivRateSeconds *float64 `yaml:"arxiv_rate_seconds,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citefill"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"exa_api_key",
	"context_width",
	"num_results",
	"include_domains",
	"category",
	"cache_path",
	"arxiv_rate_seconds",
}

// ErrUnknownKey is returned by Get and Set for keys not in Keys.
var ErrUnknownKey = errors.New("unknown configuration key")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citefill/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	// Expand tilde in cache_path
	if cfg.CachePath != "" {
		cfg.CachePath = ExpandPath(cfg.CachePath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its
// directory if needed. The file is private because it may hold an API key.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// NormalizeKey converts key formats (context-width, Context_Width) to the
// snake_case form used in the config file.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "-", "_")
}

// Get returns the value of key formatted as a string.
func (c *GlobalConfig) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "exa_api_key":
		return c.ExaAPIKey, nil
	case "context_width":
		return formatInt(c.ContextWidth), nil
	case "num_results":
		return formatInt(c.NumResults), nil
	case "include_domains":
		return strings.Join(c.IncludeDomains, ","), nil
	case "category":
		return c.Category, nil
	case "cache_path":
		return c.CachePath, nil
	case "arxiv_rate_seconds":
		if c.ArxivRateSeconds == nil {
			return "", nil
		}
		return strconv.FormatFloat(*c.ArxivRateSeconds, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set parses value and stores it under key. An empty value clears the key.
func (c *GlobalConfig) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch NormalizeKey(key) {
	case "exa_api_key":
		c.ExaAPIKey = value
	case "context_width":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.ContextWidth = n
	case "num_results":
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		c.NumResults = n
	case "include_domains":
		c.IncludeDomains = splitList(value)
	case "category":
		c.Category = value
	case "cache_path":
		c.CachePath = ExpandPath(value)
	case "arxiv_rate_seconds":
		if value == "" {
			c.ArxivRateSeconds = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("invalid %s: %q (want a non-negative number of seconds)", key, value)
		}
		c.ArxivRateSeconds = &f
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parsePositive(key, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q (want a positive integer)", key, value)
	}
	return n, nil
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
