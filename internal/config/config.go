package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/citefill/internal/arxiv"
	"github.com/matsen/citefill/internal/exa"
	"github.com/matsen/citefill/internal/latex"
)

// EnvExaAPIKey names the environment variable that overrides exa_api_key.
const EnvExaAPIKey = "EXA_API_KEY"

// ErrMissingAPIKey is returned when no Exa API key is configured.
var ErrMissingAPIKey = errors.New("Exa API key not configured")

// Settings are the effective settings for a run.
type Settings struct {
	ExaAPIKey      string
	ContextWidth   int
	NumResults     int
	IncludeDomains []string
	Category       string
	CachePath      string        // Empty disables the metadata cache
	ArxivInterval  time.Duration // Minimum time between arXiv requests
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		ContextWidth:   latex.DefaultContextWidth,
		NumResults:     exa.DefaultNumResults,
		IncludeDomains: append([]string(nil), exa.DefaultIncludeDomains...),
		Category:       exa.DefaultCategory,
		ArxivInterval:  arxiv.DefaultInterval,
	}
}

// Resolve layers the global config and then the environment over the
// defaults. g may be nil.
func Resolve(g *GlobalConfig) Settings {
	s := Defaults()

	if g != nil {
		if g.ExaAPIKey != "" {
			s.ExaAPIKey = g.ExaAPIKey
		}
		if g.ContextWidth != 0 {
			s.ContextWidth = g.ContextWidth
		}
		if g.NumResults != 0 {
			s.NumResults = g.NumResults
		}
		if len(g.IncludeDomains) > 0 {
			s.IncludeDomains = g.IncludeDomains
		}
		if g.Category != "" {
			s.Category = g.Category
		}
		if g.CachePath != "" {
			s.CachePath = g.CachePath
		}
		if g.ArxivRateSeconds != nil {
			s.ArxivInterval = time.Duration(*g.ArxivRateSeconds * float64(time.Second))
		}
	}

	if key := os.Getenv(EnvExaAPIKey); key != "" {
		s.ExaAPIKey = key
	}

	return s
}

// Load resolves settings from the global config file and the environment.
func Load() (Settings, error) {
	g, err := LoadGlobalConfig()
	if err != nil {
		return Settings{}, err
	}
	return Resolve(g), nil
}

// Validate rejects settings no run can use.
func (s Settings) Validate() error {
	if s.ContextWidth <= 0 {
		return fmt.Errorf("context width must be positive, got %d", s.ContextWidth)
	}
	if s.NumResults <= 0 {
		return fmt.Errorf("number of results must be positive, got %d", s.NumResults)
	}
	if s.ArxivInterval < 0 {
		return fmt.Errorf("arXiv request interval must not be negative, got %s", s.ArxivInterval)
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey, with a hint on how to set one,
// when no Exa key is configured.
func (s Settings) RequireAPIKey() error {
	if s.ExaAPIKey != "" {
		return nil
	}
	return fmt.Errorf("%w\n\n%s", ErrMissingAPIKey, HelpfulConfigMessage())
}

// HelpfulConfigMessage explains how to configure the Exa API key.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`Set %s in the environment (or a .env file), or store the key in %s:
  citefill config exa_api_key <your-key>`,
		EnvExaAPIKey,
		configPath)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
