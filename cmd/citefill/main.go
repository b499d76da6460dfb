// Package main provides the citefill CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citefill/internal/arxiv"
	"github.com/matsen/citefill/internal/config"
	"github.com/matsen/citefill/internal/exa"
	"github.com/matsen/citefill/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verbose enables diagnostic logging on stderr
var verbose bool

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = zap.L().Sync()
	if err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		stop()
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citefill",
	Short: "Fill a BibTeX file from the citations of a LaTeX document",
	Long: `citefill finds the \cite{...} markers of a LaTeX document, resolves each
one to an arXiv paper with the Exa search API, and appends the papers that
are not yet in your BibTeX file.

Existing entries are never modified. An entry is considered present when a
bibliography entry has the same title, ignoring case.

All commands output JSON by default. Use --human for readable output.

Environment Variables:
  EXA_API_KEY  Your Exa API key (required for merge and resolve)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
}

func init() {
	// Load .env file if present (for EXA_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log per-citation diagnostics to stderr")
	rootCmd.Version = Version
}

// newLogger returns a development logger on stderr when verbose is set and
// a no-op logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// mustLoadSettings loads settings from the global config and environment,
// applies any flags the user set on cmd, and validates the result.
// Exits on error.
func mustLoadSettings(cmd *cobra.Command) config.Settings {
	s, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	flags := cmd.Flags()
	if flags.Lookup("width") != nil && flags.Changed("width") {
		s.ContextWidth, _ = flags.GetInt("width")
	}
	if flags.Lookup("results") != nil && flags.Changed("results") {
		s.NumResults, _ = flags.GetInt("results")
	}
	if flags.Lookup("cache") != nil && flags.Changed("cache") {
		path, _ := flags.GetString("cache")
		s.CachePath = config.ExpandPath(path)
	}

	if err := s.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return s
}

// mustRequireAPIKey exits with a configuration error if no Exa key is set.
func mustRequireAPIKey(s config.Settings) {
	if err := s.RequireAPIKey(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
}

// newExaClient creates an Exa client from settings.
func newExaClient(s config.Settings) *exa.Client {
	return exa.NewClient(
		exa.WithAPIKey(s.ExaAPIKey),
		exa.WithNumResults(s.NumResults),
		exa.WithIncludeDomains(s.IncludeDomains),
		exa.WithCategory(s.Category),
	)
}

// mustNewFetcher creates the arXiv fetcher, wrapped in the SQLite metadata
// cache when a cache path is configured. The returned function closes the
// cache. Exits on error.
func mustNewFetcher(s config.Settings) (storage.Fetcher, func()) {
	client := arxiv.NewClient(arxiv.WithInterval(s.ArxivInterval))
	if s.CachePath == "" {
		return client, func() {}
	}

	cache, err := storage.OpenCache(s.CachePath)
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	zap.L().Debug("using metadata cache", zap.String("path", s.CachePath))
	return storage.NewCachingFetcher(cache, client), func() { cache.Close() }
}
