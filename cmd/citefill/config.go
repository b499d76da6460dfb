package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citefill/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set global configuration values",
	Long: `Get or set values in the global config file
($XDG_CONFIG_HOME/citefill/config.yml, usually ~/.config/citefill/config.yml).

Usage:
  citefill config                              # Show all config
  citefill config context-width                # Get specific value
  citefill config exa-api-key <key>            # Set value
  citefill config include-domains arxiv.org,biorxiv.org
  citefill config cache-path ""                # Clear value

Keys:
  exa_api_key         Exa API key (EXA_API_KEY overrides it)
  context_width       Characters of context on each side of a marker (default 100)
  num_results         Search results requested per citation (default 10)
  include_domains     Comma-separated domains to search (default arxiv.org)
  category            Exa result category (default "research paper")
  cache_path          SQLite file caching arXiv metadata (default: no cache)
  arxiv_rate_seconds  Minimum seconds between arXiv requests (default 3)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := configValues(cfg)
		if humanOutput {
			for _, key := range config.Keys {
				fmt.Printf("%-19s %s\n", key+":", values[key])
			}
			return nil
		}
		return outputJSON(values)
	}

	key := config.NormalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(configExitCode(err), "%v", err)
		}
		if key == "exa_api_key" {
			value = maskKey(value)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	updated := *cfg
	if err := updated.Set(key, args[1]); err != nil {
		exitWithError(configExitCode(err), "%v", err)
	}
	if err := config.SaveGlobalConfig(&updated); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	value, _ := updated.Get(key)
	if key == "exa_api_key" {
		value = maskKey(value)
	}
	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

// configValues returns every config key with its display value. The API key
// is masked.
func configValues(cfg *config.GlobalConfig) map[string]string {
	values := make(map[string]string, len(config.Keys))
	for _, key := range config.Keys {
		value, _ := cfg.Get(key)
		if key == "exa_api_key" {
			value = maskKey(value)
		}
		values[key] = value
	}
	return values
}

// configExitCode maps a config error to an exit code.
func configExitCode(err error) int {
	if errors.Is(err, config.ErrUnknownKey) {
		return ExitError
	}
	return ExitConfigError
}
