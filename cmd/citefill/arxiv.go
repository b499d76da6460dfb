package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citefill/internal/arxiv"
	"github.com/matsen/citefill/internal/export"
)

var arxivCmd = &cobra.Command{
	Use:   "arxiv <id>",
	Short: "Print the BibTeX entry for an arXiv paper",
	Long: `Fetch metadata for an arXiv identifier and print the @article entry that
merge would append.

Examples:
  citefill arxiv 1706.03762
  citefill arxiv 2101.00001 --human >> refs.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runArxiv,
}

func init() {
	arxivCmd.Flags().String("cache", "", "SQLite file caching arXiv metadata")
	rootCmd.AddCommand(arxivCmd)
}

func runArxiv(cmd *cobra.Command, args []string) error {
	s := mustLoadSettings(cmd)

	fetcher, closeCache := mustNewFetcher(s)
	defer closeCache()

	ref, err := fetcher.GetEntry(cmd.Context(), args[0])
	if err != nil {
		closeCache()
		exitWithError(arxivExitCode(err), "%v", err)
	}

	entry := export.ToBibTeX(*ref)
	if humanOutput {
		fmt.Println(entry)
		return nil
	}
	return outputJSON(ArxivResponse{Reference: *ref, BibTeX: entry})
}

// arxivExitCode maps an arXiv client error to an exit code.
func arxivExitCode(err error) int {
	if arxiv.IsNotFound(err) || arxiv.IsMissingField(err) {
		return ExitDataError
	}
	return ExitAPIError
}
