package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citefill/internal/merge"
)

var mergeDryRun bool

var mergeCmd = &cobra.Command{
	Use:   "merge <document.tex> <refs.bib>",
	Short: "Append the papers cited in a document to a BibTeX file",
	Long: `Resolve every \cite{...} marker of a LaTeX document and append the papers
that are missing from a BibTeX file.

For each citation, the text around its marker is sent to Exa together with
the citation key. The top arXiv result is fetched from the arXiv API and
appended as an @article entry unless an entry with the same title (ignoring
case) is already present. Citations that cannot be resolved or fetched are
reported and skipped.

The BibTeX file is rewritten once, at the end, and only if entries were
added. A missing BibTeX file is created.

Examples:
  citefill merge paper.tex refs.bib
  citefill merge paper.tex refs.bib --dry-run --human
  citefill merge paper.tex refs.bib --cache ~/.cache/citefill/arxiv.db -v`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().Int("width", 0, "Characters of context on each side of a marker (default 100)")
	mergeCmd.Flags().Int("results", 0, "Number of search results to request (default 10)")
	mergeCmd.Flags().String("cache", "", "SQLite file caching arXiv metadata")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report what would be added without writing")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	docPath, bibPath := args[0], args[1]

	s := mustLoadSettings(cmd)
	mustRequireAPIKey(s)

	fetcher, closeCache := mustNewFetcher(s)
	defer closeCache()

	m := merge.New(newExaClient(s), fetcher,
		merge.WithContextWidth(s.ContextWidth),
		merge.WithDryRun(mergeDryRun),
		merge.WithLogger(zap.L()),
	)

	report, err := m.MergeFile(cmd.Context(), docPath, bibPath)
	if err != nil {
		closeCache()
		if errors.Is(err, context.Canceled) {
			exitWithError(ExitError, "interrupted; %s not modified", bibPath)
		}
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		printMergeReportHuman(report, bibPath, mergeDryRun)
		return nil
	}

	// Keep stdout pure JSON
	fmt.Fprintln(os.Stderr, mergeStatusLine(report, bibPath, mergeDryRun))
	return outputJSON(MergeResponse{
		Document:     docPath,
		Bibliography: bibPath,
		DryRun:       mergeDryRun,
		Report:       report,
	})
}
