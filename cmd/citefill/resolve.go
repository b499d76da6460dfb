package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/citefill/internal/exa"
)

var resolveContext string

var resolveCmd = &cobra.Command{
	Use:   "resolve <citation>",
	Short: "Search Exa for the paper behind a citation",
	Long: `Search Exa for a citation key, optionally with surrounding text, and list
the ranked candidates. merge uses the first one.

Examples:
  citefill resolve vaswani2017
  citefill resolve novel2021 --context "We follow the approach of \cite{novel2021}" --human`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveContext, "context", "", "Text surrounding the citation")
	resolveCmd.Flags().Int("results", 0, "Number of search results to request (default 10)")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	citation := args[0]

	s := mustLoadSettings(cmd)
	mustRequireAPIKey(s)

	client := newExaClient(s)
	query := exa.Query(citation, resolveContext)
	resp, err := client.Search(cmd.Context(), client.NewSearchRequest(query))
	if err != nil {
		exitWithError(exaExitCode(err), "%v", err)
	}

	candidates := make([]CandidateResult, 0, len(resp.Results))
	for i, r := range resp.Results {
		candidates = append(candidates, CandidateResult{
			Rank:    i + 1,
			ArXivID: exa.ArxivID(r),
			Title:   r.Title,
			URL:     r.URL,
			Score:   r.Score,
		})
	}

	if humanOutput {
		if len(candidates) == 0 {
			fmt.Printf("No results for %s\n", citation)
			return nil
		}
		for _, c := range candidates {
			fmt.Printf("%d. %s  %s\n", c.Rank, idColor(c.ArXivID), truncateString(c.Title, TitleMaxLen))
		}
		return nil
	}
	return outputJSON(ResolveResponse{
		Citation:   citation,
		Query:      query,
		Candidates: candidates,
	})
}

// exaExitCode maps an Exa client error to an exit code.
func exaExitCode(err error) int {
	if exa.IsAuthError(err) {
		return ExitConfigError
	}
	return ExitAPIError
}
