package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/citefill/internal/latex"
)

var citesCmd = &cobra.Command{
	Use:   "cites <document.tex>",
	Short: "List the citations of a document with their context",
	Long: `List every \cite{...} marker of a LaTeX document in order of appearance,
together with the context window that merge would send to the search API.

No network access is needed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCites,
}

func init() {
	citesCmd.Flags().Int("width", 0, "Characters of context on each side of a marker (default 100)")
	rootCmd.AddCommand(citesCmd)
}

func runCites(cmd *cobra.Command, args []string) error {
	s := mustLoadSettings(cmd)

	data, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading document: %v", err)
	}

	results := citationContexts(string(data), s.ContextWidth)

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No citations found")
			return nil
		}
		for i, r := range results {
			fmt.Printf("%d. %s\n", i+1, idColor(r.Citation))
			fmt.Printf("   %s\n", truncateString(oneLine(r.Context), ContextMaxLen))
		}
		return nil
	}
	return outputJSON(results)
}

// citationContexts pairs every citation in text with its context window.
// The result is never nil so that JSON output is always an array.
func citationContexts(text string, width int) []CitationContextResult {
	results := []CitationContextResult{}
	for _, id := range latex.ExtractCitations(text) {
		results = append(results, CitationContextResult{
			Citation: id,
			Context:  latex.CitationContext(text, id, width),
		})
	}
	return results
}
