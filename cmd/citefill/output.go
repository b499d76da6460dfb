package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/matsen/citefill/internal/merge"
	"github.com/matsen/citefill/internal/reference"
)

// Constants for output formatting.
const (
	TitleMaxLen   = 70 // Titles in report lines
	ContextMaxLen = 76 // Context windows in cites output
	KeyTailLen    = 4  // Visible trailing characters of a masked API key
)

// Colors for human-readable merge reports.
var (
	addedColor   = color.New(color.FgGreen, color.Bold).SprintFunc()
	skippedColor = color.New(color.FgYellow).SprintFunc()
	failedColor  = color.New(color.FgRed).SprintFunc()
	idColor      = color.New(color.FgCyan).SprintFunc()
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MergeResponse is the response for the merge command.
type MergeResponse struct {
	Document     string        `json:"document"`
	Bibliography string        `json:"bibliography"`
	DryRun       bool          `json:"dry_run"`
	Report       *merge.Report `json:"report"`
}

// CitationContextResult is one citation in cites output.
type CitationContextResult struct {
	Citation string `json:"citation"`
	Context  string `json:"context"`
}

// CandidateResult is one search result in resolve output.
type CandidateResult struct {
	Rank    int     `json:"rank"`
	ArXivID string  `json:"arxiv_id"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   float64 `json:"score,omitempty"`
}

// ResolveResponse is the response for the resolve command.
type ResolveResponse struct {
	Citation   string            `json:"citation"`
	Query      string            `json:"query"`
	Candidates []CandidateResult `json:"candidates"`
}

// ArxivResponse is the response for the arxiv command.
type ArxivResponse struct {
	Reference reference.Reference `json:"reference"`
	BibTeX    string              `json:"bibtex"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// printMergeReportHuman prints one line per citation followed by a summary.
func printMergeReportHuman(r *merge.Report, bibPath string, dryRun bool) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case merge.StatusAdded:
			fmt.Printf("%s %s  %s\n", addedColor("added    "), idColor(o.ArXivID), truncateString(o.Title, TitleMaxLen))
		case merge.StatusDuplicate:
			fmt.Printf("%s %s  %s\n", skippedColor("duplicate"), o.Citation, truncateString(o.Title, TitleMaxLen))
		default:
			fmt.Printf("%s %s  %s\n", failedColor(padStatus(o.Status)), o.Citation, o.Error)
		}
	}

	skipped := len(r.Outcomes) - r.Count(merge.StatusAdded) - r.Count(merge.StatusDuplicate)
	fmt.Printf("\n%d citations: %d added, %d already present, %d skipped\n",
		len(r.Outcomes), r.Count(merge.StatusAdded), r.Count(merge.StatusDuplicate), skipped)

	fmt.Println(mergeStatusLine(r, bibPath, dryRun))
}

// mergeStatusLine reports whether the bibliography was written.
func mergeStatusLine(r *merge.Report, bibPath string, dryRun bool) string {
	switch {
	case r.Written:
		return fmt.Sprintf("Updated BibTeX file saved to %s", bibPath)
	case dryRun && len(r.New) > 0:
		return fmt.Sprintf("Dry run: %s not modified", bibPath)
	default:
		return fmt.Sprintf("No new entries; %s unchanged", bibPath)
	}
}

// padStatus pads a status to the width of the longest one.
func padStatus(s merge.Status) string {
	return fmt.Sprintf("%-13s", s)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// oneLine collapses whitespace runs so a context window prints on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// maskKey hides all but the last few characters of a secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= KeyTailLen {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-KeyTailLen) + key[len(key)-KeyTailLen:]
}
