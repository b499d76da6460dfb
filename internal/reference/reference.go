// Package reference defines the core domain types for bibliography entries.
package reference

import "strings"

// Reference represents an arXiv paper resolved for a citation.
type Reference struct {
	// Identity
	ArXivID string `json:"arxiv_id"` // Repository identifier, also used as the citation key

	// Metadata
	Title    string   `json:"title"`
	Authors  []string `json:"authors"` // Names as given by the archive, in order
	Abstract string   `json:"abstract"`

	// Publication Date
	Published PublicationDate `json:"published"`
}

// PublicationDate keeps year and month exactly as the archive reports them
// ("2021", "01"), so serialized entries carry the zero-padded month.
type PublicationDate struct {
	Year  string `json:"year"`
	Month string `json:"month"`
}

// NormalizeTitle returns the deduplication key for a title.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
