package merge

import "github.com/matsen/citefill/internal/reference"

// Status is what happened to one citation during a merge.
type Status string

const (
	StatusAdded        Status = "added"         // New entry appended
	StatusDuplicate    Status = "duplicate"     // Title already in the bibliography
	StatusNoResult     Status = "no_result"     // Search returned no candidates
	StatusSearchFailed Status = "search_failed" // Search request failed
	StatusFetchFailed  Status = "fetch_failed"  // Metadata could not be fetched or was incomplete
)

// Outcome records the handling of a single citation marker.
type Outcome struct {
	Citation string `json:"citation"`
	Status   Status `json:"status"`
	Title    string `json:"title,omitempty"`
	ArXivID  string `json:"arxiv_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes a merge run.
type Report struct {
	Outcomes []Outcome             `json:"citations"`
	New      []reference.Reference `json:"new_entries"`
	Existing int                   `json:"existing_entries"`
	Written  bool                  `json:"written"`
}

// Count returns the number of citations that ended with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
