// Package exa provides a client for the Exa neural search API.
package exa

// SearchRequest is the body of a POST /search call.
type SearchRequest struct {
	Query          string   `json:"query"`
	Type           string   `json:"type"`
	UseAutoprompt  bool     `json:"useAutoprompt"`
	NumResults     int      `json:"numResults"`
	Category       string   `json:"category,omitempty"`
	IncludeDomains []string `json:"includeDomains,omitempty"`
	Contents       Contents `json:"contents"`
}

// Contents selects what page content is returned with each result.
type Contents struct {
	Text bool `json:"text"`
}

// SearchResponse is the response from the search endpoint.
type SearchResponse struct {
	RequestID        string   `json:"requestId,omitempty"`
	AutopromptString string   `json:"autopromptString,omitempty"`
	Results          []Result `json:"results"`
}

// Result is a single ranked search hit.
type Result struct {
	ID            string  `json:"id"` // Usually the document URL, e.g. https://arxiv.org/abs/1706.03762
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Author        string  `json:"author,omitempty"`
	Text          string  `json:"text,omitempty"`
}
