package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Exa API base URL.
	BaseURL = "https://api.exa.ai"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is the default number of requests per second.
	RateLimit = 5.0

	// SearchType selects Exa's embedding-based search.
	SearchType = "neural"

	// DefaultNumResults is the number of candidates requested per citation.
	DefaultNumResults = 10

	// DefaultCategory restricts results to scholarly articles.
	DefaultCategory = "research paper"

	// maxErrorBody bounds how much of an error response is kept in APIError.
	maxErrorBody = 512
)

// DefaultIncludeDomains is the single trusted domain searched by default.
var DefaultIncludeDomains = []string{"arxiv.org"}

// Client is a rate-limited HTTP client for the Exa search API.
type Client struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	apiKey         string
	baseURL        string
	numResults     int
	category       string
	includeDomains []string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the API key for authenticated requests.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithNumResults sets how many candidates are requested per search.
func WithNumResults(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.numResults = n
		}
	}
}

// WithCategory sets the result category filter.
func WithCategory(category string) ClientOption {
	return func(c *Client) {
		c.category = category
	}
}

// WithIncludeDomains restricts results to the given domains.
func WithIncludeDomains(domains []string) ClientOption {
	return func(c *Client) {
		c.includeDomains = domains
	}
}

// WithRateLimit sets the maximum number of requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a new Exa API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient:     &http.Client{Timeout: DefaultTimeout},
		limiter:        rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:        BaseURL,
		numResults:     DefaultNumResults,
		category:       DefaultCategory,
		includeDomains: DefaultIncludeDomains,
	}

	// Check for API key in environment
	if key := os.Getenv("EXA_API_KEY"); key != "" {
		c.apiKey = key
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Query builds the natural-language query for a citation and its context.
func Query(citation, citeContext string) string {
	return citation + " " + citeContext
}

// NewSearchRequest returns the request the client sends for query.
func (c *Client) NewSearchRequest(query string) SearchRequest {
	return SearchRequest{
		Query:          query,
		Type:           SearchType,
		UseAutoprompt:  true,
		NumResults:     c.numResults,
		Category:       c.category,
		IncludeDomains: c.includeDomains,
		Contents:       Contents{Text: true},
	}
}

// Search runs a single search. There are no retries.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured (set EXA_API_KEY)", ErrAuthError)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}

	return &result, nil
}

// Resolve searches for a citation and returns the highest-ranked result.
// Returns ErrNoResults if the search succeeded but found nothing.
func (c *Client) Resolve(ctx context.Context, citation, citeContext string) (*Result, error) {
	resp, err := c.Search(ctx, c.NewSearchRequest(Query(citation, citeContext)))
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoResults
	}
	return &resp.Results[0], nil
}

// ArxivID returns the repository identifier of a result: the last
// slash-delimited segment of its ID, or of its URL if the ID is empty.
func ArxivID(r Result) string {
	source := r.ID
	if source == "" {
		source = r.URL
	}
	source = strings.TrimRight(source, "/")
	if i := strings.LastIndex(source, "/"); i >= 0 {
		source = source[i+1:]
	}
	return strings.TrimSuffix(source, ".pdf")
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}
	return nil
}
