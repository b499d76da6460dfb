package arxiv

import (
	"errors"
	"fmt"
)

// Common errors returned by the arXiv client.
var (
	// ErrNotFound indicates the query returned no usable entry.
	ErrNotFound = errors.New("not found in arXiv")

	// ErrMissingField indicates a required metadata field was absent.
	ErrMissingField = errors.New("arXiv entry is missing a required field")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("arXiv rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with arXiv")

	// ErrInvalidResponse indicates a body that is not an Atom feed.
	ErrInvalidResponse = errors.New("invalid response from arXiv")
)

// APIError represents a non-success HTTP status from the arXiv API.
type APIError struct {
	StatusCode int
	ArXivID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arXiv API error (status %d) for %s", e.StatusCode, e.ArXivID)
}

// MissingFieldError names the required field absent from an entry.
type MissingFieldError struct {
	ArXivID string
	Field   string // title, author, published, abstract
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("arXiv entry %s: missing %s", e.ArXivID, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// IsNotFound returns true if the error indicates the identifier matched nothing.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsMissingField returns true if an entry lacked a required field.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
