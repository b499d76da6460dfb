// Package arxiv fetches paper metadata from the arXiv export API.
package arxiv

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"github.com/matsen/citefill/internal/reference"
)

// feed is the subset of the Atom response that we read. Element names
// match regardless of namespace.
type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Abstract  string   `xml:"abstract"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
}

type author struct {
	Name string `xml:"name"`
}

// publishedPattern captures year and month from an ISO 8601 timestamp.
var publishedPattern = regexp.MustCompile(`^(\d{4})-(\d{2})`)

// ParseFeed converts an export API response into a Reference for id.
// Only the first entry is read. Every field of the BibTeX template must be
// present; otherwise a *MissingFieldError is returned.
func ParseFeed(id string, data []byte) (*reference.Reference, error) {
	var f feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	e := f.Entries[0]

	// Malformed IDs come back as a single entry describing the error
	if strings.Contains(e.ID, "/api/errors") {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotFound, id, strings.TrimSpace(e.Summary))
	}

	ref := &reference.Reference{
		ArXivID: id,
		Title:   strings.Join(strings.Fields(e.Title), " "),
	}
	if ref.Title == "" {
		return nil, &MissingFieldError{ArXivID: id, Field: "title"}
	}

	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			ref.Authors = append(ref.Authors, name)
		}
	}
	if len(ref.Authors) == 0 {
		return nil, &MissingFieldError{ArXivID: id, Field: "author"}
	}

	m := publishedPattern.FindStringSubmatch(strings.TrimSpace(e.Published))
	if m == nil {
		return nil, &MissingFieldError{ArXivID: id, Field: "published"}
	}
	ref.Published = reference.PublicationDate{Year: m[1], Month: m[2]}

	ref.Abstract = strings.TrimSpace(e.Abstract)
	if ref.Abstract == "" {
		ref.Abstract = strings.TrimSpace(e.Summary)
	}
	if ref.Abstract == "" {
		return nil, &MissingFieldError{ArXivID: id, Field: "abstract"}
	}

	return ref, nil
}
