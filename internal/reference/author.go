package reference

import "strings"

// AuthorList joins author names in BibTeX style ("A and B and C").
func AuthorList(authors []string) string {
	return strings.Join(authors, " and ")
}
