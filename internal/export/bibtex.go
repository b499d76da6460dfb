// Package export renders and parses BibTeX bibliographies.
package export

import (
	"fmt"
	"strings"

	"github.com/matsen/citefill/internal/reference"
)

// ArchivePrefix is written into every generated entry.
const ArchivePrefix = "arXiv"

// ToBibTeX converts a reference to a BibTeX entry keyed by its arXiv ID.
// Values are written as received; nothing is escaped.
func ToBibTeX(ref reference.Reference) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@article{%s,\n", ref.ArXivID))
	b.WriteString(fmt.Sprintf("  Author = {%s},\n", reference.AuthorList(ref.Authors)))
	b.WriteString(fmt.Sprintf("  Title = {%s},\n", ref.Title))
	b.WriteString(fmt.Sprintf("  Year = {%s},\n", ref.Published.Year))
	b.WriteString(fmt.Sprintf("  Month = {%s},\n", ref.Published.Month))
	b.WriteString(fmt.Sprintf("  Eprint = {%s},\n", ref.ArXivID))
	b.WriteString(fmt.Sprintf("  ArchivePrefix = {%s},\n", ArchivePrefix))
	b.WriteString(fmt.Sprintf("  Abstract = {%s}\n", ref.Abstract))
	b.WriteString("}")

	return b.String()
}

// ToBibTeXList converts multiple references to BibTeX, separated by blank lines.
func ToBibTeXList(refs []reference.Reference) string {
	var entries []string
	for _, ref := range refs {
		entries = append(entries, ToBibTeX(ref))
	}
	return strings.Join(entries, "\n\n")
}
