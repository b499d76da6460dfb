package export

import (
	"strings"
	"testing"

	"github.com/matsen/citefill/internal/reference"
)

func TestToBibTeX(t *testing.T) {
	ref := reference.Reference{
		ArXivID:   "2101.00001",
		Title:     "A Novel Approach",
		Authors:   []string{"Jane Doe", "John Smith"},
		Abstract:  "We propose a novel approach.",
		Published: reference.PublicationDate{Year: "2021", Month: "01"},
	}

	got := ToBibTeX(ref)
	want := `@article{2101.00001,
  Author = {Jane Doe and John Smith},
  Title = {A Novel Approach},
  Year = {2021},
  Month = {01},
  Eprint = {2101.00001},
  ArchivePrefix = {arXiv},
  Abstract = {We propose a novel approach.}
}`
	if got != want {
		t.Errorf("ToBibTeX() =\n%s\nwant:\n%s", got, want)
	}
}

func TestToBibTeX_NoEscaping(t *testing.T) {
	ref := reference.Reference{
		ArXivID:   "1706.03762",
		Title:     "Loss & Gain at 50%",
		Authors:   []string{"A. Author"},
		Published: reference.PublicationDate{Year: "2017", Month: "06"},
	}

	got := ToBibTeX(ref)
	if !strings.Contains(got, "Title = {Loss & Gain at 50%}") {
		t.Errorf("ToBibTeX() should keep the title as received, got:\n%s", got)
	}
}

func TestToBibTeX_RoundTripsThroughParser(t *testing.T) {
	ref := reference.Reference{
		ArXivID:   "2101.00001",
		Title:     "A Novel Approach",
		Authors:   []string{"Jane Doe"},
		Abstract:  "Text with {braces} inside.",
		Published: reference.PublicationDate{Year: "2021", Month: "01"},
	}

	bib, err := ParseBibTeX(ToBibTeX(ref))
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}
	if len(bib.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(bib.Entries))
	}

	e := bib.Entries[0]
	if e.Key != "2101.00001" {
		t.Errorf("Key = %q, want 2101.00001", e.Key)
	}
	if e.Title() != "A Novel Approach" {
		t.Errorf("Title() = %q", e.Title())
	}
	if e.Fields["archiveprefix"] != "arXiv" {
		t.Errorf("archiveprefix = %q, want arXiv", e.Fields["archiveprefix"])
	}
	if e.Fields["abstract"] != "Text with {braces} inside." {
		t.Errorf("abstract = %q", e.Fields["abstract"])
	}
}

func TestToBibTeXList(t *testing.T) {
	refs := []reference.Reference{
		{ArXivID: "a", Title: "A"},
		{ArXivID: "b", Title: "B"},
	}

	got := ToBibTeXList(refs)
	if strings.Count(got, "@article{") != 2 {
		t.Errorf("ToBibTeXList() should contain two entries, got:\n%s", got)
	}
	if !strings.Contains(got, "}\n\n@article{b,") {
		t.Errorf("entries should be separated by a blank line, got:\n%s", got)
	}
}
