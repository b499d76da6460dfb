package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleBib = `% Managed by hand
@article{vaswani2017,
  title = {Attention Is All You Need},
  author = {Vaswani, Ashish and Shazeer, Noam},
  year = 2017,
  note = {Keeps {nested} braces},
  x-custom-field = "kept verbatim"
}

@inproceedings{devlin2019,
  title = "{BERT}: Pre-training of Deep Bidirectional Transformers",
  booktitle = nips # " 2019"
}

@comment{ignored by tools}

@misc(parens2020,
  title = {Parenthesized Entry}
)
`

func TestParseBibTeX(t *testing.T) {
	bib, err := ParseBibTeX(sampleBib)
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}

	if len(bib.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(bib.Entries))
	}

	tests := []struct {
		idx   int
		typ   string
		key   string
		title string
		line  int
	}{
		{0, "article", "vaswani2017", "Attention Is All You Need", 2},
		{1, "inproceedings", "devlin2019", "{BERT}: Pre-training of Deep Bidirectional Transformers", 10},
		{2, "comment", "", "", 15},
		{3, "misc", "parens2020", "Parenthesized Entry", 17},
	}

	for _, tt := range tests {
		e := bib.Entries[tt.idx]
		if e.Type != tt.typ {
			t.Errorf("entry %d Type = %q, want %q", tt.idx, e.Type, tt.typ)
		}
		if e.Key != tt.key {
			t.Errorf("entry %d Key = %q, want %q", tt.idx, e.Key, tt.key)
		}
		if e.Title() != tt.title {
			t.Errorf("entry %d Title() = %q, want %q", tt.idx, e.Title(), tt.title)
		}
		if e.Line != tt.line {
			t.Errorf("entry %d Line = %d, want %d", tt.idx, e.Line, tt.line)
		}
	}

	first := bib.Entries[0]
	if first.Fields["year"] != "2017" {
		t.Errorf("bare year = %q, want 2017", first.Fields["year"])
	}
	if first.Fields["note"] != "Keeps {nested} braces" {
		t.Errorf("note = %q", first.Fields["note"])
	}
	if first.Fields["x-custom-field"] != "kept verbatim" {
		t.Errorf("x-custom-field = %q", first.Fields["x-custom-field"])
	}
	if bib.Entries[1].Fields["booktitle"] != "nips 2019" {
		t.Errorf("concatenated booktitle = %q, want %q", bib.Entries[1].Fields["booktitle"], "nips 2019")
	}
}

func TestParseBibTeX_RawPreserved(t *testing.T) {
	bib, err := ParseBibTeX(sampleBib)
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}

	wantRaw := `@article{vaswani2017,
  title = {Attention Is All You Need},
  author = {Vaswani, Ashish and Shazeer, Noam},
  year = 2017,
  note = {Keeps {nested} braces},
  x-custom-field = "kept verbatim"
}`
	if bib.Entries[0].Raw != wantRaw {
		t.Errorf("Raw =\n%s\nwant:\n%s", bib.Entries[0].Raw, wantRaw)
	}
	if bib.Entries[3].Raw != "@misc(parens2020,\n  title = {Parenthesized Entry}\n)" {
		t.Errorf("Raw = %q", bib.Entries[3].Raw)
	}
}

func TestParseBibTeX_StrayAt(t *testing.T) {
	src := "Contact me@example.com for details.\n@book{k, title = {T}}"
	bib, err := ParseBibTeX(src)
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}
	if len(bib.Entries) != 1 || bib.Entries[0].Key != "k" {
		t.Errorf("got %+v, want a single entry keyed k", bib.Entries)
	}
}

func TestParseBibTeX_Empty(t *testing.T) {
	bib, err := ParseBibTeX("")
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}
	if len(bib.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(bib.Entries))
	}
	if got := bib.Serialize(nil); got != "" {
		t.Errorf("Serialize(nil) = %q, want empty", got)
	}
}

func TestParseBibTeX_Unterminated(t *testing.T) {
	_, err := ParseBibTeX("@article{a,\n  title = {Never closed}\n")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("ParseBibTeX() error = %v, want *ParseError", err)
	}
	if perr.Line != 1 {
		t.Errorf("ParseError.Line = %d, want 1", perr.Line)
	}
}

func TestBibliography_TitleIndex(t *testing.T) {
	src := `@article{a, title = {Same Title}}
@article{b, title = {Other}}
@article{c, title = {SAME title}}
@article{d, author = {No Title}}`

	bib, err := ParseBibTeX(src)
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}

	idx := bib.TitleIndex()
	if len(idx) != 2 {
		t.Fatalf("len(TitleIndex()) = %d, want 2", len(idx))
	}
	// Last parsed wins
	if got := idx["same title"].Key; got != "c" {
		t.Errorf("idx[same title] = %q, want c", got)
	}
	if got := idx["other"].Key; got != "b" {
		t.Errorf("idx[other] = %q, want b", got)
	}
}

func TestBibliography_Serialize(t *testing.T) {
	bib, err := ParseBibTeX("@article{a, title = {A}}\n\n\n@article{b,\n title = {B}}\n")
	if err != nil {
		t.Fatalf("ParseBibTeX() error = %v", err)
	}

	got := bib.Serialize([]string{"@article{c,\n  Title = {C}\n}"})
	want := "@article{a, title = {A}}\n\n@article{b,\n title = {B}}\n\n@article{c,\n  Title = {C}\n}\n"
	if got != want {
		t.Errorf("Serialize() = %q, want %q", got, want)
	}
}

func TestReadBibTeXFile_Missing(t *testing.T) {
	bib, err := ReadBibTeXFile(filepath.Join(t.TempDir(), "missing.bib"))
	if err != nil {
		t.Fatalf("ReadBibTeXFile() error = %v", err)
	}
	if len(bib.Entries) != 0 {
		t.Errorf("got %d entries, want 0", len(bib.Entries))
	}
}

func TestWriteAndReadBibTeXFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	content := "@article{a,\n  title = {A}\n}\n"

	if err := WriteBibTeXFile(path, content); err != nil {
		t.Fatalf("WriteBibTeXFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != content {
		t.Errorf("file content = %q, want %q", data, content)
	}

	bib, err := ReadBibTeXFile(path)
	if err != nil {
		t.Fatalf("ReadBibTeXFile() error = %v", err)
	}
	if len(bib.Entries) != 1 || bib.Entries[0].Title() != "A" {
		t.Errorf("got %+v", bib.Entries)
	}
}
