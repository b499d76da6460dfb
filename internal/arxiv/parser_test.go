package arxiv

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const novelFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <link href="http://arxiv.org/api/query?id_list=2101.00001" rel="self" type="application/atom+xml"/>
  <title type="html">ArXiv Query: search_query=&amp;id_list=2101.00001</title>
  <id>http://arxiv.org/api/abc</id>
  <updated>2021-01-05T00:00:00-05:00</updated>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v1</id>
    <updated>2021-01-04T18:59:59Z</updated>
    <published>2021-01-04T18:59:59Z</published>
    <title>A Novel
      Approach</title>
    <summary>  We propose a novel approach.
It works.
    </summary>
    <author>
      <name>Jane Doe</name>
    </author>
    <author>
      <name>John Smith</name>
    </author>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	ref, err := ParseFeed("2101.00001", []byte(novelFeed))
	if err != nil {
		t.Fatalf("ParseFeed() error = %v", err)
	}

	if ref.ArXivID != "2101.00001" {
		t.Errorf("ArXivID = %q", ref.ArXivID)
	}
	// The feed's own <title> must not be mistaken for the paper's
	if ref.Title != "A Novel Approach" {
		t.Errorf("Title = %q, want %q", ref.Title, "A Novel Approach")
	}
	if !reflect.DeepEqual(ref.Authors, []string{"Jane Doe", "John Smith"}) {
		t.Errorf("Authors = %v", ref.Authors)
	}
	if ref.Published.Year != "2021" || ref.Published.Month != "01" {
		t.Errorf("Published = %+v, want 2021/01", ref.Published)
	}
	if ref.Abstract != "We propose a novel approach.\nIt works." {
		t.Errorf("Abstract = %q", ref.Abstract)
	}
}

func TestParseFeed_AbstractElementPreferred(t *testing.T) {
	data := strings.Replace(novelFeed, "<summary>", "<abstract>Explicit abstract.</abstract><summary>", 1)

	ref, err := ParseFeed("2101.00001", []byte(data))
	if err != nil {
		t.Fatalf("ParseFeed() error = %v", err)
	}
	if ref.Abstract != "Explicit abstract." {
		t.Errorf("Abstract = %q, want %q", ref.Abstract, "Explicit abstract.")
	}
}

func TestParseFeed_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(string) string
		field string
	}{
		{
			name:  "title",
			edit:  func(s string) string { return strings.Replace(s, "<title>A Novel\n      Approach</title>", "<title>  </title>", 1) },
			field: "title",
		},
		{
			name: "authors",
			edit: func(s string) string {
				s = strings.Replace(s, "<name>Jane Doe</name>", "", 1)
				return strings.Replace(s, "<name>John Smith</name>", "", 1)
			},
			field: "author",
		},
		{
			name:  "published",
			edit:  func(s string) string { return strings.Replace(s, "<published>2021-01-04T18:59:59Z</published>", "", 1) },
			field: "published",
		},
		{
			name:  "malformed published",
			edit:  func(s string) string { return strings.Replace(s, "2021-01-04T18:59:59Z</published>", "January 2021</published>", 1) },
			field: "published",
		},
		{
			name: "abstract",
			edit: func(s string) string {
				start := strings.Index(s, "<summary>")
				end := strings.Index(s, "</summary>") + len("</summary>")
				return s[:start] + s[end:]
			},
			field: "abstract",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseFeed("2101.00001", []byte(tt.edit(novelFeed)))
			if ref != nil {
				t.Errorf("ParseFeed() returned a partial reference: %+v", ref)
			}

			var mfe *MissingFieldError
			if !errors.As(err, &mfe) {
				t.Fatalf("ParseFeed() error = %v, want *MissingFieldError", err)
			}
			if mfe.Field != tt.field {
				t.Errorf("Field = %q, want %q", mfe.Field, tt.field)
			}
			if !IsMissingField(err) {
				t.Error("IsMissingField() = false, want true")
			}
		})
	}
}

func TestParseFeed_NoEntry(t *testing.T) {
	data := `<feed xmlns="http://www.w3.org/2005/Atom"><title>ArXiv Query</title></feed>`

	_, err := ParseFeed("9999.99999", []byte(data))
	if !IsNotFound(err) {
		t.Errorf("ParseFeed() error = %v, want not found", err)
	}
}

func TestParseFeed_ErrorEntry(t *testing.T) {
	data := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_bogus</id>
    <title>Error</title>
    <summary>incorrect id format for bogus</summary>
    <author><name>arXiv api core</name></author>
  </entry>
</feed>`

	_, err := ParseFeed("bogus", []byte(data))
	if !IsNotFound(err) {
		t.Fatalf("ParseFeed() error = %v, want not found", err)
	}
	if !strings.Contains(err.Error(), "incorrect id format") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestParseFeed_InvalidXML(t *testing.T) {
	_, err := ParseFeed("2101.00001", []byte("<feed><entry>"))
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("ParseFeed() error = %v, want ErrInvalidResponse", err)
	}
}
