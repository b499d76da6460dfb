// Package latex locates citation markers in LaTeX source and extracts the
// text surrounding them.
package latex

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultContextWidth is the number of bytes taken on each side of a marker.
const DefaultContextWidth = 100

// markerOpen starts every citation marker.
const markerOpen = `\cite{`

// citePattern matches \cite{...}. A multi-key marker like \cite{a,b} yields
// the single identifier "a,b".
var citePattern = regexp.MustCompile(`\\cite\{([^}]*)\}`)

// ExtractCitations returns the identifier of every citation marker in text,
// left to right. Repeated citations are returned once per occurrence.
func ExtractCitations(text string) []string {
	matches := citePattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// Marker returns the literal marker text for an identifier.
func Marker(id string) string {
	return markerOpen + id + "}"
}

// CitationContext returns the text around the first marker for id, extended
// width bytes to each side and clamped to the document. The window stops at
// the neighbouring markers so that it never includes another citation.
// Returns "" if the marker does not occur in text.
func CitationContext(text, id string, width int) string {
	if width <= 0 {
		width = DefaultContextWidth
	}

	marker := Marker(id)
	start := strings.Index(text, marker)
	if start < 0 {
		return ""
	}
	end := start + len(marker)

	left := max(0, start-width)
	if prev := strings.LastIndex(text[:start], markerOpen); prev >= 0 {
		// Drop everything up to the end of the preceding marker, including
		// a marker whose opening lies before the window.
		boundary := prev + len(markerOpen)
		if closing := strings.IndexByte(text[boundary:start], '}'); closing >= 0 {
			boundary += closing + 1
		}
		left = max(left, boundary)
	}

	right := min(len(text), end+width)
	if next := strings.Index(text[end:], markerOpen); next >= 0 {
		right = min(right, end+next)
	}

	for left < start && !utf8.RuneStart(text[left]) {
		left++
	}
	for right > end && right < len(text) && !utf8.RuneStart(text[right]) {
		right--
	}

	return text[left:right]
}
