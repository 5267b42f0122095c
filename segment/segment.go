// Package segment derives a structured view of the rendered answer:
// a title, an ordered list of flight items, and a closing summary.
// The view is recomputed from the full rendered text on every snapshot
// and has no lifecycle of its own. Parts that match no classifier are
// omitted from the view but remain in the underlying rendered text.
package segment

import "strings"

// Markers are fixed by the answer format the service streams.
const (
	separator     = "---"
	itemMarker    = "✈️"
	summaryMarker = "**Summary:**"
)

// Response is the classified view of a rendered answer. Title and
// Summary are empty when no part classified as such; Items preserves
// arrival order. A part can satisfy more than one classifier.
type Response struct {
	Title   string
	Items   []string
	Summary string
}

// Split classifies the rendered answer. Safe to call on every
// intermediate snapshot: malformed or partial markdown yields a smaller
// view, never an error.
func Split(rendered string) Response {
	var resp Response
	for _, part := range strings.Split(rendered, separator) {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		if resp.Title == "" && strings.HasPrefix(text, "#") {
			resp.Title = headingText(text)
		}
		if strings.Contains(text, itemMarker) {
			resp.Items = append(resp.Items, text)
		}
		if resp.Summary == "" && strings.Contains(text, summaryMarker) {
			resp.Summary = text
		}
	}
	return resp
}

// headingText extracts the first line of a title part with the heading
// marker run stripped.
func headingText(part string) string {
	line, _, _ := strings.Cut(part, "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "#"))
}
