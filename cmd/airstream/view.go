package main

import (
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/airstream/segment"
)

const wrapWidth = 100

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	itemStyle    = lipgloss.NewStyle().PaddingLeft(2)
	summaryStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("10"))
)

// renderMarkdown pretty-prints the answer for the terminal. Falls back
// to the raw markdown when the renderer cannot be built.
func renderMarkdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

// renderSegments prints the structural breakdown of the answer: title,
// result items, and summary, each styled separately.
func renderSegments(w io.Writer, resp segment.Response) {
	if resp.Title != "" {
		io.WriteString(w, titleStyle.Render(resp.Title)+"\n")
	}
	for _, item := range resp.Items {
		io.WriteString(w, itemStyle.Render(item)+"\n")
	}
	if resp.Summary != "" {
		io.WriteString(w, summaryStyle.Render(resp.Summary)+"\n")
	}
}

// highlightSQL writes ANSI-colored SQL. Any highlighting failure
// degrades to the plain text.
func highlightSQL(w io.Writer, query string) {
	lexer := lexers.Get("sql")
	if lexer == nil {
		io.WriteString(w, query+"\n")
		return
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, query)
	if err != nil {
		io.WriteString(w, query+"\n")
		return
	}
	if err := formatter.Format(w, style, iterator); err != nil {
		io.WriteString(w, query+"\n")
		return
	}
	if !strings.HasSuffix(query, "\n") {
		io.WriteString(w, "\n")
	}
}
