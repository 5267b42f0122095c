// Package normalize repairs the text artifacts that partial-token delivery
// introduces into a streamed answer buffer. The transform is pure and
// total: it is reapplied to the entire accumulated buffer after every
// append, because a chunk boundary can split a delimiter, a table pipe,
// or a punctuation run, so no incremental pass over the new suffix alone
// can be correct.
package normalize

import (
	"regexp"
	"strings"
)

// Reasoning span delimiters. Model reasoning is transport noise for the
// rendered answer and is stripped entirely, delimiters included.
const (
	reasoningOpen  = "<think>"
	reasoningClose = "</think>"
)

// Normalize applies the repair rules in a fixed order. Each rule is
// idempotent in isolation and the composed pipeline is idempotent:
// Normalize(Normalize(s)) == Normalize(s) for all inputs.
func Normalize(raw string) string {
	s := stripReasoning(raw)
	s = spaceAfterPunctuation(s)
	s = spaceBeforeParen(s)
	s = alignTableCells(s)
	s = spaceAfterHeading(s)
	s = spaceAroundBold(s)
	return s
}

// stripReasoning removes every reasoning-delimited span, including the
// delimiters. An opening delimiter that is not yet closed by the current
// buffer state suppresses all following text; the suppressed tail
// reappears (stripped) once the closing delimiter arrives.
func stripReasoning(s string) string {
	for {
		open := strings.Index(s, reasoningOpen)
		if open < 0 {
			return s
		}
		rest := s[open+len(reasoningOpen):]
		end := strings.Index(rest, reasoningClose)
		if end < 0 {
			return s[:open]
		}
		s = s[:open] + rest[end+len(reasoningClose):]
	}
}

func isPunct(c byte) bool {
	switch c {
	case '.', ',', '!', '?', ')':
		return true
	}
	return false
}

func isBlank(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// spaceAfterPunctuation inserts a single space after a run of
// sentence-terminal punctuation when the run is immediately followed by a
// non-space character. Characters inside the run are left untouched and
// already-spaced text is not double-spaced.
func spaceAfterPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)
		if !isPunct(c) {
			continue
		}
		if i+1 < len(s) && !isPunct(s[i+1]) && !isBlank(s[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// spaceBeforeParen inserts a space before an opening parenthesis that is
// not already preceded by whitespace.
func spaceBeforeParen(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if s[i] == '(' && i > 0 && !isBlank(s[i-1]) {
			b.WriteByte(' ')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// alignTableCells pads every table cell boundary with exactly one space on
// each side. Cell content between boundaries is preserved verbatim; only
// the blanks adjacent to a pipe are adjusted.
func alignTableCells(s string) string {
	lines := strings.Split(s, "\n")
	for idx, line := range lines {
		if !strings.Contains(line, "|") {
			continue
		}
		cells := strings.Split(line, "|")
		for i := range cells {
			if i > 0 {
				cells[i] = strings.TrimLeft(cells[i], " \t")
			}
			if i < len(cells)-1 {
				cells[i] = strings.TrimRight(cells[i], " \t")
			}
		}
		out := strings.Join(cells, " | ")
		if cells[0] == "" {
			out = strings.TrimPrefix(out, " ")
		}
		if cells[len(cells)-1] == "" {
			out = strings.TrimSuffix(out, " ")
		}
		lines[idx] = out
	}
	return strings.Join(lines, "\n")
}

var headingRe = regexp.MustCompile(`(?m)^(#+)[ \t]*(\S)`)

// spaceAfterHeading rewrites a line-leading heading marker run so exactly
// one space separates it from the heading text.
func spaceAfterHeading(s string) string {
	return headingRe.ReplaceAllString(s, "$1 $2")
}

// spaceAroundBold ensures exactly one space separates a bold marker pair
// from adjacent text on the outside of the pair. Marker pairs alternate
// open/close by position; a trailing unpaired marker is left alone since
// its partner may still be in flight.
func spaceAroundBold(s string) string {
	out := make([]byte, 0, len(s)+16)
	open := true
	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '*' && s[i+1] == '*' {
			if open {
				j := len(out)
				for j > 0 && (out[j-1] == ' ' || out[j-1] == '\t') {
					j--
				}
				if j > 0 && out[j-1] != '\n' {
					out = append(out[:j], ' ')
				}
				out = append(out, '*', '*')
				i += 2
			} else {
				out = append(out, '*', '*')
				i += 2
				j := i
				for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
					j++
				}
				if j < len(s) && s[j] != '\n' && s[j] != '\r' {
					out = append(out, ' ')
					i = j
				} else if j >= len(s) {
					i = j
				}
			}
			open = !open
			continue
		}
		out = append(out, s[i])
		i++
	}
	return string(out)
}
