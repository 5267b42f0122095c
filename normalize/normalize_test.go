package normalize_test

import (
	"strings"
	"testing"

	"github.com/tailored-agentic-units/airstream/normalize"
)

func TestNormalize_ReasoningSpans(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"complete span", "<think>internal chatter</think>Hello", "Hello"},
		{"span mid text", "Hello<think>x</think>World", "HelloWorld"},
		{"multiple spans", "a<think>x</think>b<think>y</think>c", "abc"},
		{"unclosed span suppresses tail", "before<think>still thinking about flights", "before"},
		{"unclosed span at start", "<think>everything hidden", ""},
		{"no span", "plain text", "plain text"},
		{"partial opening delimiter kept", "Hello<thi", "Hello<thi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_PunctuationSpacing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"comma", "Hanoi,Saigon", "Hanoi, Saigon"},
		{"period", "Done.Next", "Done. Next"},
		{"punctuation run stays intact", "Really?!Yes", "Really?! Yes"},
		{"already spaced", "fine. already spaced", "fine. already spaced"},
		{"end of text", "trailing.", "trailing."},
		{"before newline", "line.\nnext", "line.\nnext"},
		{"close paren then text", "x (y) z", "x (y) z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_ParenSpacing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"word(note)", "word (note)"},
		{"word (note)", "word (note)"},
		{"(leading)", "(leading)"},
		{"x(y)z", "x (y) z"},
	}

	for _, tt := range tests {
		if got := normalize.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_TableCells(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no padding", "|a|b|", "| a | b |"},
		{"uneven padding", "| a   |   b |", "| a | b |"},
		{"no outer pipes", "price|route", "price | route"},
		{"separator row", "|---|---|", "| --- | --- |"},
		{"cell content verbatim", "| Ho Chi Minh  City |", "| Ho Chi Minh  City |"},
		{"multiline", "|a|\n|b|", "| a |\n| b |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_HeadingSpacing(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"##Heading", "## Heading"},
		{"#  Title", "# Title"},
		{"### Fine", "### Fine"},
		{"text\n##Next", "text\n## Next"},
		{"###", "###"},
		{"not # a heading", "not # a heading"},
	}

	for _, tt := range tests {
		if got := normalize.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_BoldSpacing(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tight both sides", "bold**text**here", "bold **text** here"},
		{"already spaced", "a **b** c", "a **b** c"},
		{"extra blanks collapsed", "a  **b**   c", "a **b** c"},
		{"line start pair kept", "**Summary:** cheapest is A", "**Summary:** cheapest is A"},
		{"after newline", "x\n**b** y", "x\n**b** y"},
		{"unpaired trailing marker", "text **unclosed", "text **unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_FlightAnswerUntouched(t *testing.T) {
	in := "### Title\n✈️ Flight A\n---\n✈️ Flight B\n---\n**Summary:** cheapest is A"
	if got := normalize.Normalize(in); got != in {
		t.Errorf("well-formed answer should be stable, got %q", got)
	}
}

// Idempotence is the load-bearing property: the transform runs on the full
// buffer after every append, so a second application must be a no-op.
func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"plain text with no markup at all",
		"Hanoi,Saigon.Danang!Hue?done",
		"word(note)and((nested))",
		"|a|b|\n| c |d |",
		"##Title\n###Sub",
		"bold**text**here and **more**",
		"** **",
		"****",
		"*",
		"a  **b**  c",
		"<think>x</think>done.next",
		"unclosed<think>tail never shows",
		"Fly?**now**(cheap)|a|b|",
		".,!?)x",
		"✈️.✈️",
		"### Title\n✈️ Flight A\n---\n✈️ Flight B\n---\n**Summary:** cheapest is A",
		"| Route | Price |\n|---|---|\n|HAN-SGN|1,200,000 VND|",
	}

	for _, s := range samples {
		once := normalize.Normalize(s)
		twice := normalize.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", s, once, twice)
		}
	}
}

func TestNormalize_ChunkBoundaryIndependent(t *testing.T) {
	full := "##Route options.|HAN|SGN|\n**Summary:**done(really)"
	splits := []int{1, 3, 7, 12, len(full) - 2}

	want := normalize.Normalize(full)
	for _, at := range splits {
		got := normalize.Normalize(full[:at] + full[at:])
		if got != want {
			t.Errorf("split at %d changed output: %q vs %q", at, got, want)
		}
	}

	// The rendered value is a pure function of the accumulated raw buffer,
	// so appending in pieces and re-deriving must match a single pass.
	var buf strings.Builder
	for _, at := range []int{0, 5, 11, 20, len(full)} {
		prev := buf.Len()
		buf.WriteString(full[prev:at])
		_ = normalize.Normalize(buf.String()) // must never panic mid-stream
	}
	if normalize.Normalize(buf.String()) != want {
		t.Error("incremental appends diverged from single-shot normalization")
	}
}
