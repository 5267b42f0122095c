package envelope_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/airstream/core/envelope"
)

func TestParse_BareJSON(t *testing.T) {
	f, err := envelope.Parse(`{"type": "answer", "content": "Flight prices for "}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Channel != envelope.ChannelAnswer {
		t.Errorf("got channel %q, want %q", f.Channel, envelope.ChannelAnswer)
	}
	if f.Payload != "Flight prices for " {
		t.Errorf("got payload %q, want %q", f.Payload, "Flight prices for ")
	}
}

func TestParse_DataLabelPrefix(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"plain label", `data: {"type": "sql", "content": "SELECT"}`},
		{"no space after label", `data:{"type": "sql", "content": "SELECT"}`},
		{"surrounding whitespace", "  \ndata: {\"type\": \"sql\", \"content\": \"SELECT\"}\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := envelope.Parse(tt.payload)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if f.Channel != envelope.ChannelQuery {
				t.Errorf("got channel %q, want %q", f.Channel, envelope.ChannelQuery)
			}
			if f.Payload != "SELECT" {
				t.Errorf("got payload %q, want %q", f.Payload, "SELECT")
			}
		})
	}
}

func TestParse_SQLWireValueMapsToQuery(t *testing.T) {
	f, err := envelope.Parse(`{"type": "sql", "content": "SELECT 1"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Channel != envelope.ChannelQuery {
		t.Errorf("wire value sql should decode to %q, got %q", envelope.ChannelQuery, f.Channel)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "garbage"},
		{"truncated json", `{"type": "answer", "content": "hal`},
		{"missing type", `{"content": "text"}`},
		{"empty", ""},
		{"bare data label", "data:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := envelope.Parse(tt.payload)
			if !errors.Is(err, envelope.ErrMalformed) {
				t.Errorf("Parse(%q) error = %v, want ErrMalformed", tt.payload, err)
			}
		})
	}
}

func TestParse_UnknownChannelPreserved(t *testing.T) {
	f, err := envelope.Parse(`{"type": "metrics", "content": "42"}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Channel.Known() {
		t.Errorf("channel %q should not be known", f.Channel)
	}
	if f.Channel != envelope.Channel("metrics") {
		t.Errorf("unknown channel value should be preserved, got %q", f.Channel)
	}
}

func TestChannel_Known(t *testing.T) {
	tests := []struct {
		channel envelope.Channel
		want    bool
	}{
		{envelope.ChannelAnswer, true},
		{envelope.ChannelQuery, true},
		{envelope.ChannelControl, true},
		{envelope.Channel("sql"), false},
		{envelope.Channel(""), false},
		{envelope.Channel("future"), false},
	}

	for _, tt := range tests {
		if got := tt.channel.Known(); got != tt.want {
			t.Errorf("Channel(%q).Known() = %v, want %v", tt.channel, got, tt.want)
		}
	}
}
