package render_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/airstream/core/envelope"
	"github.com/tailored-agentic-units/airstream/render"
)

func TestRegister_Validation(t *testing.T) {
	if err := render.Register("", strings.ToUpper); !errors.Is(err, render.ErrEmptyChannel) {
		t.Errorf("Register with empty channel: error = %v, want ErrEmptyChannel", err)
	}
	if err := render.Register("validate", nil); !errors.Is(err, render.ErrNilTransform) {
		t.Errorf("Register with nil transform: error = %v, want ErrNilTransform", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ch := envelope.Channel("dup-test")
	if err := render.Register(ch, strings.ToUpper); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := render.Register(ch, strings.ToLower); !errors.Is(err, render.ErrAlreadyRegistered) {
		t.Errorf("duplicate Register: error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestReplace(t *testing.T) {
	ch := envelope.Channel("replace-test")

	if err := render.Replace(ch, strings.ToUpper); !errors.Is(err, render.ErrNotRegistered) {
		t.Errorf("Replace before Register: error = %v, want ErrNotRegistered", err)
	}

	if err := render.Register(ch, strings.ToUpper); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := render.Replace(ch, strings.ToLower); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	fn, ok := render.Get(ch)
	if !ok {
		t.Fatal("Get() should find the replaced transform")
	}
	if got := fn("ABC"); got != "abc" {
		t.Errorf("replaced transform returned %q, want %q", got, "abc")
	}
}

func TestGet_Unregistered(t *testing.T) {
	if _, ok := render.Get("never-registered"); ok {
		t.Error("Get() should report false for an unknown channel")
	}
}

func TestBootstrap(t *testing.T) {
	render.Bootstrap()
	render.Bootstrap() // idempotent

	answer, ok := render.Get(envelope.ChannelAnswer)
	if !ok {
		t.Fatal("answer transform missing after Bootstrap")
	}
	query, ok := render.Get(envelope.ChannelQuery)
	if !ok {
		t.Fatal("query transform missing after Bootstrap")
	}

	if got := answer("Hanoi,Saigon"); got != "Hanoi, Saigon" {
		t.Errorf("answer transform = %q, want normalized text", got)
	}
	if got := query("select 1 from t"); got != "SELECT 1\nFROM t" {
		t.Errorf("query transform = %q, want formatted SQL", got)
	}
}

func TestChannels_SortedAndIncludesDefaults(t *testing.T) {
	render.Bootstrap()

	channels := render.Channels()
	var foundAnswer, foundQuery bool
	for i, ch := range channels {
		if i > 0 && channels[i-1] > ch {
			t.Fatalf("Channels() not sorted: %v", channels)
		}
		switch ch {
		case envelope.ChannelAnswer:
			foundAnswer = true
		case envelope.ChannelQuery:
			foundQuery = true
		}
	}
	if !foundAnswer || !foundQuery {
		t.Errorf("Channels() = %v, want answer and query present", channels)
	}
}
