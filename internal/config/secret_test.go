package config

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	s := Secret("my-api-key")

	if got := fmt.Sprintf("%s", s); got != "[REDACTED]" {
		t.Errorf("String(): got %q", got)
	}
	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Errorf("%%v: got %q", got)
	}
	if got := fmt.Sprintf("%#v", s); got != `"[REDACTED]"` {
		t.Errorf("%%#v: got %q", got)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(data) != `"[REDACTED]"` {
		t.Errorf("JSON: got %s", data)
	}
}

func TestSecretEmpty(t *testing.T) {
	s := Secret("")
	if got := s.String(); got != "" {
		t.Errorf("empty secret should print empty, got %q", got)
	}
}

func TestSecretReveal(t *testing.T) {
	s := Secret("my-api-key")
	if s.Reveal() != "my-api-key" {
		t.Errorf("Reveal(): got %q", s.Reveal())
	}
}
