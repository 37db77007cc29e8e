package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUpstreamTruncatesBody(t *testing.T) {
	err := Upstream("groq transcription", 502, []byte(strings.Repeat("x", 2000)))
	if len(err.Body) != maxBodyLen {
		t.Fatalf("body length = %d, want %d", len(err.Body), maxBodyLen)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q does not carry the status", err.Error())
	}
}

func TestUpstreamTruncatesOnRuneBoundary(t *testing.T) {
	err := Upstream("groq transcription", 400, []byte(strings.Repeat("ошибка ", 200)))
	if !utf8.ValidString(err.Body) {
		t.Fatal("truncated body is not valid utf8")
	}
	if n := utf8.RuneCountInString(err.Body); n != maxBodyLen {
		t.Errorf("body = %d runes, want %d", n, maxBodyLen)
	}
	if !strings.HasPrefix(strings.Repeat("ошибка ", 200), err.Body) {
		t.Error("body is not a prefix of the response")
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("transcribe: %w", Upstream("groq", 500, nil))
	if !IsUpstream(wrapped) {
		t.Error("IsUpstream should see through wrapping")
	}
	if IsValidation(wrapped) {
		t.Error("upstream error reported as validation error")
	}

	invalid := fmt.Errorf("summarize: %w", &ValidationError{Service: "groq", Reason: "empty title"})
	if !IsValidation(invalid) {
		t.Error("IsValidation should see through wrapping")
	}
	if IsUpstream(invalid) || IsUpstream(errors.New("plain")) {
		t.Error("unexpected upstream match")
	}
}

func TestConfigErrorMessage(t *testing.T) {
	if got := (&ConfigError{Key: "NOTION_TOKEN"}).Error(); got != "NOTION_TOKEN is required" {
		t.Errorf("got %q", got)
	}
	if got := (&ConfigError{Key: "TELEGRAM_OWNER_ID", Reason: "not a number"}).Error(); got != "TELEGRAM_OWNER_ID: not a number" {
		t.Errorf("got %q", got)
	}
}
