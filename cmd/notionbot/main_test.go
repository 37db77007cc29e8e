package main

import (
	"bytes"
	"strings"
	"testing"

	"notionbot/internal/config"
)

func TestDescribe(t *testing.T) {
	cfg := config.Defaults()
	cfg.Telegram.OwnerID = 100
	cfg.Telegram.AllowIDs = []int64{200, 300}
	cfg.Groq.Token = "gsk_secret"

	var buf bytes.Buffer
	describe(&buf, cfg)
	out := buf.String()

	for _, want := range []string{
		"owner:         100",
		"allow list:    200, 300",
		"transcription: groq whisper-large-v3 (ru)",
		"summaries:     groq llama-3.3-70b-versatile",
		"journal:       disabled",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "gsk_secret") {
		t.Error("output leaks the Groq token")
	}
}

func TestDescribeGeminiWithoutGroq(t *testing.T) {
	cfg := config.Defaults()
	cfg.Gemini.APIKey = "key"

	var buf bytes.Buffer
	describe(&buf, cfg)
	out := buf.String()

	if !strings.Contains(out, "transcription: disabled") || !strings.Contains(out, "summaries:     gemini gemini-2.5-flash") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "allow list:    owner only") {
		t.Errorf("empty allow list not reported:\n%s", out)
	}
}
