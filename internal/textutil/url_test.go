package textutil

import (
	"strings"
	"testing"
)

func TestExtractFirstURL(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantRaw    string
		wantNormal string
	}{
		{name: "no url", text: "Buy milk", wantOK: false},
		{name: "no url with dots", text: "see example.com, maybe", wantOK: false},
		{
			name:       "trailing comma",
			text:       "Check this https://example.com/page, thanks",
			wantOK:     true,
			wantRaw:    "https://example.com/page",
			wantNormal: "https://example.com/page",
		},
		{
			name:       "trailing punctuation run",
			text:       "read http://a.io/x?y=1!?.",
			wantOK:     true,
			wantRaw:    "http://a.io/x?y=1",
			wantNormal: "http://a.io/x?y=1",
		},
		{
			name:       "inside parentheses",
			text:       "(https://example.com/a)",
			wantOK:     true,
			wantRaw:    "https://example.com/a",
			wantNormal: "https://example.com/a",
		},
		{
			name:       "www form",
			text:       "go to www.example.org; now",
			wantOK:     true,
			wantRaw:    "www.example.org",
			wantNormal: "https://www.example.org",
		},
		{
			name:       "upper case scheme",
			text:       "HTTPS://Example.com/Path",
			wantOK:     true,
			wantRaw:    "HTTPS://Example.com/Path",
			wantNormal: "HTTPS://Example.com/Path",
		},
		{
			name:       "first of two",
			text:       "a https://one.com b https://two.com",
			wantOK:     true,
			wantRaw:    "https://one.com",
			wantNormal: "https://one.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFirstURL(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.wantRaw)
			}
			if got.Normalized != tt.wantNormal {
				t.Errorf("Normalized = %q, want %q", got.Normalized, tt.wantNormal)
			}
		})
	}
}

func TestRemoveURL(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Check this https://example.com/page, thanks", "Check this , thanks"},
		{"https://example.com", ""},
		{"  before   www.site.io   after ", "before after"},
		{"dup https://x.io and https://x.io again", "dup and again"},
	}

	for _, tt := range tests {
		u, ok := ExtractFirstURL(tt.text)
		if !ok {
			t.Fatalf("no url found in %q", tt.text)
		}
		got := RemoveURL(tt.text, u)
		if got != tt.want {
			t.Errorf("RemoveURL(%q) = %q, want %q", tt.text, got, tt.want)
		}
		if strings.Contains(got, u.Raw) {
			t.Errorf("RemoveURL(%q) still contains %q", tt.text, u.Raw)
		}
		if again := RemoveURL(got, u); again != got {
			t.Errorf("second RemoveURL changed %q to %q", got, again)
		}
	}
}

func TestRemoveURLNormalizedForm(t *testing.T) {
	u := ExtractedURL{Raw: "www.a.io", Normalized: "https://www.a.io"}
	got := RemoveURL("x https://www.a.io y", u)
	if got != "x y" {
		t.Errorf("got %q, want %q", got, "x y")
	}
}
