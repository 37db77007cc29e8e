// Package textutil holds the pure text helpers used when turning chat
// messages into tasks: URL extraction, reply escaping and chunking.
package textutil

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>()]+|\bwww\.[^\s<>()]+`)

const urlTrailingPunct = "),.;!?"

// ExtractedURL is a web address found in free text.
type ExtractedURL struct {
	// Raw is the substring as it appeared in the text.
	Raw string
	// Normalized is the absolute form; www. hosts get an https:// prefix.
	Normalized string
}

// ExtractFirstURL returns the first http(s) or www. address in text.
func ExtractFirstURL(text string) (ExtractedURL, bool) {
	match := urlPattern.FindString(text)
	if match == "" {
		return ExtractedURL{}, false
	}

	raw := strings.TrimRight(match, urlTrailingPunct)
	normalized := raw
	if len(raw) >= 4 && strings.EqualFold(raw[:4], "www.") {
		normalized = "https://" + raw
	}
	return ExtractedURL{Raw: raw, Normalized: normalized}, true
}

// RemoveURL drops every occurrence of u from text and collapses whitespace.
// Applying it twice with the same u is a no-op the second time.
func RemoveURL(text string, u ExtractedURL) string {
	if u.Raw != "" {
		text = strings.ReplaceAll(text, u.Raw, " ")
	}
	if u.Normalized != "" && u.Normalized != u.Raw {
		text = strings.ReplaceAll(text, u.Normalized, " ")
	}
	return strings.Join(strings.Fields(text), " ")
}
