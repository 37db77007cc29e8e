package textutil

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes text for Telegram's HTML parse mode. It is not
// idempotent: escape once, right before sending.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Chunk splits text into consecutive pieces of at most size runes.
func Chunk(text string, size int) []string {
	if size < 1 {
		panic("textutil: chunk size must be positive")
	}
	if text == "" {
		return nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for i := range text {
		if count == size {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	return append(chunks, text[start:])
}

// ChunkUTF16 splits text into consecutive pieces of at most size UTF-16 code
// units, the unit Notion uses for its length limits. Surrogate pairs are never
// split.
func ChunkUTF16(text string, size int) []string {
	if size < 2 {
		panic("textutil: utf16 chunk size must be at least 2")
	}
	if text == "" {
		return nil
	}

	var chunks []string
	start, units := 0, 0
	for i, r := range text {
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		if units+n > size {
			chunks = append(chunks, text[start:i])
			start, units = i, 0
		}
		units += n
	}
	return append(chunks, text[start:])
}

// Truncate cuts text to at most n runes.
func Truncate(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
