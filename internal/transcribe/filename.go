package transcribe

import "strings"

// Extension guesses an audio file extension from a MIME type.
func Extension(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.Contains(m, "ogg"):
		return "ogg"
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return "mp3"
	case strings.Contains(m, "webm"):
		return "webm"
	case strings.Contains(m, "wav"):
		return "wav"
	case strings.Contains(m, "mp4"), strings.Contains(m, "m4a"):
		return "m4a"
	default:
		return "bin"
	}
}

// FileName returns explicit when set, otherwise base plus the guessed
// extension, e.g. "voice.ogg".
func FileName(base, explicit, mimeType string) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	return base + "." + Extension(mimeType)
}
