package logutil

import "unicode/utf8"

// TruncateForLog shortens user supplied text to maxLen runes for logging.
// Multi-byte text is cut on rune boundaries.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
