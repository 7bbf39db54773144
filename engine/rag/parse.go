package rag

import "strings"

// ExtractJSON strips the recognized wrapper patterns models put around JSON
// output. It is intentionally the single place that knows about those
// conventions: the degraded-success fallback changes here if they shift.
// Recognized wrappers: a leading "```json" or "```" fence line and a
// trailing "```" fence. Anything else is returned trimmed but untouched.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
