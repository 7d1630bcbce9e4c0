package quiz

import "strings"

// normalizeAnswer trims, collapses inner whitespace and lower-cases s.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// AnswersMatch reports whether a chosen option matches the stored answer.
// Comparison ignores case and whitespace differences, and falls back to
// numeric equality so that "10" matches "10.0".
func AnswersMatch(option, answer string) bool {
	if normalizeAnswer(option) == normalizeAnswer(answer) {
		return true
	}
	a, ok := parseNumber(option)
	if !ok {
		return false
	}
	b, ok := parseNumber(answer)
	return ok && a == b
}
