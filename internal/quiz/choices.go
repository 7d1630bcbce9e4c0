package quiz

import (
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxChoices is the number of options shown per card, the answer included.
const maxChoices = 4

// GenerateChoices returns the answer together with up to three distractors,
// shuffled with rng.
//
// Numeric answers get n+1, n-1 and 2n (1 when n is zero). Text answers get a
// plural, a copy missing its last character, an upper-cased copy and a
// capitalized copy. Distractors equal to the answer, empty distractors and
// duplicates are dropped, comparing numeric answers by value, so the result
// always holds the answer exactly once and between one and four distinct
// entries.
func GenerateChoices(answer string, rng *rand.Rand) []string {
	var candidates []string
	if n, ok := parseNumber(answer); ok {
		double := n * 2
		if n == 0 {
			double = 1
		}
		// Large magnitudes absorb the offset, so compare values rather than text.
		seenValues := map[float64]struct{}{n: {}}
		for _, v := range []float64{n + 1, n - 1, double} {
			if _, dup := seenValues[v]; dup {
				continue
			}
			seenValues[v] = struct{}{}
			candidates = append(candidates, formatNumber(v))
		}
	} else {
		candidates = []string{
			answer + "s",
			dropLastRune(answer),
			strings.ToUpper(answer),
			capitalize(answer),
		}
	}

	choices := make([]string, 0, maxChoices)
	choices = append(choices, answer)
	seen := map[string]struct{}{answer: {}}
	for _, c := range candidates {
		if len(choices) == maxChoices {
			break
		}
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		choices = append(choices, c)
	}

	if rng != nil {
		rng.Shuffle(len(choices), func(i, j int) {
			choices[i], choices[j] = choices[j], choices[i]
		})
	}
	return choices
}

// parseNumber reports whether s, ignoring surrounding space, is a finite number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// formatNumber prints integral values without a fractional part.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func dropLastRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
