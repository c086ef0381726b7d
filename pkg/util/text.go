package util

import "strings"

// Fold normalizes an utterance for matching: lowercase, punctuation
// stripped, whitespace collapsed to single spaces.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		case r == '.' || r == '_' || r == '-':
			// keep name characters (Cube.001, night_lamp)
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Words splits a folded utterance into tokens.
func Words(s string) []string {
	return strings.Fields(Fold(s))
}

// ContainsPhrase reports whether phrase occurs in s on word boundaries,
// after folding both.
func ContainsPhrase(s, phrase string) bool {
	hay := " " + Fold(s) + " "
	needle := " " + Fold(phrase) + " "
	return strings.Contains(hay, needle)
}
