package gate

import (
	"strings"
	"unicode"
)

// EffectiveProofChars returns the character count credited for a checklist
// proof text. Trivial inputs earn no credit at all: padding the counter with
// a held-down key or a single mashed word must not unlock completion.
func EffectiveProofChars(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}

	distinct := make(map[rune]bool)
	letters := 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		distinct[r] = true
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters++
		}
	}

	// A real description has some variety and more than one word.
	if len(distinct) < 4 || letters < 4 {
		return 0
	}
	if len(strings.Fields(trimmed)) < 2 {
		return 0
	}
	return len([]rune(trimmed))
}
