package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveProofChars_CreditsRealDescriptions(t *testing.T) {
	text := "I greeted the barista and ordered a coffee in Spanish."
	assert.Equal(t, len([]rune(text)), EffectiveProofChars(text))
}

func TestEffectiveProofChars_TrimsSurroundingWhitespace(t *testing.T) {
	assert.Equal(t, len("we spoke for five minutes"),
		EffectiveProofChars("   we spoke for five minutes \n"))
}

func TestEffectiveProofChars_RejectsTrivialInput(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"whitespace only":  "   \n\t ",
		"held-down key":    "aaaaaaaaaaaaaaaaaaaaaaaaa",
		"two-char pattern": "ababababababababababab",
		"single word":      "asdfghjklqwertyuiop",
		"punctuation only": "?!?! ... ---- ....",
	}
	for name, text := range cases {
		assert.Zero(t, EffectiveProofChars(text), name)
	}
}
