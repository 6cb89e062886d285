package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
)

func TestValidateRaw_WellFormedQuiz(t *testing.T) {
	raw := json.RawMessage(`{
		"schema_version": "1.0",
		"kind": "quiz",
		"title": "Greetings quiz",
		"validation": {"require_interaction": true, "min_items": 1},
		"quiz": {"questions": [
			{"question": "Which is a greeting?", "options": ["Hello", "Table", "Chair"], "correct_index": 0}
		]}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Valid(), "errors: %v", res.Errors)
	assert.Equal(t, content.KindQuiz, res.Content.Kind)
	require.NotNil(t, res.Content.Quiz)
	assert.Equal(t, 0, res.Content.Quiz.Questions[0].CorrectIndex)
}

func TestValidateRaw_RepairsStringCorrectIndex(t *testing.T) {
	// A string-typed index is a recoverable defect: the validator must
	// return a repaired object with a numeric index, not a failure.
	raw := json.RawMessage(`{
		"schema_version": "1.0",
		"kind": "quiz",
		"title": "q",
		"quiz": {"questions": [
			{"question": "Pick one", "options": ["a", "b"], "correct_index": "1"}
		]}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.Equal(t, 1, res.Content.Quiz.Questions[0].CorrectIndex)
}

func TestValidateRaw_RepairsOffByOneIndex(t *testing.T) {
	// correct_index == len(options) reads as a 1-based index; clamp it.
	raw := json.RawMessage(`{
		"kind": "quiz",
		"title": "q",
		"quiz": {"questions": [
			{"question": "Pick one", "options": ["a", "b", "c"], "correct_index": 3}
		]}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Repaired)
	assert.Equal(t, 2, res.Content.Quiz.Questions[0].CorrectIndex)
}

func TestValidateRaw_RejectsFarOutOfRangeIndex(t *testing.T) {
	raw := json.RawMessage(`{
		"kind": "quiz",
		"title": "q",
		"quiz": {"questions": [
			{"question": "Pick one", "options": ["a", "b"], "correct_index": 7}
		]}
	}`)

	res := ValidateRaw(raw)
	assert.False(t, res.Usable())
	assert.NotEmpty(t, res.Errors)
}

func TestValidateRaw_NormalizesLegacyKindLabel(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "flashcards",
		"title": "deck",
		"cards": {"cards": [{"front": "hello", "back": "a greeting"}]}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Repaired)
	assert.Equal(t, content.KindCards, res.Content.Kind)
}

func TestValidateRaw_RecoversLegacyContentField(t *testing.T) {
	// Older generators nested the payload under a generic "content" key.
	raw := json.RawMessage(`{
		"kind": "writing",
		"title": "w",
		"content": {"prompt": "Write about your day."}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Repaired)
	require.NotNil(t, res.Content.Writing)
	assert.Equal(t, "Write about your day.", res.Content.Writing.Prompt)
}

func TestValidateRaw_UnknownKindIsUnrecoverable(t *testing.T) {
	raw := json.RawMessage(`{"kind": "hologram", "title": "x"}`)
	res := ValidateRaw(raw)
	assert.False(t, res.Usable())
}

func TestValidateRaw_KindPayloadMismatchIsUnrecoverable(t *testing.T) {
	// Declared quiz, but only a cards payload attached.
	raw := json.RawMessage(`{
		"kind": "quiz",
		"title": "q",
		"cards": {"cards": [{"front": "a", "back": "b"}]}
	}`)

	res := ValidateRaw(raw)
	assert.False(t, res.Usable())
}

func TestValidateRaw_QuizRequiresTwoOptions(t *testing.T) {
	raw := json.RawMessage(`{
		"kind": "quiz",
		"title": "q",
		"quiz": {"questions": [{"question": "only one way", "options": ["a"], "correct_index": 0}]}
	}`)

	res := ValidateRaw(raw)
	assert.False(t, res.Usable())
}

func TestValidateRaw_DropsEmptyCards(t *testing.T) {
	raw := json.RawMessage(`{
		"kind": "cards",
		"title": "deck",
		"cards": {"cards": [
			{"front": "hello", "back": "greeting"},
			{"front": "", "back": "orphaned"}
		]}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Repaired)
	assert.Len(t, res.Content.Cards.Cards, 1)
}

func TestValidateRaw_ForcesInteractionForNonLessonKinds(t *testing.T) {
	raw := json.RawMessage(`{
		"kind": "writing",
		"title": "w",
		"writing": {"prompt": "p"},
		"validation": {"require_interaction": false}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Content.Validation.RequireInteraction)
}

func TestValidateRaw_MergesThresholdDefaults(t *testing.T) {
	raw := json.RawMessage(`{
		"schema_version": "1.0",
		"kind": "writing",
		"title": "w",
		"writing": {"prompt": "p"},
		"validation": {"require_interaction": true, "min_chars": 200}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	// The content's own threshold wins over the engine default of 50.
	assert.Equal(t, 200, res.Content.Validation.MinChars)
}

func TestValidateRaw_SchemaVersionMismatchIsRepaired(t *testing.T) {
	raw := json.RawMessage(`{
		"schema_version": "0.9",
		"kind": "writing",
		"title": "w",
		"writing": {"prompt": "p"}
	}`)

	res := ValidateRaw(raw)
	require.True(t, res.Usable())
	assert.True(t, res.Repaired)
	assert.Equal(t, content.ExpectedSchemaVersion, res.Content.SchemaVersion)
}

func TestValidateRaw_GarbageJSON(t *testing.T) {
	res := ValidateRaw(json.RawMessage(`not json at all`))
	assert.False(t, res.Usable())
}
