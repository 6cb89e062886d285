package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/focusroom/internal/content"
)

func TestFallback_EveryKindProducesValidContent(t *testing.T) {
	for _, kind := range content.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			item := content.Item{ID: "i1", Kind: kind, Topic: "past tense verbs"}
			r := Fallback(item)
			require.NotNil(t, r)
			assert.Equal(t, kind, r.Kind)
			assert.True(t, r.Fallback)
			assert.NotNil(t, r.Payload(), "fallback payload must match its own kind")
			assert.Equal(t, content.ExpectedSchemaVersion, r.SchemaVersion)
		})
	}
}

func TestFallback_Deterministic(t *testing.T) {
	item := content.Item{ID: "i1", Kind: content.KindWriting, Topic: "greetings"}
	assert.Equal(t, Fallback(item), Fallback(item))
}

func TestFallback_UsesTopicInVisibleText(t *testing.T) {
	item := content.Item{ID: "i1", Kind: content.KindWriting, Topic: "ordering food"}
	r := Fallback(item)
	require.NotNil(t, r.Writing)
	assert.Contains(t, r.Writing.Prompt, "ordering food")
	assert.Equal(t, "Ordering food", r.Title)
}

func TestFallback_LabelWhenTopicMissing(t *testing.T) {
	item := content.Item{ID: "i1", Kind: content.KindChecklist, Label: "speaking drill"}
	r := Fallback(item)
	require.NotNil(t, r.Checklist)
	assert.Contains(t, r.Checklist.Steps[0], "speaking drill")
}

func TestFallback_UnknownKindDegradesToLesson(t *testing.T) {
	item := content.Item{ID: "i1", Kind: content.Kind("hologram"), Topic: "x"}
	r := Fallback(item)
	assert.Equal(t, content.KindLesson, r.Kind)
	assert.NotNil(t, r.Lesson)
}

func TestFallback_CarriesDefaultThresholds(t *testing.T) {
	r := Fallback(content.Item{ID: "i1", Kind: content.KindRoleplay, Topic: "cafe"})
	assert.Equal(t, content.DefaultValidation(content.KindRoleplay), r.Validation)
	assert.Equal(t, 2, r.Validation.MinMessages)
	assert.Equal(t, 80, r.Validation.MinChars)
}
