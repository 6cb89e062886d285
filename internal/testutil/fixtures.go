package testutil

import (
	"github.com/google/uuid"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Item options
type ItemOption func(*content.Item)

func WithTopic(topic string) ItemOption {
	return func(i *content.Item) {
		i.Topic = topic
	}
}

func WithDayContext(title, intro string) ItemOption {
	return func(i *content.Item) {
		i.DayTitle = title
		i.DayIntro = intro
	}
}

func WithLang(lang string) ItemOption {
	return func(i *content.Item) {
		i.Lang = lang
	}
}

// NewTestItem builds a plan item of the given kind with a fresh id.
func NewTestItem(kind content.Kind, opts ...ItemOption) content.Item {
	item := content.Item{
		ID:     uuid.New().String(),
		Kind:   kind,
		Topic:  "greetings",
		Label:  "Practice greetings",
		Domain: "language",
		Level:  "beginner",
		Lang:   "en",
	}
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// NewTestResolved builds a minimal valid Resolved payload for the given kind.
func NewTestResolved(kind content.Kind) *content.Resolved {
	r := &content.Resolved{
		SchemaVersion: content.ExpectedSchemaVersion,
		Kind:          kind,
		Title:         "Greetings",
		Validation:    content.Validation{RequireInteraction: kind != content.KindLesson},
	}
	switch kind {
	case content.KindLesson:
		r.Lesson = &content.Lesson{
			Summary: "How to greet people.",
			Sections: []content.LessonSection{
				{Heading: "Basics", BodyMD: "Say hello."},
			},
			KeyPoints: []string{"Greet politely."},
		}
	case content.KindTranslation:
		r.Translation = &content.Translation{
			Pairs: []content.TranslationPair{
				{Prompt: "Hello, ___!", Answer: "world"},
			},
		}
	case content.KindQuiz:
		r.Quiz = &content.Quiz{
			Questions: []content.QuizQuestion{
				{Question: "Which is a greeting?", Options: []string{"Hello", "Table"}, CorrectIndex: 0},
			},
		}
	case content.KindCards:
		r.Cards = &content.Cards{
			Cards: []content.Card{
				{Front: "hello", Back: "a greeting"},
				{Front: "goodbye", Back: "a parting"},
			},
		}
	case content.KindRoleplay:
		r.Roleplay = &content.Roleplay{
			Scenario: "Order a coffee at a cafe.",
			Roles:    []string{"customer", "barista"},
			Opening:  "Good morning! What can I get you?",
		}
	case content.KindWriting:
		r.Writing = &content.Writing{
			Prompt: "Write a short introduction about yourself.",
		}
	case content.KindChecklist:
		r.Checklist = &content.Checklist{
			Steps:       []string{"Find a partner", "Greet them out loud"},
			ProofPrompt: "Describe how it went",
		}
	}
	return r
}
