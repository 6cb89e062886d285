package validate

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Fallback synthesizes a deterministic content object for an item whose
// remote generation failed or produced unrepairable content. The item's
// topic and label supply the visible text, so a previously-unseen item never
// surfaces as a hard failure. The same item always yields the same template.
func Fallback(item content.Item) *content.Resolved {
	topic := strings.TrimSpace(item.Topic)
	if topic == "" {
		topic = strings.TrimSpace(item.Label)
	}
	if topic == "" {
		topic = "today's topic"
	}

	kind := item.Kind
	if !kind.Valid() {
		if normalized, ok := content.NormalizeKind(string(kind)); ok {
			kind = normalized
		} else {
			kind = content.KindLesson
		}
	}

	r := &content.Resolved{
		SchemaVersion: content.ExpectedSchemaVersion,
		Kind:          kind,
		Title:         titleCase(topic),
		Validation:    content.DefaultValidation(kind),
		Fallback:      true,
	}

	switch kind {
	case content.KindLesson:
		r.Lesson = &content.Lesson{
			Summary: fmt.Sprintf("A short self-guided review of %s.", topic),
			Sections: []content.LessonSection{
				{
					Heading: "Review",
					BodyMD: fmt.Sprintf(
						"Take a few minutes to recall what you already know about %s. "+
							"Write down three things you remember, then note one question you still have.", topic),
				},
			},
			KeyPoints: []string{
				fmt.Sprintf("Recall what you know about %s.", topic),
				"Note one open question to explore later.",
			},
		}
	case content.KindTranslation:
		r.InstructionsMD = fmt.Sprintf("Translate each phrase related to %s in your own words.", topic)
		r.Translation = &content.Translation{
			Pairs: []content.TranslationPair{
				{Prompt: fmt.Sprintf("Express the main idea of %s in one sentence.", topic), Answer: ""},
			},
		}
	case content.KindQuiz:
		r.Quiz = &content.Quiz{
			Questions: []content.QuizQuestion{
				{
					Question:     fmt.Sprintf("Did you review the material on %s?", topic),
					Options:      []string{"Yes, I reviewed it", "Not yet"},
					CorrectIndex: 0,
					Explanation:  "A quick self-check while tailored questions are unavailable.",
				},
			},
		}
	case content.KindCards:
		r.Cards = &content.Cards{
			Cards: []content.Card{
				{Front: topic, Back: fmt.Sprintf("Recall the key facts about %s.", topic)},
				{Front: fmt.Sprintf("%s: example", topic), Back: "Think of one concrete example from your own experience."},
				{Front: fmt.Sprintf("%s: question", topic), Back: "What is one thing you still want to learn?"},
			},
		}
	case content.KindRoleplay:
		r.Roleplay = &content.Roleplay{
			Scenario: fmt.Sprintf("Practice a short conversation about %s with an imagined partner.", topic),
			Roles:    []string{"you", "partner"},
			Opening:  fmt.Sprintf("Let's talk about %s. What do you think?", topic),
		}
	case content.KindWriting:
		r.Writing = &content.Writing{
			Prompt: fmt.Sprintf("Write a few sentences about %s: what you learned, and what surprised you.", topic),
			Hints:  []string{"Aim for at least three sentences.", "Use your own words."},
		}
	case content.KindChecklist:
		r.Checklist = &content.Checklist{
			Steps: []string{
				fmt.Sprintf("Review your notes on %s", topic),
				fmt.Sprintf("Practice %s once without looking at the notes", topic),
			},
			ProofPrompt: "Describe how you completed the task",
		}
	}

	return r
}

// titleCase upper-cases the first rune only; topics are short labels, not
// sentences, so full title casing would mangle proper nouns.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
