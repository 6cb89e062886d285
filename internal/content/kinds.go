package content

import "strings"

// Kind identifies the canonical category of a practice item's content.
type Kind string

const (
	KindLesson      Kind = "lesson"
	KindTranslation Kind = "translation"
	KindQuiz        Kind = "quiz"
	KindCards       Kind = "cards"
	KindRoleplay    Kind = "roleplay"
	KindWriting     Kind = "writing"
	KindChecklist   Kind = "checklist"
)

// Kinds is the canonical set of content kinds in display order.
var Kinds = []Kind{
	KindLesson,
	KindTranslation,
	KindQuiz,
	KindCards,
	KindRoleplay,
	KindWriting,
	KindChecklist,
}

// kindAliases maps legacy and loose type labels, as emitted by older plan
// generators, to their canonical kind.
var kindAliases = map[string]Kind{
	"lesson":            KindLesson,
	"content":           KindLesson,
	"smart_lesson":      KindLesson,
	"translation":       KindTranslation,
	"quiz":              KindQuiz,
	"quiz_single":       KindQuiz,
	"quiz_multi":        KindQuiz,
	"single_select":     KindQuiz,
	"cards":             KindCards,
	"flashcard":         KindCards,
	"flashcards":        KindCards,
	"roleplay":          KindRoleplay,
	"dialogue":          KindRoleplay,
	"exercise":          KindRoleplay,
	"writing":           KindWriting,
	"checklist":         KindChecklist,
	"step_checklist":    KindChecklist,
	"task":              KindChecklist,
	"speaking":          KindChecklist,
	"practice_speaking": KindChecklist,
}

// NormalizeKind maps a loose type label to its canonical Kind.
// Matching is case-insensitive and tolerates surrounding whitespace.
// The second return value reports whether the label was recognized.
func NormalizeKind(label string) (Kind, bool) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(label))]
	return k, ok
}

// Valid reports whether k is one of the canonical kinds.
func (k Kind) Valid() bool {
	_, ok := kindAliases[string(k)]
	return ok && kindAliases[string(k)] == k
}
