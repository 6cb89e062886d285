package content

// ExpectedSchemaVersion is the content schema version this engine trusts.
// Content carrying any other version is still resolvable but must pass
// validation again before it is cached or rendered.
const ExpectedSchemaVersion = "1.0"

// Item is one atomic practice unit within a plan day. Items are created when
// a day's plan is generated and are never deleted within a session; resolved
// content and completion state are attached to them as the user progresses.
type Item struct {
	ID       string
	Kind     Kind
	Topic    string
	Label    string
	DayTitle string
	DayIntro string
	Domain   string
	Level    string
	Lang     string
}

// Validation holds the completion thresholds a content object carries for
// itself. Zero values defer to the engine's per-kind defaults.
type Validation struct {
	RequireInteraction bool `json:"require_interaction"`
	MinChars           int  `json:"min_chars,omitempty"`
	MinItems           int  `json:"min_items,omitempty"`
	MinMessages        int  `json:"min_messages,omitempty"`
	RequireProof       bool `json:"require_proof,omitempty"`
	ProofMinChars      int  `json:"proof_min_chars,omitempty"`
}

// UIHints carries display guidance that the engine passes through untouched.
type UIHints struct {
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
	DisplayMode      string `json:"display_mode,omitempty"`
}

// Resolved is the validated, structured payload for one item. Exactly one of
// the kind payload fields is non-nil, and it must match Kind; the validator
// guarantees this before a Resolved object reaches the cache or a renderer.
type Resolved struct {
	SchemaVersion  string       `json:"schema_version"`
	Kind           Kind         `json:"kind"`
	Title          string       `json:"title"`
	InstructionsMD string       `json:"instructions_md,omitempty"`
	Validation     Validation   `json:"validation"`
	UI             UIHints      `json:"ui,omitempty"`
	Fallback       bool         `json:"fallback,omitempty"`
	Lesson         *Lesson      `json:"lesson,omitempty"`
	Translation    *Translation `json:"translation,omitempty"`
	Quiz           *Quiz        `json:"quiz,omitempty"`
	Cards          *Cards       `json:"cards,omitempty"`
	Roleplay       *Roleplay    `json:"roleplay,omitempty"`
	Writing        *Writing     `json:"writing,omitempty"`
	Checklist      *Checklist   `json:"checklist,omitempty"`
}

// Payload returns the kind payload matching r.Kind, or nil when the
// discriminant does not match any populated payload.
func (r *Resolved) Payload() any {
	switch r.Kind {
	case KindLesson:
		if r.Lesson != nil {
			return r.Lesson
		}
	case KindTranslation:
		if r.Translation != nil {
			return r.Translation
		}
	case KindQuiz:
		if r.Quiz != nil {
			return r.Quiz
		}
	case KindCards:
		if r.Cards != nil {
			return r.Cards
		}
	case KindRoleplay:
		if r.Roleplay != nil {
			return r.Roleplay
		}
	case KindWriting:
		if r.Writing != nil {
			return r.Writing
		}
	case KindChecklist:
		if r.Checklist != nil {
			return r.Checklist
		}
	}
	return nil
}

// Lesson is reading content: a summary, ordered sections, and key points.
type Lesson struct {
	Summary   string          `json:"summary,omitempty"`
	Sections  []LessonSection `json:"sections,omitempty"`
	KeyPoints []string        `json:"key_points,omitempty"`
}

type LessonSection struct {
	Heading string `json:"heading,omitempty"`
	BodyMD  string `json:"body_md"`
}

// Translation is a set of prompt/answer pairs, typically cloze sentences.
type Translation struct {
	Pairs []TranslationPair `json:"pairs"`
}

type TranslationPair struct {
	Prompt string `json:"prompt"`
	Answer string `json:"answer"`
}

// Quiz is a multiple-choice quiz. Every question must offer at least two
// options with CorrectIndex in range.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Cards is a flashcard deck for memorization.
type Cards struct {
	Cards []Card `json:"cards"`
}

type Card struct {
	Front   string `json:"front"`
	Back    string `json:"back"`
	Example string `json:"example,omitempty"`
}

// Roleplay is a dialogue practice scenario.
type Roleplay struct {
	Scenario string   `json:"scenario"`
	Roles    []string `json:"roles,omitempty"`
	Opening  string   `json:"opening,omitempty"`
}

// Writing is a free-text writing prompt with optional hints.
type Writing struct {
	Prompt string   `json:"prompt"`
	Hints  []string `json:"hints,omitempty"`
}

// Checklist is an offline task broken into steps, completed with proof text.
type Checklist struct {
	Steps       []string `json:"steps"`
	ProofPrompt string   `json:"proof_prompt,omitempty"`
}
