// Package validate checks generated content against the schema, repairs
// recoverable defects, and synthesizes deterministic fallback templates when
// generation or repair fails. No invalid object leaves this package: the
// resolution pipeline only ever caches content that passed through here.
package validate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Result reports the outcome of validating one raw content payload.
// Content is non-nil whenever the payload was usable, possibly after repair;
// a nil Content means the defects were unrecoverable.
type Result struct {
	Content  *content.Resolved
	Repaired bool
	Errors   []string
}

// Valid reports whether the payload was well-formed as received.
func (r Result) Valid() bool {
	return r.Content != nil && !r.Repaired
}

// Usable reports whether the payload can be cached and rendered.
func (r Result) Usable() bool {
	return r.Content != nil
}

// flexInt decodes JSON numbers that models sometimes emit as strings,
// such as "1" or "1.0", in place of a plain integer.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(fl))
		return nil
	}
	return fmt.Errorf("not an integer: %s", s)
}

// looseQuizQuestion tolerates the index defects the repair policy covers.
type looseQuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex flexInt  `json:"correct_index"`
	Explanation  string   `json:"explanation,omitempty"`
}

type looseQuiz struct {
	Questions []looseQuizQuestion `json:"questions"`
}

// looseResolved is the tolerant decoding target for raw generated content.
// It accepts the legacy "type" discriminant alongside "kind" and the legacy
// generic "content" payload field alongside the per-kind named fields.
type looseResolved struct {
	SchemaVersion  string             `json:"schema_version"`
	Kind           string             `json:"kind"`
	Type           string             `json:"type"`
	Title          string             `json:"title"`
	InstructionsMD string             `json:"instructions_md"`
	Validation     content.Validation `json:"validation"`
	UI             content.UIHints    `json:"ui"`

	Lesson      *content.Lesson      `json:"lesson"`
	Translation *content.Translation `json:"translation"`
	Quiz        *looseQuiz           `json:"quiz"`
	Cards       *content.Cards       `json:"cards"`
	Roleplay    *content.Roleplay    `json:"roleplay"`
	Writing     *content.Writing     `json:"writing"`
	Checklist   *content.Checklist   `json:"checklist"`

	// Legacy shape: kind-specific data under a generic "content" object.
	LegacyContent json.RawMessage `json:"content"`
}

// ValidateRaw decodes and validates one raw generated payload.
func ValidateRaw(raw json.RawMessage) Result {
	var loose looseResolved
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Result{Errors: []string{fmt.Sprintf("decoding content: %v", err)}}
	}
	return validateLoose(&loose)
}

func validateLoose(loose *looseResolved) Result {
	var res Result
	repair := func(msg string) {
		res.Repaired = true
		res.Errors = append(res.Errors, msg)
	}
	fail := func(msg string) Result {
		res.Content = nil
		res.Errors = append(res.Errors, msg)
		return res
	}

	// Discriminant: prefer "kind", fall back to legacy "type".
	label := loose.Kind
	if label == "" {
		label = loose.Type
	}
	kind, ok := content.NormalizeKind(label)
	if !ok {
		return fail(fmt.Sprintf("unknown kind %q", label))
	}
	if string(kind) != loose.Kind {
		repair(fmt.Sprintf("normalized kind label %q to %q", label, kind))
	}

	out := &content.Resolved{
		SchemaVersion:  loose.SchemaVersion,
		Kind:           kind,
		Title:          strings.TrimSpace(loose.Title),
		InstructionsMD: loose.InstructionsMD,
		Validation:     loose.Validation,
		UI:             loose.UI,
		Lesson:         loose.Lesson,
		Translation:    loose.Translation,
		Cards:          loose.Cards,
		Roleplay:       loose.Roleplay,
		Writing:        loose.Writing,
		Checklist:      loose.Checklist,
	}
	if loose.Quiz != nil {
		out.Quiz = convertQuiz(loose.Quiz)
	}

	if out.SchemaVersion != content.ExpectedSchemaVersion {
		repair(fmt.Sprintf("schema_version %q replaced with %q", out.SchemaVersion, content.ExpectedSchemaVersion))
		out.SchemaVersion = content.ExpectedSchemaVersion
	}

	// Legacy payload recovery: no named payload, but a generic "content"
	// object is present for the detected kind.
	if out.Payload() == nil && len(loose.LegacyContent) > 0 {
		if err := decodeLegacyPayload(out, kind, loose.LegacyContent); err == nil && out.Payload() != nil {
			repair("recovered kind payload from legacy content field")
		}
	}

	if mismatched(out) {
		return fail(fmt.Sprintf("payload does not match declared kind %q", kind))
	}
	if out.Payload() == nil {
		return fail(fmt.Sprintf("missing payload for kind %q", kind))
	}

	if errs := checkKindPayload(out, repair); len(errs) > 0 {
		res.Errors = append(res.Errors, errs...)
		res.Content = nil
		return res
	}

	// Threshold block: non-lesson kinds must require interaction.
	if kind != content.KindLesson && !out.Validation.RequireInteraction {
		repair("validation.require_interaction forced on")
		out.Validation.RequireInteraction = true
	}
	out.Validation = content.EffectiveValidation(kind, out.Validation)

	res.Content = out
	return res
}

// mismatched reports whether a payload for a kind other than the declared
// one is attached while the declared kind's payload is missing.
func mismatched(r *content.Resolved) bool {
	if r.Payload() != nil {
		return false
	}
	return r.Lesson != nil || r.Translation != nil || r.Quiz != nil ||
		r.Cards != nil || r.Roleplay != nil || r.Writing != nil || r.Checklist != nil
}

func decodeLegacyPayload(out *content.Resolved, kind content.Kind, raw json.RawMessage) error {
	switch kind {
	case content.KindLesson:
		out.Lesson = &content.Lesson{}
		return json.Unmarshal(raw, out.Lesson)
	case content.KindTranslation:
		out.Translation = &content.Translation{}
		return json.Unmarshal(raw, out.Translation)
	case content.KindQuiz:
		var q looseQuiz
		if err := json.Unmarshal(raw, &q); err != nil {
			return err
		}
		out.Quiz = convertQuiz(&q)
		return nil
	case content.KindCards:
		out.Cards = &content.Cards{}
		return json.Unmarshal(raw, out.Cards)
	case content.KindRoleplay:
		out.Roleplay = &content.Roleplay{}
		return json.Unmarshal(raw, out.Roleplay)
	case content.KindWriting:
		out.Writing = &content.Writing{}
		return json.Unmarshal(raw, out.Writing)
	case content.KindChecklist:
		out.Checklist = &content.Checklist{}
		return json.Unmarshal(raw, out.Checklist)
	}
	return fmt.Errorf("no legacy decoder for kind %q", kind)
}

func convertQuiz(q *looseQuiz) *content.Quiz {
	out := &content.Quiz{Questions: make([]content.QuizQuestion, 0, len(q.Questions))}
	for _, lq := range q.Questions {
		out.Questions = append(out.Questions, content.QuizQuestion{
			Question:     strings.TrimSpace(lq.Question),
			Options:      lq.Options,
			CorrectIndex: int(lq.CorrectIndex),
			Explanation:  lq.Explanation,
		})
	}
	return out
}

// checkKindPayload enforces the required fields for each kind, applying
// repairs where the defect is recoverable. A non-empty return means the
// payload is unrecoverable.
func checkKindPayload(r *content.Resolved, repair func(string)) []string {
	switch r.Kind {
	case content.KindLesson:
		return checkLesson(r.Lesson)
	case content.KindTranslation:
		return checkTranslation(r.Translation, repair)
	case content.KindQuiz:
		return checkQuiz(r.Quiz, repair)
	case content.KindCards:
		return checkCards(r.Cards, repair)
	case content.KindRoleplay:
		if strings.TrimSpace(r.Roleplay.Scenario) == "" {
			return []string{"roleplay scenario is empty"}
		}
	case content.KindWriting:
		if strings.TrimSpace(r.Writing.Prompt) == "" {
			return []string{"writing prompt is empty"}
		}
	case content.KindChecklist:
		return checkChecklist(r.Checklist, repair)
	}
	return nil
}

func checkLesson(l *content.Lesson) []string {
	if strings.TrimSpace(l.Summary) != "" {
		return nil
	}
	for _, s := range l.Sections {
		if strings.TrimSpace(s.BodyMD) != "" {
			return nil
		}
	}
	return []string{"lesson has no summary and no section body"}
}

func checkTranslation(tr *content.Translation, repair func(string)) []string {
	kept := tr.Pairs[:0]
	for _, p := range tr.Pairs {
		if strings.TrimSpace(p.Prompt) == "" || strings.TrimSpace(p.Answer) == "" {
			repair("dropped translation pair with empty prompt or answer")
			continue
		}
		kept = append(kept, p)
	}
	tr.Pairs = kept
	if len(tr.Pairs) == 0 {
		return []string{"translation has no usable pairs"}
	}
	return nil
}

func checkQuiz(q *content.Quiz, repair func(string)) []string {
	if len(q.Questions) == 0 {
		return []string{"quiz has no questions"}
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.Question == "" {
			return []string{fmt.Sprintf("question %d has no text", i+1)}
		}
		if len(question.Options) < 2 {
			return []string{fmt.Sprintf("question %d has fewer than 2 options", i+1)}
		}
		if question.CorrectIndex == len(question.Options) {
			// 1-based index from the generator: shift back into range.
			repair(fmt.Sprintf("question %d correct_index clamped from %d", i+1, question.CorrectIndex))
			question.CorrectIndex = len(question.Options) - 1
		}
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			return []string{fmt.Sprintf("question %d correct_index %d out of range", i+1, question.CorrectIndex)}
		}
	}
	return nil
}

func checkCards(c *content.Cards, repair func(string)) []string {
	kept := c.Cards[:0]
	for _, card := range c.Cards {
		if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
			repair("dropped card with empty face")
			continue
		}
		kept = append(kept, card)
	}
	c.Cards = kept
	if len(c.Cards) == 0 {
		return []string{"cards deck has no usable cards"}
	}
	return nil
}

func checkChecklist(cl *content.Checklist, repair func(string)) []string {
	kept := cl.Steps[:0]
	for _, step := range cl.Steps {
		if strings.TrimSpace(step) == "" {
			repair("dropped empty checklist step")
			continue
		}
		kept = append(kept, step)
	}
	cl.Steps = kept
	if len(cl.Steps) == 0 {
		return []string{"checklist has no steps"}
	}
	if strings.TrimSpace(cl.ProofPrompt) == "" {
		repair("checklist proof_prompt defaulted")
		cl.ProofPrompt = "Describe how you completed the task"
	}
	return nil
}
