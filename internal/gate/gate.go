// Package gate decides when a practice item may be marked done, based on
// the user's accumulated interaction and the item's kind-specific
// thresholds. The gate is recomputed from scratch on every interaction
// change; it holds no state of its own apart from the checklist confirm
// step.
package gate

import (
	"fmt"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Interaction holds per-item counters accumulated purely from UI events.
// It is reset whenever the viewed item changes.
type Interaction struct {
	CharsTyped   int
	ItemsDone    int
	Messages     int
	ProofChars   int
	StepsChecked int
	StepsTotal   int
	Acknowledged bool
}

// ProgressType names the dimension a progress indicator is tracking.
type ProgressType string

const (
	ProgressItems    ProgressType = "items"
	ProgressChars    ProgressType = "chars"
	ProgressMessages ProgressType = "messages"
	ProgressSteps    ProgressType = "steps"
	ProgressProof    ProgressType = "proof_chars"
	ProgressRead     ProgressType = "read"
)

// Progress reports the single most restrictive unmet dimension, so the UI
// renders exactly one indicator.
type Progress struct {
	Current  int
	Required int
	Type     ProgressType
}

// Result is the gate's verdict for one interaction state.
type Result struct {
	CanComplete bool
	Progress    Progress
	Reason      string
}

// Evaluate computes whether an item of the given kind may be completed with
// the interaction accumulated so far. Thresholds come from the content's
// validation block merged over the engine's per-kind defaults.
func Evaluate(kind content.Kind, v content.Validation, s Interaction) Result {
	eff := content.EffectiveValidation(kind, v)

	type dimension struct {
		current  int
		required int
		ptype    ProgressType
		reason   string
	}
	var unmet []dimension
	check := func(current, required int, ptype ProgressType, reason string) {
		if required > 0 && current < required {
			unmet = append(unmet, dimension{current, required, ptype, reason})
		}
	}

	switch kind {
	case content.KindLesson:
		if eff.RequireInteraction && !s.Acknowledged {
			return Result{
				Progress: Progress{Current: 0, Required: 1, Type: ProgressRead},
				Reason:   "read the lesson to continue",
			}
		}
		return Result{CanComplete: true, Progress: Progress{Current: 1, Required: 1, Type: ProgressRead}}

	case content.KindTranslation, content.KindQuiz:
		check(s.ItemsDone, eff.MinItems, ProgressItems, "answer at least one item")
		check(s.CharsTyped, eff.MinChars, ProgressChars, "type a longer answer")

	case content.KindCards:
		check(s.ItemsDone, eff.MinItems, ProgressItems, "flip at least one card")

	case content.KindRoleplay:
		check(s.Messages, eff.MinMessages, ProgressMessages, "exchange more messages")
		check(s.CharsTyped, eff.MinChars, ProgressChars, "write longer replies")

	case content.KindWriting:
		check(s.CharsTyped, eff.MinChars, ProgressChars, "keep writing")

	case content.KindChecklist:
		check(s.StepsChecked, s.StepsTotal, ProgressSteps, "check off every step")
		if eff.RequireProof {
			required := eff.ProofMinChars
			if required <= 0 {
				required = 1
			}
			check(s.ProofChars, required, ProgressProof, "describe how you completed the task")
		}

	default:
		return Result{
			Progress: Progress{Required: 1, Type: ProgressItems},
			Reason:   fmt.Sprintf("unknown kind %q cannot be completed", kind),
		}
	}

	if len(unmet) == 0 {
		return Result{CanComplete: true, Progress: Progress{Current: 1, Required: 1, Type: progressTypeFor(kind)}}
	}

	// Pick the most restrictive unmet dimension: the one with the smallest
	// completion ratio. Ties keep declaration order, which lists item
	// counts before character counts.
	worst := unmet[0]
	for _, d := range unmet[1:] {
		if ratio(d.current, d.required) < ratio(worst.current, worst.required) {
			worst = d
		}
	}
	return Result{
		Progress: Progress{Current: worst.current, Required: worst.required, Type: worst.ptype},
		Reason:   worst.reason,
	}
}

func progressTypeFor(kind content.Kind) ProgressType {
	switch kind {
	case content.KindWriting:
		return ProgressChars
	case content.KindRoleplay:
		return ProgressMessages
	case content.KindChecklist:
		return ProgressSteps
	default:
		return ProgressItems
	}
}

func ratio(current, required int) float64 {
	if required <= 0 {
		return 1
	}
	return float64(current) / float64(required)
}
