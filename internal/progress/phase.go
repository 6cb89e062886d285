package progress

import (
	"errors"
	"fmt"
)

// Phase is the sub-phase of an interactive room session layered on top of
// the current day. Only the task phase accepts user input.
type Phase string

const (
	PhaseLoading  Phase = "loading"
	PhaseIntro    Phase = "intro"
	PhaseTeach    Phase = "teach"
	PhaseTask     Phase = "task"
	PhaseEvaluate Phase = "evaluate"
	PhaseRetry    Phase = "retry"
	PhaseSummary  Phase = "summary"
	PhaseEnd      Phase = "end"
)

// PhaseEvent triggers a phase transition.
type PhaseEvent string

const (
	EventContentReady PhaseEvent = "content_ready"
	EventIntroDone    PhaseEvent = "intro_done"
	EventTeachDone    PhaseEvent = "teach_done"
	EventTaskSubmit   PhaseEvent = "task_submit"
	EventEvalPassed   PhaseEvent = "eval_passed"
	EventEvalFailed   PhaseEvent = "eval_failed"
	EventRetryStart   PhaseEvent = "retry_start"
	EventNextTask     PhaseEvent = "next_task"
	EventTasksDone    PhaseEvent = "tasks_done"
	EventSummaryDone  PhaseEvent = "summary_done"
)

// ErrInvalidTransition is returned when an event is not legal in the
// current phase.
var ErrInvalidTransition = errors.New("invalid phase transition")

// phaseTransitions is the full transition table of the session machine:
//
//	loading -> intro -> teach -> task -> evaluate -> (retry -> task | task | summary)
//	summary -> end
var phaseTransitions = map[Phase]map[PhaseEvent]Phase{
	PhaseLoading: {
		EventContentReady: PhaseIntro,
	},
	PhaseIntro: {
		EventIntroDone: PhaseTeach,
	},
	PhaseTeach: {
		EventTeachDone: PhaseTask,
	},
	PhaseTask: {
		EventTaskSubmit: PhaseEvaluate,
	},
	PhaseEvaluate: {
		EventEvalPassed: PhaseTask, // advance within the task list
		EventEvalFailed: PhaseRetry,
		EventNextTask:   PhaseTask,
		EventTasksDone:  PhaseSummary,
	},
	PhaseRetry: {
		EventRetryStart: PhaseTask,
	},
	PhaseSummary: {
		EventSummaryDone: PhaseEnd,
	},
}

// Transition applies event to phase, returning the next phase or
// ErrInvalidTransition. The machine terminates at PhaseEnd; no event leaves
// it.
func Transition(phase Phase, event PhaseEvent) (Phase, error) {
	next, ok := phaseTransitions[phase][event]
	if !ok {
		return phase, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, phase)
	}
	return next, nil
}

// AcceptsInput reports whether user input is legal in the given phase.
func AcceptsInput(phase Phase) bool {
	return phase == PhaseTask
}
