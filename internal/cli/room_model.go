package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/focusroom/internal/content"
	"github.com/alexanderramin/focusroom/internal/gate"
	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/progress"
	"github.com/alexanderramin/focusroom/internal/render"
)

// roomModel drives one day's focus session: a phase machine over the day's
// items, from content loading through intro, teaching, tasks, and summary.
type roomModel struct {
	ctx context.Context
	app *App

	plan *planner.Plan
	day  *planner.Day

	phase     progress.Phase
	itemIdx   int
	script    []scriptStep
	scriptIdx int

	resolved *content.Resolved
	loading  bool

	inter      gate.Interaction
	confirm    gate.ConfirmGate
	lastResult gate.Result
	steps      []bool // checklist step toggles

	completedPlan *planner.Plan
	completeErr   error

	spinner  spinner.Model
	input    textarea.Model
	quitting bool
	err      error
}

// Messages produced by the model's own commands.
type contentReadyMsg struct {
	itemID   string
	resolved *content.Resolved
}

type contentFailedMsg struct {
	itemID string
	err    error
}

type dayCompletedMsg struct {
	plan *planner.Plan
	err  error
}

func newRoomModel(ctx context.Context, app *App, plan *planner.Plan, day *planner.Day) roomModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	input := textarea.New()
	input.Placeholder = "Type here..."
	input.SetHeight(4)
	input.ShowLineNumbers = false

	return roomModel{
		ctx:     ctx,
		app:     app,
		plan:    plan,
		day:     day,
		phase:   progress.PhaseLoading,
		spinner: sp,
		input:   input,
		loading: true,
	}
}

func (m roomModel) currentItem() content.Item {
	return m.day.Items[m.itemIdx]
}

// loadItemCmd resolves content for the given item in the background.
func (m roomModel) loadItemCmd(item content.Item) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		resolved, err := app.Loader.LoadContent(ctx, item)
		if err != nil {
			return contentFailedMsg{itemID: item.ID, err: err}
		}
		return contentReadyMsg{itemID: item.ID, resolved: resolved}
	}
}

func (m roomModel) completeDayCmd() tea.Cmd {
	ctx, app := m.ctx, m.app
	planID, dayIndex := m.plan.ID, m.day.DayIndex
	return func() tea.Msg {
		plan, err := app.Plans.CompleteDay(ctx, planID, dayIndex)
		return dayCompletedMsg{plan: plan, err: err}
	}
}

func (m roomModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadItemCmd(m.currentItem()))
}

func (m roomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case contentReadyMsg:
		// A stale load for a previous item can arrive after advancing.
		if msg.itemID != m.currentItem().ID {
			return m, nil
		}
		m.resolved = msg.resolved
		m.loading = false
		m.resetInteraction()
		m.script = scriptSteps(m.currentItem(), m.resolved)
		m.scriptIdx = 0
		if m.phase == progress.PhaseLoading {
			m.phase, _ = progress.Transition(m.phase, progress.EventContentReady)
		} else if m.phase == progress.PhaseTask && m.needsTextInput() {
			return m, m.input.Focus()
		}
		return m, nil

	case contentFailedMsg:
		if msg.itemID != m.currentItem().ID {
			return m, nil
		}
		// The loader guarantees fallback content for service failures, so
		// an error here means the session itself is being torn down.
		m.loading = false
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case dayCompletedMsg:
		m.completedPlan = msg.plan
		m.completeErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m roomModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {
	case progress.PhaseLoading:
		return m, nil

	case progress.PhaseIntro:
		if msg.Type == tea.KeyEnter {
			m.phase, _ = progress.Transition(m.phase, progress.EventIntroDone)
		}
		return m, nil

	case progress.PhaseTeach:
		if msg.Type == tea.KeyEnter {
			// Walk the script one step per keypress before moving on.
			if m.scriptIdx+1 < len(m.script) {
				m.scriptIdx++
				return m, nil
			}
			m.phase, _ = progress.Transition(m.phase, progress.EventTeachDone)
			m.input.Reset()
			if m.needsTextInput() {
				return m, m.input.Focus()
			}
		}
		return m, nil

	case progress.PhaseTask:
		return m.handleTaskKey(msg)

	case progress.PhaseEvaluate:
		if msg.Type == tea.KeyEnter {
			return m.leaveEvaluate()
		}
		return m, nil

	case progress.PhaseRetry:
		if msg.Type == tea.KeyEnter {
			m.phase, _ = progress.Transition(m.phase, progress.EventRetryStart)
			if m.needsTextInput() {
				return m, m.input.Focus()
			}
		}
		return m, nil

	case progress.PhaseSummary:
		if msg.Type == tea.KeyEnter {
			m.phase, _ = progress.Transition(m.phase, progress.EventSummaryDone)
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// handleTaskKey accumulates interaction and dispatches completion attempts.
func (m roomModel) handleTaskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading || m.resolved == nil {
		return m, nil
	}
	kind := m.resolved.Kind

	// Ctrl+D attempts completion from any task kind.
	if msg.Type == tea.KeyCtrlD {
		return m.attemptComplete()
	}

	switch kind {
	case content.KindLesson:
		if msg.Type == tea.KeyEnter {
			m.inter.Acknowledged = true
			m.confirm.Reset()
			return m.attemptComplete()
		}
		return m, nil

	case content.KindQuiz, content.KindTranslation, content.KindCards:
		// Enter records one answered/flipped item.
		if msg.Type == tea.KeyEnter {
			m.inter.ItemsDone++
			m.inter.CharsTyped += len([]rune(strings.TrimSpace(m.input.Value())))
			m.input.Reset()
			m.confirm.Reset()
			return m, nil
		}

	case content.KindRoleplay:
		if msg.Type == tea.KeyEnter {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				m.inter.Messages++
				m.inter.CharsTyped += len([]rune(text))
				m.input.Reset()
				m.confirm.Reset()
			}
			return m, nil
		}

	case content.KindChecklist:
		// Number keys toggle steps; the textarea collects proof.
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			i := int(msg.Runes[0] - '1')
			if i < len(m.steps) {
				m.steps[i] = !m.steps[i]
				m.syncChecklist()
				m.confirm.Reset()
			}
			return m, nil
		}
	}

	// Everything else feeds the textarea.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncTyped()
	m.confirm.Reset()
	return m, cmd
}

// attemptComplete runs the gate and either advances to evaluate or, for a
// passing checklist, arms the two-step confirm first.
func (m roomModel) attemptComplete() (tea.Model, tea.Cmd) {
	m.syncTyped()
	m.lastResult = gate.Evaluate(m.resolved.Kind, m.resolved.Validation, m.inter)

	if m.lastResult.CanComplete && m.resolved.Kind == content.KindChecklist && !m.confirm.Attempt() {
		// Armed: the view shows the confirm prompt, phase stays task.
		return m, nil
	}

	m.phase, _ = progress.Transition(m.phase, progress.EventTaskSubmit)
	m.input.Blur()
	return m, nil
}

// leaveEvaluate routes out of the evaluate phase based on the gate verdict.
func (m roomModel) leaveEvaluate() (tea.Model, tea.Cmd) {
	if !m.lastResult.CanComplete {
		m.phase, _ = progress.Transition(m.phase, progress.EventEvalFailed)
		return m, nil
	}

	var cmds []tea.Cmd
	if m.app.Items != nil {
		itemID := m.currentItem().ID
		ctx, items := m.ctx, m.app.Items
		cmds = append(cmds, func() tea.Msg {
			_ = items.CompleteItem(ctx, itemID)
			return nil
		})
	}

	if m.itemIdx+1 >= len(m.day.Items) {
		m.phase, _ = progress.Transition(m.phase, progress.EventTasksDone)
		cmds = append(cmds, m.completeDayCmd())
		return m, tea.Batch(cmds...)
	}

	m.phase, _ = progress.Transition(m.phase, progress.EventEvalPassed)
	m.itemIdx++
	m.resolved = nil
	m.loading = true
	m.resetInteraction()
	cmds = append(cmds, m.spinner.Tick, m.loadItemCmd(m.currentItem()))
	return m, tea.Batch(cmds...)
}

func (m *roomModel) resetInteraction() {
	m.inter = gate.Interaction{}
	m.confirm.Reset()
	m.lastResult = gate.Result{}
	m.input.Reset()
	m.steps = nil
	if m.resolved != nil && m.resolved.Checklist != nil {
		m.steps = make([]bool, len(m.resolved.Checklist.Steps))
		m.inter.StepsTotal = len(m.resolved.Checklist.Steps)
	}
}

// syncTyped recomputes character counters from the textarea.
func (m *roomModel) syncTyped() {
	if m.resolved == nil {
		return
	}
	text := m.input.Value()
	switch m.resolved.Kind {
	case content.KindWriting:
		m.inter.CharsTyped = len([]rune(text))
	case content.KindChecklist:
		m.inter.ProofChars = gate.EffectiveProofChars(text)
	}
}

func (m *roomModel) syncChecklist() {
	checked := 0
	for _, done := range m.steps {
		if done {
			checked++
		}
	}
	m.inter.StepsChecked = checked
	m.inter.StepsTotal = len(m.steps)
}

func (m roomModel) needsTextInput() bool {
	if m.resolved == nil {
		return false
	}
	switch m.resolved.Kind {
	case content.KindLesson:
		return false
	default:
		return true
	}
}

func (m roomModel) View() string {
	if m.quitting {
		if m.err != nil {
			return render.Warn("session ended: "+m.err.Error()) + "\n"
		}
		return ""
	}

	switch m.phase {
	case progress.PhaseLoading:
		return fmt.Sprintf("\n %s preparing your session...\n", m.spinner.View())

	case progress.PhaseIntro:
		body := m.day.Intro
		if body == "" {
			body = fmt.Sprintf("%d items today. Take them one at a time.", len(m.day.Items))
		}
		return render.Box(m.day.Title, body+"\n\n"+render.Dim("enter to begin"))

	case progress.PhaseTeach:
		return m.teachView()

	case progress.PhaseTask:
		return m.taskView()

	case progress.PhaseEvaluate:
		if m.lastResult.CanComplete {
			return render.Box("", render.Good("✔ Done.")+"\n\n"+render.Dim("enter to continue"))
		}
		p := m.lastResult.Progress
		return render.Box("", render.Warn("Not yet.")+"\n"+
			fmt.Sprintf("%s (%d/%d %s)", m.lastResult.Reason, p.Current, p.Required, p.Type)+
			"\n\n"+render.Dim("enter to keep going"))

	case progress.PhaseRetry:
		return render.Box("", m.lastResult.Reason+"\n\n"+render.Dim("enter to retry"))

	case progress.PhaseSummary:
		return m.summaryView()
	}
	return ""
}

func (m roomModel) teachView() string {
	if len(m.script) == 0 {
		return m.app.Renderer.Render(m.resolved) + "\n" + render.Dim("enter to start the task")
	}
	step := m.script[m.scriptIdx]
	hint := "enter for the next part"
	if m.scriptIdx+1 >= len(m.script) {
		hint = "enter to start the task"
	}
	return render.Box("", step.Text+"\n\n"+
		render.Dim(fmt.Sprintf("%d/%d · %s", m.scriptIdx+1, len(m.script), hint)))
}

func (m roomModel) taskView() string {
	if m.loading || m.resolved == nil {
		return fmt.Sprintf("\n %s loading the next item...\n", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(m.app.Renderer.Render(m.resolved))
	b.WriteString("\n")

	if m.resolved.Kind == content.KindChecklist {
		for i, done := range m.steps {
			mark := "[ ]"
			if done {
				mark = "[x]"
			}
			b.WriteString(fmt.Sprintf("  %s %d. %s\n", mark, i+1, m.resolved.Checklist.Steps[i]))
		}
		b.WriteString(render.Dim("press 1-9 to toggle steps, describe how it went below") + "\n")
	}

	if m.needsTextInput() {
		b.WriteString("\n" + m.input.View() + "\n")
	}

	if m.confirm.Armed() {
		b.WriteString("\n" + render.Warn("Press ctrl+d again to confirm completion.") + "\n")
	} else if m.resolved.Kind == content.KindLesson {
		b.WriteString("\n" + render.Dim("enter when you've read it") + "\n")
	} else {
		b.WriteString("\n" + render.Dim("ctrl+d when you're done") + "\n")
	}
	return b.String()
}

func (m roomModel) summaryView() string {
	var b strings.Builder
	b.WriteString(render.Good("Day complete.") + "\n\n")
	switch {
	case m.completeErr != nil:
		b.WriteString(render.Warn("Saving progress failed: "+m.completeErr.Error()) + "\n")
	case m.completedPlan != nil:
		b.WriteString(fmt.Sprintf("streak: %d  next day: %d/%d\n",
			m.completedPlan.Meta.Streak,
			m.completedPlan.Meta.CurrentDayIndex,
			m.completedPlan.Meta.DurationDays))
	default:
		b.WriteString(render.Dim("saving progress...") + "\n")
	}
	b.WriteString("\n" + render.Dim("enter to leave the room"))
	return render.Box(m.day.Title, b.String())
}
