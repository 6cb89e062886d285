package render

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/focusroom/internal/content"
)

type lessonRenderer struct{}

func (lessonRenderer) Render(r *content.Resolved) string {
	lesson := r.Lesson
	var b strings.Builder

	b.WriteString(header(r.Title))
	if lesson.Summary != "" {
		b.WriteString("\n" + styleFg.Render(lesson.Summary) + "\n")
	}
	for _, section := range lesson.Sections {
		if section.Heading != "" {
			b.WriteString("\n" + styleBold.Render(section.Heading) + "\n")
		}
		b.WriteString(styleFg.Render(section.BodyMD) + "\n")
	}
	if len(lesson.KeyPoints) > 0 {
		b.WriteString("\n" + styleBold.Render("Key points") + "\n")
		for _, point := range lesson.KeyPoints {
			b.WriteString(styleGreen.Render("  • ") + styleFg.Render(point) + "\n")
		}
	}
	return withFallbackNote(r, b.String())
}

type translationRenderer struct{}

func (translationRenderer) Render(r *content.Resolved) string {
	var b strings.Builder
	b.WriteString(header(r.Title))
	b.WriteString("\n")
	for i, pair := range r.Translation.Pairs {
		b.WriteString(fmt.Sprintf("%s %s\n",
			styleDim.Render(fmt.Sprintf("%2d.", i+1)),
			styleFg.Render(pair.Prompt)))
	}
	if r.InstructionsMD != "" {
		b.WriteString("\n" + styleDim.Render(r.InstructionsMD) + "\n")
	}
	return withFallbackNote(r, b.String())
}

type quizRenderer struct{}

func (quizRenderer) Render(r *content.Resolved) string {
	var b strings.Builder
	b.WriteString(header(r.Title))
	for i, q := range r.Quiz.Questions {
		b.WriteString(fmt.Sprintf("\n%s %s\n",
			styleBold.Render(fmt.Sprintf("Q%d.", i+1)),
			styleFg.Render(q.Question)))
		for j, option := range q.Options {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				styleBlue.Render(fmt.Sprintf("%c)", 'a'+j)),
				styleFg.Render(option)))
		}
	}
	return withFallbackNote(r, b.String())
}

type cardsRenderer struct{}

func (cardsRenderer) Render(r *content.Resolved) string {
	var b strings.Builder
	b.WriteString(header(r.Title))
	b.WriteString("\n")
	for _, card := range r.Cards.Cards {
		front := stylePurple.Render(card.Front)
		back := styleFg.Render(card.Back)
		b.WriteString(fmt.Sprintf("  %s %s %s\n", front, styleDim.Render("→"), back))
		if card.Example != "" {
			b.WriteString("     " + styleDim.Render(card.Example) + "\n")
		}
	}
	return withFallbackNote(r, b.String())
}

type roleplayRenderer struct{}

func (roleplayRenderer) Render(r *content.Resolved) string {
	roleplay := r.Roleplay
	var b strings.Builder
	b.WriteString(header(r.Title))
	b.WriteString("\n" + styleFg.Render(roleplay.Scenario) + "\n")
	if len(roleplay.Roles) > 0 {
		b.WriteString("\n" + styleDim.Render("Roles: "+strings.Join(roleplay.Roles, ", ")) + "\n")
	}
	if roleplay.Opening != "" {
		b.WriteString("\n" + stylePurple.Render("» ") + styleFg.Render(roleplay.Opening) + "\n")
	}
	return withFallbackNote(r, b.String())
}

type writingRenderer struct{}

func (writingRenderer) Render(r *content.Resolved) string {
	writing := r.Writing
	var b strings.Builder
	b.WriteString(header(r.Title))
	b.WriteString("\n" + styleFg.Render(writing.Prompt) + "\n")
	for _, hint := range writing.Hints {
		b.WriteString(styleDim.Render("  ◦ "+hint) + "\n")
	}
	minChars := r.Validation.MinChars
	if minChars > 0 {
		b.WriteString("\n" + styleDim.Render(fmt.Sprintf("Write at least %d characters.", minChars)) + "\n")
	}
	return withFallbackNote(r, b.String())
}

type checklistRenderer struct{}

func (checklistRenderer) Render(r *content.Resolved) string {
	checklist := r.Checklist
	var b strings.Builder
	b.WriteString(header(r.Title))
	b.WriteString("\n")
	for i, step := range checklist.Steps {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			styleGreen.Render(fmt.Sprintf("[%d]", i+1)),
			styleFg.Render(step)))
	}
	if checklist.ProofPrompt != "" {
		b.WriteString("\n" + styleYellow.Render(checklist.ProofPrompt) + "\n")
	}
	return withFallbackNote(r, b.String())
}

// withFallbackNote appends a visible marker when the content is a locally
// generated stand-in rather than a fresh generation.
func withFallbackNote(r *content.Resolved, view string) string {
	if !r.Fallback {
		return view
	}
	return view + "\n" + styleDim.Render("(offline practice version, retry later for fresh content)")
}
