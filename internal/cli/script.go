package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/focusroom/internal/content"
)

// scriptStep is one spoken/shown beat of the room's teach phase.
type scriptStep struct {
	ID   string
	Text string
}

// scriptSteps derives the teach-phase script from resolved content: the
// title, then the lesson walk-through (or the item's instructions for
// non-lesson kinds). Step ids are stable per item so synthesized audio can
// be cached across retries within a session.
func scriptSteps(item content.Item, r *content.Resolved) []scriptStep {
	var steps []scriptStep
	add := func(suffix, text string) {
		text = strings.TrimSpace(text)
		if text != "" {
			steps = append(steps, scriptStep{ID: item.ID + ":" + suffix, Text: text})
		}
	}

	add("title", r.Title)
	if r.Lesson != nil {
		add("summary", r.Lesson.Summary)
		for i, section := range r.Lesson.Sections {
			add(fmt.Sprintf("section-%d", i), section.BodyMD)
		}
	} else {
		add("instructions", r.InstructionsMD)
	}
	return steps
}
