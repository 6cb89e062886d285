// Package render routes resolved content to the terminal renderer for its
// kind. The dispatcher is a pure mapping and holds no state; a malformed or
// unknown item degrades to a visible placeholder so one bad item never
// breaks the rest of the day's list.
package render

import (
	"fmt"

	"github.com/alexanderramin/focusroom/internal/content"
)

// Renderer produces the terminal view for one kind of resolved content.
type Renderer interface {
	Render(r *content.Resolved) string
}

// Dispatcher maps kinds to renderers.
type Dispatcher struct {
	renderers map[content.Kind]Renderer
}

// NewDispatcher creates a dispatcher covering every canonical kind.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		renderers: map[content.Kind]Renderer{
			content.KindLesson:      lessonRenderer{},
			content.KindTranslation: translationRenderer{},
			content.KindQuiz:        quizRenderer{},
			content.KindCards:       cardsRenderer{},
			content.KindRoleplay:    roleplayRenderer{},
			content.KindWriting:     writingRenderer{},
			content.KindChecklist:   checklistRenderer{},
		},
	}
}

// Render draws r with the renderer for its kind. Unknown kinds, and content
// whose payload does not match its declared kind, render as a placeholder
// rather than panicking.
func (d *Dispatcher) Render(r *content.Resolved) string {
	if r == nil {
		return placeholder("empty content")
	}
	renderer, ok := d.renderers[r.Kind]
	if !ok {
		return placeholder(fmt.Sprintf("unknown type %q", r.Kind))
	}
	if r.Payload() == nil {
		return placeholder(fmt.Sprintf("malformed %q content", r.Kind))
	}
	return renderer.Render(r)
}
