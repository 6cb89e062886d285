// Package cli wires the focusroom commands: plan management, day
// progression, content resolution, and the interactive room session.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/focusroom/internal/generation"
	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/render"
	"github.com/alexanderramin/focusroom/internal/resolve"
)

// ItemCompleter records per-item completion. Only the local plan service
// supports it; against a remote plan service the field stays nil.
type ItemCompleter interface {
	CompleteItem(ctx context.Context, itemID string) error
}

// App holds references to all services used by CLI commands.
type App struct {
	Plans    planner.Service
	Loader   *resolve.Loader
	Renderer *render.Dispatcher
	Items    ItemCompleter
	TTS      *generation.TTSClient

	// IsInteractive reports whether stdin is a terminal. Wizard and room
	// flows require it.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "focusroom" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "focusroom",
		Short: "Daily focus sessions from a multi-day learning plan",
	}

	root.AddCommand(
		newPlanCmd(app),
		newDayCmd(app),
		newItemCmd(app),
		newRoomCmd(app),
	)

	return root
}
