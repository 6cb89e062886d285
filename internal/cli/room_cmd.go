package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newRoomCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "room [day]",
		Short: "Run today's focus session interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("the room needs an interactive terminal")
			}

			plan, err := app.Plans.GetActivePlan(cmd.Context())
			if err != nil {
				return err
			}
			dayIndex, err := resolveDayIndex(plan, args)
			if err != nil {
				return err
			}

			day, err := app.Plans.StartDay(cmd.Context(), plan.ID, dayIndex)
			if err != nil {
				return err
			}
			if len(day.Items) == 0 {
				return fmt.Errorf("day %d has no items", dayIndex)
			}

			model := newRoomModel(cmd.Context(), app, plan, day)
			program := tea.NewProgram(model, tea.WithAltScreen())
			final, err := program.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(roomModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}
}
