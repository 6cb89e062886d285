package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/progress"
	"github.com/alexanderramin/focusroom/internal/render"
)

// resolveDayIndex parses an optional day argument, defaulting to the plan's
// current day.
func resolveDayIndex(plan *planner.Plan, args []string) (int, error) {
	if len(args) == 0 {
		return plan.Meta.CurrentDayIndex, nil
	}
	dayIndex, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid day index %q", args[0])
	}
	return dayIndex, nil
}

// activePlanAndDay loads the active plan and one of its days. Locked days
// are rejected here, before any content resolution can happen for them.
func activePlanAndDay(ctx context.Context, app *App, args []string) (*planner.Plan, *planner.Day, error) {
	plan, err := app.Plans.GetActivePlan(ctx)
	if err != nil {
		return nil, nil, err
	}
	dayIndex, err := resolveDayIndex(plan, args)
	if err != nil {
		return nil, nil, err
	}
	if plan.Meta.Status(dayIndex) == progress.DayLocked {
		return nil, nil, fmt.Errorf("%w: day %d unlocks after day %d",
			progress.ErrDayLocked, dayIndex, plan.Meta.CurrentDayIndex)
	}
	day, err := app.Plans.GetDay(ctx, plan.ID, dayIndex)
	if err != nil {
		return nil, nil, err
	}
	return plan, day, nil
}

func newDayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Inspect and complete plan days",
	}
	cmd.AddCommand(
		newDayShowCmd(app),
		newDayCompleteCmd(app),
	)
	return cmd
}

func newDayShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [day]",
		Short: "Show one day's items (defaults to the current day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, day, err := activePlanAndDay(cmd.Context(), app, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Header(day.Title))
			fmt.Fprintf(out, "%s %s\n\n", render.DayStatusPill(plan.Meta.Status(day.DayIndex)), render.Dim(fmt.Sprintf("day %d of %d", day.DayIndex, plan.Meta.DurationDays)))
			if day.Intro != "" {
				fmt.Fprintln(out, day.Intro)
				fmt.Fprintln(out)
			}
			for i, item := range day.Items {
				fmt.Fprintf(out, "  %d. %s %s\n", i+1, render.Bold(item.Label), render.Dim("("+string(item.Kind)+")"))
			}
			return nil
		},
	}
}

func newDayCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete [day]",
		Short: "Mark a day as done and advance the plan",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.GetActivePlan(cmd.Context())
			if err != nil {
				return err
			}
			dayIndex, err := resolveDayIndex(plan, args)
			if err != nil {
				return err
			}

			updated, err := app.Plans.CompleteDay(cmd.Context(), plan.ID, dayIndex)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Good(fmt.Sprintf("Day %d done.", dayIndex)))
			fmt.Fprintf(out, "%s %d  %s %d/%d\n",
				render.Dim("streak:"), updated.Meta.Streak,
				render.Dim("next day:"), updated.Meta.CurrentDayIndex, updated.Meta.DurationDays)
			return nil
		},
	}
}
