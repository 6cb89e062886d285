package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/focusroom/internal/planner"
	"github.com/alexanderramin/focusroom/internal/render"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage focus plans",
	}
	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanStatusCmd(app),
	)
	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var title, domainStr, level, lang string
	var days int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new plan (interactive unless flags are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := planner.CreatePlanRequest{
				Title:        title,
				Domain:       domainStr,
				Level:        level,
				Lang:         lang,
				DurationDays: days,
			}

			if req.Title == "" {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("--title is required in non-interactive mode")
				}
				var err error
				req, err = runPlanWizard(req)
				if err != nil {
					return err
				}
			}

			plan, err := app.Plans.CreatePlan(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), render.Good(fmt.Sprintf(
				"Created plan %q: %d days, starting at day 1.", plan.Title, plan.Meta.DurationDays)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "What the plan is about")
	cmd.Flags().StringVar(&domainStr, "domain", "", "Learning domain (language, music, ...)")
	cmd.Flags().StringVar(&level, "level", "beginner", "Starting level")
	cmd.Flags().StringVar(&lang, "lang", "en", "Content language")
	cmd.Flags().IntVar(&days, "days", 7, "Plan length in days")
	return cmd
}

// runPlanWizard collects the plan request with a huh form.
func runPlanWizard(req planner.CreatePlanRequest) (planner.CreatePlanRequest, error) {
	daysStr := strconv.Itoa(req.DurationDays)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What do you want to learn?").
				Placeholder("e.g. Spanish for travel").
				Value(&req.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Domain").
				Placeholder("language").
				Value(&req.Domain),
			huh.NewSelect[string]().
				Title("Your level").
				Options(
					huh.NewOption("Beginner", "beginner"),
					huh.NewOption("Intermediate", "intermediate"),
					huh.NewOption("Advanced", "advanced"),
				).
				Value(&req.Level),
			huh.NewSelect[string]().
				Title("How many days?").
				Options(
					huh.NewOption("7 days", "7"),
					huh.NewOption("14 days", "14"),
					huh.NewOption("30 days", "30"),
				).
				Value(&daysStr),
		),
	)
	if err := form.Run(); err != nil {
		return req, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.DurationDays, _ = strconv.Atoi(daysStr)
	return req, nil
}

func newPlanStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active plan and per-day progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := app.Plans.GetActivePlan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, render.Header(plan.Title))
			fmt.Fprintf(out, "%s %d  %s %d/%d\n",
				render.Dim("streak:"), plan.Meta.Streak,
				render.Dim("day:"), plan.Meta.CurrentDayIndex, plan.Meta.DurationDays)
			fmt.Fprintln(out)

			for dayIndex := 1; dayIndex <= plan.Meta.DurationDays; dayIndex++ {
				fmt.Fprintf(out, "  %s  day %d\n",
					render.DayStatusPill(plan.Meta.Status(dayIndex)), dayIndex)
			}
			return nil
		},
	}
}
