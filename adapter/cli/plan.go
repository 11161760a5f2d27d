package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/application/queries"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the day's queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		view, err := app.GetDayHandler.Handle(cmd.Context(), queries.GetDayQuery{Date: date})
		if err != nil {
			return fmt.Errorf("load day: %w", err)
		}

		fmt.Printf("%s\n\n", view.Date.Format("Monday, Jan 2 2006"))

		if len(view.ActiveTasks) == 0 && len(view.CompletedTasks) == 0 {
			fmt.Println("Nothing planned yet. Add your first task with: daybook add")
			return nil
		}

		for _, t := range view.ActiveTasks {
			marker := " "
			if t.Started {
				marker = ">"
			}
			fmt.Printf("%s #%d %s", marker, t.Rank, t.Description)
			if t.RolledOver {
				fmt.Print(" (rolled over)")
			}
			fmt.Printf("  [%s]\n", formatDuration(t.EstimatedDuration))
			if t.Reasoning != "" {
				fmt.Printf("      why: %s\n", t.Reasoning)
			}
		}
		for _, t := range view.CompletedTasks {
			fmt.Printf("x    %s", t.Description)
			if t.ActualDuration > 0 {
				fmt.Printf("  (took %s)", formatDuration(t.ActualDuration))
			}
			fmt.Println()
		}

		fmt.Printf("\nCompleted %.0f%%", view.CompletionRate*100)
		if view.BacklogCount > 0 {
			fmt.Printf("  |  %d in backlog", view.BacklogCount)
		}
		fmt.Println()
		return nil
	},
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Minute).String()
}

func init() {
	rootCmd.AddCommand(planCmd)
}
