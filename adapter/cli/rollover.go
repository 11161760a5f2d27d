package cli

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Carry yesterday's unfinished tasks into today",
	Long: `Close out the previous day and carry its unfinished tasks forward.

Up to six incomplete tasks keep their order in the new day's queue; any
overflow moves to the backlog. Closing a day also updates the learned
statistics and streaks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		target, err := resolveDate()
		if err != nil {
			return err
		}
		source := target.AddDate(0, 0, -1)

		result, err := app.RolloverDayHandler.Handle(cmd.Context(), commands.RolloverDayCommand{
			SourceDate: source,
			TargetDate: target,
		})
		if err != nil {
			return fmt.Errorf("rollover: %w", err)
		}

		fmt.Printf("%s -> %s\n", source.Format("Jan 2"), target.Format("Jan 2"))
		fmt.Println(result.Summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolloverCmd)
}
