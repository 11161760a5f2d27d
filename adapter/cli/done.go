package cli

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <position>",
	Short: "Complete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}
		taskID, err := app.taskByRank(cmd.Context(), date, args[0])
		if err != nil {
			return err
		}

		result, err := app.CompleteTaskHandler.Handle(cmd.Context(), commands.CompleteTaskCommand{
			Date:   date,
			TaskID: taskID,
		})
		if err != nil {
			return fmt.Errorf("complete task: %w", err)
		}

		fmt.Printf("Done: %s\n", result.Description)
		if result.ActualDuration > 0 {
			fmt.Printf("  took %s\n", formatDuration(result.ActualDuration))
		}
		fmt.Printf("  %.0f%% of today's queue complete\n", result.CompletionRate*100)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
