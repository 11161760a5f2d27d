package cli

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <position>",
	Short: "Start working on a task",
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

		if err := app.StartTaskHandler.Handle(cmd.Context(), commands.StartTaskCommand{
			Date:   date,
			TaskID: taskID,
		}); err != nil {
			return fmt.Errorf("start task: %w", err)
		}

		fmt.Printf("Started #%s. The clock is running.\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
