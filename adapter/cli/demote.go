package cli

import (
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var demoteCmd = &cobra.Command{
	Use:   "demote <position>",
	Short: "Move a task from the queue to the backlog",
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

		result, err := app.DemoteTaskHandler.Handle(cmd.Context(), commands.DemoteTaskCommand{
			Date:   date,
			TaskID: taskID,
		})
		if err != nil {
			return fmt.Errorf("demote task: %w", err)
		}

		fmt.Printf("Moved to backlog: %s\n", result.Description)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoteCmd)
}
