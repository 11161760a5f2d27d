package cli

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank <position> <new-position>",
	Short: "Move a task to a different queue position",
	Args:  cobra.ExactArgs(2),
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
		newRank, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		if err := app.UpdateRankHandler.Handle(cmd.Context(), commands.UpdateRankCommand{
			Date:    date,
			TaskID:  taskID,
			NewRank: newRank,
		}); err != nil {
			return fmt.Errorf("update rank: %w", err)
		}

		fmt.Printf("Moved #%s to #%d\n", args[0], newRank)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
}
