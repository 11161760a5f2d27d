package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/spf13/cobra"
)

var (
	addRank int
	addWhy  string
)

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task to today's queue",
	Long: `Add a task to the day's queue of six.

Without --rank the task joins at the end of the queue. When the queue
is already full, the lowest-ranked task is moved to the backlog to make
room.

Examples:
  daybook add "Write the quarterly report"
  daybook add "Reply to Sam" --rank 1
  daybook add "Review the RFC" --why "blocks the platform team"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		result, err := app.AddTaskHandler.Handle(cmd.Context(), commands.AddTaskCommand{
			Date:          date,
			Description:   strings.Join(args, " "),
			Reasoning:     addWhy,
			PreferredRank: addRank,
		})
		if err != nil {
			return fmt.Errorf("add task: %w", err)
		}

		fmt.Printf("Queued at #%d (estimated %s)\n", result.Rank, formatDuration(result.EstimatedDuration))
		if result.EvictedDescription != "" {
			fmt.Printf("Moved to backlog to make room: %s\n", result.EvictedDescription)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().IntVarP(&addRank, "rank", "r", 0, "queue position 1-6 (default: end of queue)")
	addCmd.Flags().StringVarP(&addWhy, "why", "w", "", "why this task matters today")
	rootCmd.AddCommand(addCmd)
}
