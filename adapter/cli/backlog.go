package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/daybook/internal/planner/application/commands"
	"github.com/felixgeelhaar/daybook/internal/planner/application/queries"
	"github.com/spf13/cobra"
)

var (
	backlogTag    string
	backlogSearch string
	backlogReview bool
	backlogTags   []string
)

var backlogCmd = &cobra.Command{
	Use:   "backlog",
	Short: "List and manage the backlog",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		items, err := app.ListBacklogHandler.Handle(cmd.Context(), queries.ListBacklogQuery{
			Date:        date,
			Tag:         backlogTag,
			Search:      backlogSearch,
			NeedsReview: backlogReview,
		})
		if err != nil {
			return fmt.Errorf("list backlog: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("Backlog is empty.")
			return nil
		}
		for i, item := range items {
			fmt.Printf("%2d. %s", i+1, item.Description)
			if len(item.Tags) > 0 {
				fmt.Printf("  [%s]", strings.Join(item.Tags, ", "))
			}
			fmt.Printf("  (%dd old", item.AgeInDays)
			if item.NeedsReview {
				fmt.Print(", needs review")
			}
			fmt.Println(")")
		}
		return nil
	},
}

var backlogAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Capture an idea straight into the backlog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		_, err = app.AddBacklogItemHandler.Handle(cmd.Context(), commands.AddBacklogItemCommand{
			Date:        date,
			Description: strings.Join(args, " "),
			Tags:        backlogTags,
		})
		if err != nil {
			return fmt.Errorf("add backlog item: %w", err)
		}

		fmt.Println("Captured.")
		return nil
	},
}

var backlogPromoteCmd = &cobra.Command{
	Use:   "promote <number> <position>",
	Short: "Promote a backlog item into the queue",
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
		backlogID, err := app.backlogByNumber(cmd.Context(), date, args[0])
		if err != nil {
			return err
		}
		targetRank, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		result, err := app.PromoteBacklogHandler.Handle(cmd.Context(), commands.PromoteBacklogCommand{
			Date:       date,
			BacklogID:  backlogID,
			TargetRank: targetRank,
		})
		if err != nil {
			return fmt.Errorf("promote backlog item: %w", err)
		}

		if !result.Promoted {
			fmt.Printf("Position %d is out of range (1-6); nothing changed.\n", targetRank)
			return nil
		}
		fmt.Printf("Promoted to #%d\n", result.Rank)
		if result.EvictedDescription != "" {
			fmt.Printf("Moved to backlog to make room: %s\n", result.EvictedDescription)
		}
		return nil
	},
}

var backlogReviewCmd = &cobra.Command{
	Use:   "review <number>",
	Short: "Mark a backlog item as reviewed",
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
		backlogID, err := app.backlogByNumber(cmd.Context(), date, args[0])
		if err != nil {
			return err
		}

		if err := app.ReviewBacklogHandler.Handle(cmd.Context(), commands.ReviewBacklogItemCommand{
			Date:      date,
			BacklogID: backlogID,
		}); err != nil {
			return fmt.Errorf("review backlog item: %w", err)
		}

		fmt.Println("Reviewed. It will resurface in two weeks.")
		return nil
	},
}

func init() {
	backlogCmd.Flags().StringVarP(&backlogTag, "tag", "t", "", "only items carrying this tag")
	backlogCmd.Flags().StringVarP(&backlogSearch, "search", "s", "", "filter by description")
	backlogCmd.Flags().BoolVar(&backlogReview, "needs-review", false, "only items overdue for review")
	backlogAddCmd.Flags().StringSliceVar(&backlogTags, "tags", nil, "comma-separated tags")

	backlogCmd.AddCommand(backlogAddCmd)
	backlogCmd.AddCommand(backlogPromoteCmd)
	backlogCmd.AddCommand(backlogReviewCmd)
	rootCmd.AddCommand(backlogCmd)
}
