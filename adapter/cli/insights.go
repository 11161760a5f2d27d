package cli

import (
	"fmt"
	"strings"

	insightsCommands "github.com/felixgeelhaar/daybook/internal/insights/application/commands"
	insightsQueries "github.com/felixgeelhaar/daybook/internal/insights/application/queries"
	"github.com/spf13/cobra"
)

var insightLimitFlag int

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show recent insights about your work habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		limit := insightLimitFlag
		if limit <= 0 {
			limit = app.InsightLimit
		}

		views, err := app.GetRecentInsightsHandler.Handle(cmd.Context(), insightsQueries.GetRecentInsightsQuery{
			Limit: limit,
		})
		if err != nil {
			return fmt.Errorf("list insights: %w", err)
		}

		if len(views) == 0 {
			fmt.Println("No insights yet. Complete a few tasks, then run: daybook insights generate")
			return nil
		}
		for _, v := range views {
			fmt.Printf("[%s] %s (%.0f%%)\n", v.ID.String()[:8], v.Text, v.Confidence*100)
		}
		return nil
	},
}

var insightsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Analyze accumulated statistics for new insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		result, err := app.GenerateInsightsHandler.Handle(cmd.Context(), insightsCommands.GenerateInsightsCommand{})
		if err != nil {
			return fmt.Errorf("generate insights: %w", err)
		}

		if len(result.NewInsights) == 0 {
			fmt.Println("Nothing new. Keep working; insights need data.")
			return nil
		}
		for _, ins := range result.NewInsights {
			fmt.Printf("[%s] %s (%.0f%%)\n", ins.ID.String()[:8], ins.Text, ins.Confidence*100)
		}
		return nil
	},
}

var insightsAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge an insight so it stops surfacing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		// Accept the short id prefix shown by list and generate.
		views, err := app.GetRecentInsightsHandler.Handle(cmd.Context(), insightsQueries.GetRecentInsightsQuery{})
		if err != nil {
			return fmt.Errorf("list insights: %w", err)
		}
		prefix := strings.ToLower(args[0])
		for _, v := range views {
			if strings.HasPrefix(v.ID.String(), prefix) {
				if err := app.AcknowledgeInsightHandler.Handle(cmd.Context(), insightsCommands.AcknowledgeInsightCommand{
					InsightID: v.ID,
				}); err != nil {
					return fmt.Errorf("acknowledge insight: %w", err)
				}
				fmt.Println("Acknowledged.")
				return nil
			}
		}
		return fmt.Errorf("no insight matching %q", args[0])
	},
}

var insightsStreaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Update and show the daily streaks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		result, err := app.UpdateStreaksHandler.Handle(cmd.Context(), insightsCommands.UpdateStreaksCommand{
			Date: date,
		})
		if err != nil {
			return fmt.Errorf("update streaks: %w", err)
		}

		fmt.Printf("Planning:   %d days\n", result.PlanningStreak)
		fmt.Printf("Execution:  %d days\n", result.ExecutionStreak)
		fmt.Printf("Completion: %d days\n", result.CompletionStreak)
		fmt.Printf("Longest:    %d days\n", result.LongestStreak)
		return nil
	},
}

func init() {
	insightsCmd.Flags().IntVarP(&insightLimitFlag, "limit", "n", 0, "number of insights to show")

	insightsCmd.AddCommand(insightsGenerateCmd)
	insightsCmd.AddCommand(insightsAckCmd)
	insightsCmd.AddCommand(insightsStreaksCmd)
	rootCmd.AddCommand(insightsCmd)
}
