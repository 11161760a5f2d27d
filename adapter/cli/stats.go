package cli

import (
	"fmt"

	insightsQueries "github.com/felixgeelhaar/daybook/internal/insights/application/queries"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the analytics report",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		date, err := resolveDate()
		if err != nil {
			return err
		}

		report, err := app.GetReportHandler.Handle(cmd.Context(), insightsQueries.GetReportQuery{
			Date:         date,
			InsightLimit: app.InsightLimit,
		})
		if err != nil {
			return fmt.Errorf("build report: %w", err)
		}

		fmt.Println(report.Summary())

		if len(report.TopCategories) > 0 {
			fmt.Println("\nStrongest categories:")
			for _, c := range report.TopCategories {
				fmt.Printf("  %s: %d%%\n", c.Category, int(c.Rate*100))
			}
		}
		if report.StrugglingTaskCount > 0 {
			fmt.Printf("\n%d task(s) lingering at the bottom of the queue.\n", report.StrugglingTaskCount)
		}
		if len(report.RecentInsights) > 0 {
			fmt.Println("\nRecent insights:")
			for _, ins := range report.RecentInsights {
				fmt.Printf("  - %s\n", ins.Text)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
