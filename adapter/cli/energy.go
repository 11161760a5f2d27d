package cli

import (
	"fmt"

	insightsCommands "github.com/felixgeelhaar/daybook/internal/insights/application/commands"
	insightsQueries "github.com/felixgeelhaar/daybook/internal/insights/application/queries"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/spf13/cobra"
)

var energyCmd = &cobra.Command{
	Use:   "energy <high|medium|low>",
	Short: "Suggest which tasks fit your current energy",
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

		view, err := app.SuggestEnergyHandler.Handle(cmd.Context(), insightsQueries.SuggestEnergyAllocationQuery{
			Date:  date,
			Level: domain.EnergyLevel(args[0]),
		})
		if err != nil {
			return fmt.Errorf("suggest allocation: %w", err)
		}

		fmt.Println(view.Suggestion)
		for _, t := range view.RecommendedTasks {
			fmt.Printf("  #%d %s\n", t.Rank, t.Description)
		}
		return nil
	},
}

var energyRecordCmd = &cobra.Command{
	Use:   "record <predicted> <actual>",
	Short: "Record how a predicted energy level compared to reality",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}

		if err := app.RecordEnergyHandler.Handle(cmd.Context(), insightsCommands.RecordEnergyAccuracyCommand{
			Predicted: domain.EnergyLevel(args[0]),
			Actual:    domain.EnergyLevel(args[1]),
		}); err != nil {
			return fmt.Errorf("record energy: %w", err)
		}

		fmt.Println("Recorded.")
		return nil
	},
}

func init() {
	energyCmd.AddCommand(energyRecordCmd)
	rootCmd.AddCommand(energyCmd)
}
