package commands

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/pkg/clock"
)

// RecordEnergyAccuracyCommand scores one predicted-vs-reported energy pair.
type RecordEnergyAccuracyCommand struct {
	Predicted domain.EnergyLevel
	Actual    domain.EnergyLevel
}

// RecordEnergyAccuracyHandler handles the RecordEnergyAccuracyCommand.
type RecordEnergyAccuracyHandler struct {
	statsRepo domain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewRecordEnergyAccuracyHandler creates a new RecordEnergyAccuracyHandler.
func NewRecordEnergyAccuracyHandler(statsRepo domain.Repository, engine *services.Engine, clk clock.Clock) *RecordEnergyAccuracyHandler {
	return &RecordEnergyAccuracyHandler{statsRepo: statsRepo, engine: engine, clock: clk}
}

// Handle executes the RecordEnergyAccuracyCommand.
func (h *RecordEnergyAccuracyHandler) Handle(ctx context.Context, cmd RecordEnergyAccuracyCommand) error {
	stats, err := loadOrCreateStats(ctx, h.statsRepo, h.clock.Now())
	if err != nil {
		return err
	}

	if err := h.engine.UpdateEnergyAccuracy(stats, cmd.Predicted, cmd.Actual); err != nil {
		return err
	}

	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}
