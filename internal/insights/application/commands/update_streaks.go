package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
)

// UpdateStreaksCommand folds one day's activity into the streak counters.
type UpdateStreaksCommand struct {
	Date time.Time
}

// UpdateStreaksResult reports the streaks after the update.
type UpdateStreaksResult struct {
	PlanningStreak   int
	ExecutionStreak  int
	CompletionStreak int
	LongestStreak    int
}

// UpdateStreaksHandler handles the UpdateStreaksCommand.
type UpdateStreaksHandler struct {
	dayRepo   day.Repository
	statsRepo domain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewUpdateStreaksHandler creates a new UpdateStreaksHandler.
func NewUpdateStreaksHandler(dayRepo day.Repository, statsRepo domain.Repository, engine *services.Engine, clk clock.Clock) *UpdateStreaksHandler {
	return &UpdateStreaksHandler{
		dayRepo:   dayRepo,
		statsRepo: statsRepo,
		engine:    engine,
		clock:     clk,
	}
}

// Handle executes the UpdateStreaksCommand. A date with no planned day
// still counts as an inactive day and resets the counters.
func (h *UpdateStreaksHandler) Handle(ctx context.Context, cmd UpdateStreaksCommand) (*UpdateStreaksResult, error) {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		d = day.NewDay(cmd.Date)
	}

	previous, err := h.dayRepo.FindByDate(ctx, cmd.Date.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("load previous day: %w", err)
	}
	yesterdayActive := previous != nil && previous.HasAnyActivity()

	stats, err := loadOrCreateStats(ctx, h.statsRepo, h.clock.Now())
	if err != nil {
		return nil, err
	}
	h.engine.UpdateStreaks(stats, d, yesterdayActive)

	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}

	return &UpdateStreaksResult{
		PlanningStreak:   stats.PlanningStreak,
		ExecutionStreak:  stats.ExecutionStreak,
		CompletionStreak: stats.CompletionStreak,
		LongestStreak:    stats.LongestStreak,
	}, nil
}
