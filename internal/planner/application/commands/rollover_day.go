package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	insightsDomain "github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
)

// RolloverDayCommand carries every incomplete task of the source date
// into the target date.
type RolloverDayCommand struct {
	SourceDate time.Time
	TargetDate time.Time
}

// RolloverDayResult contains the result of a day rollover.
type RolloverDayResult struct {
	RolledOver      int
	MovedToBacklog  int
	TotalIncomplete int
	Summary         string
}

// RolloverDayHandler handles the RolloverDayCommand. Closing out a day is
// also the analysis point: completion patterns and streaks for the source
// day are folded into the statistics here.
type RolloverDayHandler struct {
	dayRepo   day.Repository
	statsRepo insightsDomain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewRolloverDayHandler creates a new RolloverDayHandler.
func NewRolloverDayHandler(dayRepo day.Repository, statsRepo insightsDomain.Repository, engine *services.Engine, clk clock.Clock) *RolloverDayHandler {
	return &RolloverDayHandler{
		dayRepo:   dayRepo,
		statsRepo: statsRepo,
		engine:    engine,
		clock:     clk,
	}
}

// Handle executes the RolloverDayCommand.
func (h *RolloverDayHandler) Handle(ctx context.Context, cmd RolloverDayCommand) (*RolloverDayResult, error) {
	source, err := h.dayRepo.FindByDate(ctx, cmd.SourceDate)
	if err != nil {
		return nil, fmt.Errorf("load source day: %w", err)
	}
	if source == nil {
		return nil, ErrDayNotFound
	}

	target, err := loadOrCreateDay(ctx, h.dayRepo, cmd.TargetDate)
	if err != nil {
		return nil, err
	}

	result := day.Rollover(source, target, h.clock.Now())

	stats, err := loadOrCreateStats(ctx, h.statsRepo, h.clock.Now())
	if err != nil {
		return nil, err
	}
	h.engine.AnalyzeCompletionPatterns(stats, source)

	yesterdayActive, err := h.previousDayActive(ctx, source.Date())
	if err != nil {
		return nil, err
	}
	h.engine.UpdateStreaks(stats, source, yesterdayActive)

	if err := h.dayRepo.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("save target day: %w", err)
	}
	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}

	return &RolloverDayResult{
		RolledOver:      len(result.RolledOver),
		MovedToBacklog:  len(result.MovedToBacklog),
		TotalIncomplete: result.TotalIncomplete,
		Summary:         result.Summary(),
	}, nil
}

func (h *RolloverDayHandler) previousDayActive(ctx context.Context, date time.Time) (bool, error) {
	previous, err := h.dayRepo.FindByDate(ctx, date.AddDate(0, 0, -1))
	if err != nil {
		return false, fmt.Errorf("load previous day: %w", err)
	}
	return previous != nil && previous.HasAnyActivity(), nil
}
