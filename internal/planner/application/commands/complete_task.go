package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	insightsDomain "github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// CompleteTaskCommand contains the data needed to complete a task.
type CompleteTaskCommand struct {
	Date   time.Time
	TaskID uuid.UUID
}

// CompleteTaskResult reports what the completion taught the engine.
type CompleteTaskResult struct {
	Description    string
	ActualDuration time.Duration
	CompletionRate float64
}

// CompleteTaskHandler handles the CompleteTaskCommand. Completing a task
// is the main learning trigger: the engine records the observed duration,
// the time of day, and the estimate quality.
type CompleteTaskHandler struct {
	dayRepo   day.Repository
	statsRepo insightsDomain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(dayRepo day.Repository, statsRepo insightsDomain.Repository, engine *services.Engine, clk clock.Clock) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		dayRepo:   dayRepo,
		statsRepo: statsRepo,
		engine:    engine,
		clock:     clk,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) (*CompleteTaskResult, error) {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return nil, ErrDayNotFound
	}

	task, err := d.CompleteTask(cmd.TaskID, h.clock.Now())
	if err != nil {
		return nil, err
	}

	stats, err := loadOrCreateStats(ctx, h.statsRepo, h.clock.Now())
	if err != nil {
		return nil, err
	}
	h.engine.RecordCompletion(stats, task)
	h.engine.UpdateEstimationAccuracy(stats, task)

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}
	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}

	return &CompleteTaskResult{
		Description:    task.Description(),
		ActualDuration: task.ActualDuration(),
		CompletionRate: d.CompletionRate(),
	}, nil
}

func loadOrCreateStats(ctx context.Context, repo insightsDomain.Repository, now time.Time) (*insightsDomain.Statistics, error) {
	stats, err := repo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = insightsDomain.NewStatistics(now)
	}
	return stats, nil
}
