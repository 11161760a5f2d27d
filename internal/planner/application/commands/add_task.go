// Package commands contains the write-side handlers for the daily queue.
// Each handler loads the affected day, applies one aggregate operation and
// saves the result; learning side effects go through the insight engine.
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

// AddTaskCommand contains the data needed to queue a task.
type AddTaskCommand struct {
	Date          time.Time
	Description   string
	Reasoning     string
	PreferredRank int // 0 means no preference
}

// AddTaskResult contains the result of queueing a task.
type AddTaskResult struct {
	TaskID            uuid.UUID
	Rank              int
	EstimatedDuration time.Duration
	// EvictedDescription is set when the insert pushed the lowest-ranked
	// task into the backlog.
	EvictedDescription string
}

// AddTaskHandler handles the AddTaskCommand.
type AddTaskHandler struct {
	dayRepo   day.Repository
	statsRepo insightsDomain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewAddTaskHandler creates a new AddTaskHandler.
func NewAddTaskHandler(dayRepo day.Repository, statsRepo insightsDomain.Repository, engine *services.Engine, clk clock.Clock) *AddTaskHandler {
	return &AddTaskHandler{
		dayRepo:   dayRepo,
		statsRepo: statsRepo,
		engine:    engine,
		clock:     clk,
	}
}

// Handle executes the AddTaskCommand. The task's initial estimate comes
// from the duration predictor when learning data exists.
func (h *AddTaskHandler) Handle(ctx context.Context, cmd AddTaskCommand) (*AddTaskResult, error) {
	d, err := loadOrCreateDay(ctx, h.dayRepo, cmd.Date)
	if err != nil {
		return nil, err
	}

	stats, err := h.statsRepo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = insightsDomain.NewStatistics(h.clock.Now())
	}

	now := h.clock.Now()
	task, evicted, err := d.AddTask(cmd.Description, cmd.Reasoning, cmd.PreferredRank, now)
	if err != nil {
		return nil, err
	}
	task.SetEstimatedDuration(h.engine.PredictDuration(stats, cmd.Description))

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}

	result := &AddTaskResult{
		TaskID:            task.ID(),
		Rank:              task.Rank(),
		EstimatedDuration: task.EstimatedDuration(),
	}
	if evicted != nil {
		result.EvictedDescription = evicted.Description()
	}
	return result, nil
}

func loadOrCreateDay(ctx context.Context, repo day.Repository, date time.Time) (*day.Day, error) {
	d, err := repo.FindByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		d = day.NewDay(date)
	}
	return d, nil
}
