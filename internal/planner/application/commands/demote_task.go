package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// DemoteTaskCommand contains the data needed to push an active task back
// to the backlog.
type DemoteTaskCommand struct {
	Date   time.Time
	TaskID uuid.UUID
}

// DemoteTaskResult contains the result of demoting a task.
type DemoteTaskResult struct {
	BacklogID   uuid.UUID
	Description string
}

// DemoteTaskHandler handles the DemoteTaskCommand.
type DemoteTaskHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewDemoteTaskHandler creates a new DemoteTaskHandler.
func NewDemoteTaskHandler(dayRepo day.Repository, clk clock.Clock) *DemoteTaskHandler {
	return &DemoteTaskHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the DemoteTaskCommand.
func (h *DemoteTaskHandler) Handle(ctx context.Context, cmd DemoteTaskCommand) (*DemoteTaskResult, error) {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return nil, ErrDayNotFound
	}

	item, err := d.Demote(cmd.TaskID, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}

	return &DemoteTaskResult{
		BacklogID:   item.ID(),
		Description: item.Description(),
	}, nil
}
