package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// PromoteBacklogCommand contains the data needed to move a backlog item
// into the active queue.
type PromoteBacklogCommand struct {
	Date       time.Time
	BacklogID  uuid.UUID
	TargetRank int
	Reasoning  string
}

// PromoteBacklogResult contains the result of a promotion. Promoted is
// false when the target rank was out of range and nothing changed.
type PromoteBacklogResult struct {
	Promoted           bool
	TaskID             uuid.UUID
	Rank               int
	EvictedDescription string
}

// PromoteBacklogHandler handles the PromoteBacklogCommand.
type PromoteBacklogHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewPromoteBacklogHandler creates a new PromoteBacklogHandler.
func NewPromoteBacklogHandler(dayRepo day.Repository, clk clock.Clock) *PromoteBacklogHandler {
	return &PromoteBacklogHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the PromoteBacklogCommand.
func (h *PromoteBacklogHandler) Handle(ctx context.Context, cmd PromoteBacklogCommand) (*PromoteBacklogResult, error) {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return nil, ErrDayNotFound
	}

	task, evicted, err := d.PromoteBacklog(cmd.BacklogID, cmd.TargetRank, cmd.Reasoning, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if task == nil {
		return &PromoteBacklogResult{Promoted: false}, nil
	}

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}

	result := &PromoteBacklogResult{
		Promoted: true,
		TaskID:   task.ID(),
		Rank:     task.Rank(),
	}
	if evicted != nil {
		result.EvictedDescription = evicted.Description()
	}
	return result, nil
}
