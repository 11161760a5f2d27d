package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// ReviewBacklogItemCommand marks a backlog item as reviewed, restarting
// its review interval.
type ReviewBacklogItemCommand struct {
	Date      time.Time
	BacklogID uuid.UUID
}

// ReviewBacklogItemHandler handles the ReviewBacklogItemCommand.
type ReviewBacklogItemHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewReviewBacklogItemHandler creates a new ReviewBacklogItemHandler.
func NewReviewBacklogItemHandler(dayRepo day.Repository, clk clock.Clock) *ReviewBacklogItemHandler {
	return &ReviewBacklogItemHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the ReviewBacklogItemCommand.
func (h *ReviewBacklogItemHandler) Handle(ctx context.Context, cmd ReviewBacklogItemCommand) error {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return ErrDayNotFound
	}

	item, ok := d.BacklogItemByID(cmd.BacklogID)
	if !ok {
		return day.ErrBacklogItemNotFound
	}
	item.MarkReviewed(h.clock.Now())

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return fmt.Errorf("save day: %w", err)
	}
	return nil
}
