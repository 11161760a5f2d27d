package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// AddBacklogItemCommand captures a brain-dump item straight into the
// backlog without touching the active queue.
type AddBacklogItemCommand struct {
	Date        time.Time
	Description string
	Tags        []string
}

// AddBacklogItemResult contains the result of capturing a backlog item.
type AddBacklogItemResult struct {
	BacklogID uuid.UUID
}

// AddBacklogItemHandler handles the AddBacklogItemCommand.
type AddBacklogItemHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewAddBacklogItemHandler creates a new AddBacklogItemHandler.
func NewAddBacklogItemHandler(dayRepo day.Repository, clk clock.Clock) *AddBacklogItemHandler {
	return &AddBacklogItemHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the AddBacklogItemCommand.
func (h *AddBacklogItemHandler) Handle(ctx context.Context, cmd AddBacklogItemCommand) (*AddBacklogItemResult, error) {
	if strings.TrimSpace(cmd.Description) == "" {
		return nil, day.ErrEmptyDescription
	}

	d, err := loadOrCreateDay(ctx, h.dayRepo, cmd.Date)
	if err != nil {
		return nil, err
	}

	item := d.AddBacklogItem(cmd.Description, cmd.Tags, h.clock.Now())

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}
	return &AddBacklogItemResult{BacklogID: item.ID()}, nil
}
