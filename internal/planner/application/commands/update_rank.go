package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/google/uuid"
)

// UpdateRankCommand contains the data needed to reprioritize a task.
type UpdateRankCommand struct {
	Date    time.Time
	TaskID  uuid.UUID
	NewRank int
}

// UpdateRankHandler handles the UpdateRankCommand.
type UpdateRankHandler struct {
	dayRepo day.Repository
}

// NewUpdateRankHandler creates a new UpdateRankHandler.
func NewUpdateRankHandler(dayRepo day.Repository) *UpdateRankHandler {
	return &UpdateRankHandler{dayRepo: dayRepo}
}

// Handle executes the UpdateRankCommand. Out-of-range ranks and unknown
// tasks leave the queue unchanged, mirroring the aggregate's clamping
// behavior.
func (h *UpdateRankHandler) Handle(ctx context.Context, cmd UpdateRankCommand) error {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return ErrDayNotFound
	}

	d.UpdateRank(cmd.TaskID, cmd.NewRank)

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return fmt.Errorf("save day: %w", err)
	}
	return nil
}
