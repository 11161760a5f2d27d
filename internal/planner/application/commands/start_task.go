package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// ErrDayNotFound is returned when an operation targets a date with no
// planned day.
var ErrDayNotFound = errors.New("no day planned for that date")

// StartTaskCommand contains the data needed to start working on a task.
type StartTaskCommand struct {
	Date   time.Time
	TaskID uuid.UUID
}

// StartTaskHandler handles the StartTaskCommand.
type StartTaskHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewStartTaskHandler creates a new StartTaskHandler.
func NewStartTaskHandler(dayRepo day.Repository, clk clock.Clock) *StartTaskHandler {
	return &StartTaskHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the StartTaskCommand.
func (h *StartTaskHandler) Handle(ctx context.Context, cmd StartTaskCommand) error {
	d, err := h.dayRepo.FindByDate(ctx, cmd.Date)
	if err != nil {
		return fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return ErrDayNotFound
	}

	if err := d.StartTask(cmd.TaskID, h.clock.Now()); err != nil {
		return err
	}

	if err := h.dayRepo.Save(ctx, d); err != nil {
		return fmt.Errorf("save day: %w", err)
	}
	return nil
}
