// Package queries contains the read-side handlers for the daily queue.
// Queries return flat view DTOs; domain objects never cross this boundary.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// GetDayQuery requests the queue state for one date.
type GetDayQuery struct {
	Date time.Time
}

// TaskView is the read model for a single task.
type TaskView struct {
	ID                uuid.UUID
	Rank              int
	Description       string
	Reasoning         string
	Completed         bool
	Started           bool
	EstimatedDuration time.Duration
	ActualDuration    time.Duration
	RolledOver        bool
}

// DayView is the read model for a day's queue. A date that was never
// planned yields an empty view, not an error.
type DayView struct {
	Date           time.Time
	ActiveTasks    []TaskView
	CompletedTasks []TaskView
	CompletionRate float64
	BacklogCount   int
}

// GetDayHandler handles the GetDayQuery.
type GetDayHandler struct {
	dayRepo day.Repository
}

// NewGetDayHandler creates a new GetDayHandler.
func NewGetDayHandler(dayRepo day.Repository) *GetDayHandler {
	return &GetDayHandler{dayRepo: dayRepo}
}

// Handle executes the GetDayQuery.
func (h *GetDayHandler) Handle(ctx context.Context, q GetDayQuery) (*DayView, error) {
	d, err := h.dayRepo.FindByDate(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return &DayView{
			Date:           clock.StartOfDay(q.Date),
			ActiveTasks:    []TaskView{},
			CompletedTasks: []TaskView{},
		}, nil
	}

	view := &DayView{
		Date:           d.Date(),
		ActiveTasks:    make([]TaskView, 0, day.MaxActiveTasks),
		CompletedTasks: make([]TaskView, 0),
		CompletionRate: d.CompletionRate(),
		BacklogCount:   len(d.Backlog()),
	}
	for _, t := range d.ActiveTasks() {
		view.ActiveTasks = append(view.ActiveTasks, toTaskView(t))
	}
	for _, t := range d.CompletedTasks() {
		view.CompletedTasks = append(view.CompletedTasks, toTaskView(t))
	}
	return view, nil
}

func toTaskView(t *day.Task) TaskView {
	return TaskView{
		ID:                t.ID(),
		Rank:              t.Rank(),
		Description:       t.Description(),
		Reasoning:         t.Reasoning(),
		Completed:         t.IsCompleted(),
		Started:           t.StartedAt() != nil,
		EstimatedDuration: t.EstimatedDuration(),
		ActualDuration:    t.ActualDuration(),
		RolledOver:        t.RolledFromDayID() != nil,
	}
}
