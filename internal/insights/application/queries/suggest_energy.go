package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
)

// SuggestEnergyAllocationQuery asks which tasks fit the current energy.
type SuggestEnergyAllocationQuery struct {
	Date  time.Time
	Level domain.EnergyLevel
}

// RecommendedTask is one queue entry recommended for the energy level.
type RecommendedTask struct {
	Rank        int
	Description string
}

// EnergyAllocationView is the read model for an energy suggestion.
type EnergyAllocationView struct {
	Suggestion       string
	RecommendedTasks []RecommendedTask
}

// SuggestEnergyAllocationHandler handles the SuggestEnergyAllocationQuery.
type SuggestEnergyAllocationHandler struct {
	dayRepo day.Repository
	engine  *services.Engine
}

// NewSuggestEnergyAllocationHandler creates a new SuggestEnergyAllocationHandler.
func NewSuggestEnergyAllocationHandler(dayRepo day.Repository, engine *services.Engine) *SuggestEnergyAllocationHandler {
	return &SuggestEnergyAllocationHandler{dayRepo: dayRepo, engine: engine}
}

// Handle executes the SuggestEnergyAllocationQuery.
func (h *SuggestEnergyAllocationHandler) Handle(ctx context.Context, q SuggestEnergyAllocationQuery) (*EnergyAllocationView, error) {
	d, err := h.dayRepo.FindByDate(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		d = day.NewDay(q.Date)
	}

	allocation, err := h.engine.SuggestEnergyAllocation(q.Level, d)
	if err != nil {
		return nil, err
	}

	view := &EnergyAllocationView{
		Suggestion:       allocation.Suggestion,
		RecommendedTasks: make([]RecommendedTask, 0, len(allocation.RecommendedTasks)),
	}
	for _, t := range allocation.RecommendedTasks {
		view.RecommendedTasks = append(view.RecommendedTasks, RecommendedTask{
			Rank:        t.Rank(),
			Description: t.Description(),
		})
	}
	return view, nil
}
