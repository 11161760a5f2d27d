// Package queries contains the read-side handlers for insights and
// analytics.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/google/uuid"
)

// GetRecentInsightsQuery requests the top unacknowledged insights.
type GetRecentInsightsQuery struct {
	Limit int
}

// InsightView is the read model for an insight.
type InsightView struct {
	ID          uuid.UUID
	Text        string
	Type        string
	Confidence  float64
	Actionable  bool
	GeneratedAt time.Time
}

// GetRecentInsightsHandler handles the GetRecentInsightsQuery.
type GetRecentInsightsHandler struct {
	statsRepo domain.Repository
}

// NewGetRecentInsightsHandler creates a new GetRecentInsightsHandler.
func NewGetRecentInsightsHandler(statsRepo domain.Repository) *GetRecentInsightsHandler {
	return &GetRecentInsightsHandler{statsRepo: statsRepo}
}

// Handle executes the GetRecentInsightsQuery, returning unacknowledged
// insights ordered by confidence descending.
func (h *GetRecentInsightsHandler) Handle(ctx context.Context, q GetRecentInsightsQuery) ([]InsightView, error) {
	stats, err := h.statsRepo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		return []InsightView{}, nil
	}

	recent := stats.RecentInsights(q.Limit)
	views := make([]InsightView, 0, len(recent))
	for _, ins := range recent {
		views = append(views, InsightView{
			ID:          ins.ID,
			Text:        ins.Text,
			Type:        string(ins.Type),
			Confidence:  ins.Confidence,
			Actionable:  ins.Actionable,
			GeneratedAt: ins.GeneratedAt,
		})
	}
	return views, nil
}
