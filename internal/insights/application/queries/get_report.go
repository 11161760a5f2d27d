package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
)

// GetReportQuery requests the analytics report for one date.
type GetReportQuery struct {
	Date         time.Time
	InsightLimit int
}

// GetReportHandler handles the GetReportQuery.
type GetReportHandler struct {
	dayRepo   day.Repository
	statsRepo domain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewGetReportHandler creates a new GetReportHandler.
func NewGetReportHandler(dayRepo day.Repository, statsRepo domain.Repository, engine *services.Engine, clk clock.Clock) *GetReportHandler {
	return &GetReportHandler{
		dayRepo:   dayRepo,
		statsRepo: statsRepo,
		engine:    engine,
		clock:     clk,
	}
}

// Handle executes the GetReportQuery. Both a missing day and missing
// statistics are represented as empty state, never as errors.
func (h *GetReportHandler) Handle(ctx context.Context, q GetReportQuery) (*services.AnalyticsReport, error) {
	d, err := h.dayRepo.FindByDate(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		d = day.NewDay(q.Date)
	}

	stats, err := h.statsRepo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = domain.NewStatistics(h.clock.Now())
	}

	report := h.engine.Report(stats, d, q.InsightLimit)
	return &report, nil
}
