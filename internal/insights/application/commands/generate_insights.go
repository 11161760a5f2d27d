// Package commands contains the write-side handlers for the insight
// engine's learning state.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// GenerateInsightsCommand triggers a fresh generator run over the current
// statistics.
type GenerateInsightsCommand struct{}

// GeneratedInsight is one newly stored insight.
type GeneratedInsight struct {
	ID         uuid.UUID
	Text       string
	Type       string
	Confidence float64
	Actionable bool
}

// GenerateInsightsResult contains the result of an insight generation run.
type GenerateInsightsResult struct {
	NewInsights []GeneratedInsight
}

// GenerateInsightsHandler handles the GenerateInsightsCommand.
type GenerateInsightsHandler struct {
	statsRepo domain.Repository
	engine    *services.Engine
	clock     clock.Clock
}

// NewGenerateInsightsHandler creates a new GenerateInsightsHandler.
func NewGenerateInsightsHandler(statsRepo domain.Repository, engine *services.Engine, clk clock.Clock) *GenerateInsightsHandler {
	return &GenerateInsightsHandler{statsRepo: statsRepo, engine: engine, clock: clk}
}

// Handle executes the GenerateInsightsCommand. Running it twice against
// unchanged statistics yields no new insights.
func (h *GenerateInsightsHandler) Handle(ctx context.Context, _ GenerateInsightsCommand) (*GenerateInsightsResult, error) {
	stats, err := loadOrCreateStats(ctx, h.statsRepo, h.clock.Now())
	if err != nil {
		return nil, err
	}

	added := h.engine.GenerateInsights(ctx, stats)

	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return nil, fmt.Errorf("save statistics: %w", err)
	}

	result := &GenerateInsightsResult{NewInsights: make([]GeneratedInsight, 0, len(added))}
	for _, ins := range added {
		result.NewInsights = append(result.NewInsights, GeneratedInsight{
			ID:         ins.ID,
			Text:       ins.Text,
			Type:       string(ins.Type),
			Confidence: ins.Confidence,
			Actionable: ins.Actionable,
		})
	}
	return result, nil
}

func loadOrCreateStats(ctx context.Context, repo domain.Repository, now time.Time) (*domain.Statistics, error) {
	stats, err := repo.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		stats = domain.NewStatistics(now)
	}
	return stats, nil
}
