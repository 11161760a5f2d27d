package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/google/uuid"
)

// ErrInsightNotFound is returned when acknowledging an unknown insight.
var ErrInsightNotFound = errors.New("insight not found")

// AcknowledgeInsightCommand marks one insight as seen.
type AcknowledgeInsightCommand struct {
	InsightID uuid.UUID
}

// AcknowledgeInsightHandler handles the AcknowledgeInsightCommand.
type AcknowledgeInsightHandler struct {
	statsRepo domain.Repository
}

// NewAcknowledgeInsightHandler creates a new AcknowledgeInsightHandler.
func NewAcknowledgeInsightHandler(statsRepo domain.Repository) *AcknowledgeInsightHandler {
	return &AcknowledgeInsightHandler{statsRepo: statsRepo}
}

// Handle executes the AcknowledgeInsightCommand.
func (h *AcknowledgeInsightHandler) Handle(ctx context.Context, cmd AcknowledgeInsightCommand) error {
	stats, err := h.statsRepo.Find(ctx)
	if err != nil {
		return fmt.Errorf("load statistics: %w", err)
	}
	if stats == nil {
		return ErrInsightNotFound
	}

	ins := stats.InsightByID(cmd.InsightID)
	if ins == nil {
		return ErrInsightNotFound
	}
	ins.Acknowledge()

	if err := h.statsRepo.Save(ctx, stats); err != nil {
		return fmt.Errorf("save statistics: %w", err)
	}
	return nil
}
