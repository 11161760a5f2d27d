// Package notify delivers high-confidence actionable insights to the user.
package notify

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
)

// LogNotifier surfaces insights through the structured log. It stands in
// for a real notification channel in local CLI mode.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that writes to the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the insight at info level.
func (n *LogNotifier) Notify(_ context.Context, ins *domain.Insight) error {
	n.logger.Info("insight",
		"type", string(ins.Type),
		"confidence", ins.Confidence,
		"text", ins.Text,
	)
	return nil
}
