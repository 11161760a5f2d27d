// Package services holds the insight engine: a stateless analysis service
// that folds queue activity into learned statistics and derives
// confidence-scored insights from them.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/category"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
)

// Thresholds for the insight generators.
const (
	patternRateThreshold     = 0.8
	lowAccuracyThreshold     = 0.6
	highAccuracyThreshold    = 0.85
	strongStreakDays         = 7
	buildingStreakDays       = 3
	struggleCountThreshold   = 3
	workflowStreakGap        = 2
	morningBoundary          = 12 * time.Hour
	energyInsightConfidence  = 0.8
	struggleConfidence       = 0.8
	strongStreakConfidence   = 0.9
	buildingStreakConfidence = 0.75
	workflowConfidence       = 0.75
)

// Notifier delivers high-confidence actionable insights to the user.
type Notifier interface {
	Notify(ctx context.Context, insight *domain.Insight) error
}

// Engine analyzes days against accumulated statistics. It never persists;
// callers own loading and saving the statistics record.
type Engine struct {
	notifier        Notifier // optional
	notifyThreshold float64
	clock           clock.Clock
	logger          *slog.Logger
}

// NewEngine creates an insight engine. notifier may be nil to disable
// notification delivery.
func NewEngine(notifier Notifier, notifyThreshold float64, clk clock.Clock, logger *slog.Logger) *Engine {
	return &Engine{
		notifier:        notifier,
		notifyThreshold: notifyThreshold,
		clock:           clk,
		logger:          logger,
	}
}

// AnalyzeCompletionPatterns folds a day's queue into the per-category
// completion rates and struggle counts. Each completed task contributes
// one completion normalized over the day's total queue size; each
// incomplete task sitting at rank 4 or below counts as a struggle.
func (e *Engine) AnalyzeCompletionPatterns(stats *domain.Statistics, d *day.Day) {
	now := e.clock.Now()
	total := len(d.Tasks())

	for _, t := range d.CompletedTasks() {
		stats.RecordCompletion(category.Classify(t.Description()), total, now)
	}
	for _, t := range d.StrugglingTasks() {
		stats.RecordStruggle(category.Classify(t.Description()), now)
	}
}

// RecordCompletion learns from one finished task: its category's running
// duration average and the time of day it was completed. Tasks without a
// measured duration still contribute their completion time.
func (e *Engine) RecordCompletion(stats *domain.Statistics, t *day.Task) {
	now := e.clock.Now()
	cat := category.Classify(t.Description())

	if t.ActualDuration() > 0 {
		stats.LearnDuration(cat, t.ActualDuration(), t.EstimatedDuration(), now)
	}
	if t.CompletedAt() != nil {
		stats.RecordOptimalTime(cat, *t.CompletedAt(), now)
	}
}

// UpdateEstimationAccuracy scores a finished task's estimate against its
// measured duration. Tasks that were never started have no measured
// duration and are skipped.
func (e *Engine) UpdateEstimationAccuracy(stats *domain.Statistics, t *day.Task) {
	if t.ActualDuration() <= 0 {
		return
	}
	stats.UpdateEstimationAccuracy(t.EstimatedDuration(), t.ActualDuration(), e.clock.Now())
}

// UpdateEnergyAccuracy scores one predicted-vs-reported energy pair.
func (e *Engine) UpdateEnergyAccuracy(stats *domain.Statistics, predicted, actual domain.EnergyLevel) error {
	if !predicted.IsValid() || !actual.IsValid() {
		return fmt.Errorf("invalid energy level: predicted=%q actual=%q", predicted, actual)
	}
	stats.UpdateEnergyAccuracy(predicted, actual, e.clock.Now())
	return nil
}

// UpdateStreaks advances the three streaks from one day's activity.
// yesterdayActive reports whether the previous calendar day had any
// qualifying activity; without it every active dimension restarts at 1.
func (e *Engine) UpdateStreaks(stats *domain.Statistics, d *day.Day, yesterdayActive bool) {
	stats.UpdateStreaks(
		d.HasPlanningActivity(),
		d.HasExecutionActivity(),
		d.HasCompletionActivity(),
		yesterdayActive,
		e.clock.Now(),
	)
}

// PredictDuration estimates how long a described task will take. A learned
// category average is scaled by the user's estimation accuracy; otherwise
// categories whose names overlap the description are averaged; with no
// history at all the default estimate applies.
func (e *Engine) PredictDuration(stats *domain.Statistics, description string) time.Duration {
	cat := category.Classify(description)

	if learned, ok := stats.AverageDurations[cat]; ok {
		return time.Duration(float64(learned) * stats.EstimationAccuracy)
	}

	lowered := strings.ToLower(description)
	var sum time.Duration
	matches := 0
	for key, d := range stats.AverageDurations {
		if strings.Contains(lowered, strings.ToLower(key)) || strings.Contains(strings.ToLower(key), cat) {
			sum += d
			matches++
		}
	}
	if matches > 0 {
		return sum / time.Duration(matches)
	}

	return day.DefaultEstimate
}

// SuggestOptimalTime returns when on the given date a described task has
// historically been completed, or nil when nothing has been learned for
// its category.
func (e *Engine) SuggestOptimalTime(stats *domain.Statistics, description string, date time.Time) *time.Time {
	offset, ok := stats.OptimalTimes[category.Classify(description)]
	if !ok {
		return nil
	}
	suggested := clock.StartOfDay(date).Add(offset)
	return &suggested
}

// EnergyAllocation recommends which ranks to work on at a given energy
// level.
type EnergyAllocation struct {
	RecommendedTasks []*day.Task
	Suggestion       string
}

// SuggestEnergyAllocation maps current energy onto the ranked queue: high
// energy goes to the top three priorities, medium to the middle ranks,
// low to the tail.
func (e *Engine) SuggestEnergyAllocation(level domain.EnergyLevel, d *day.Day) (EnergyAllocation, error) {
	if !level.IsValid() {
		return EnergyAllocation{}, fmt.Errorf("invalid energy level %q", level)
	}

	active := d.ActiveTasks()
	switch level {
	case domain.EnergyHigh:
		return EnergyAllocation{
			RecommendedTasks: sliceTasks(active, 0, 3),
			Suggestion:       "Perfect time for your top 3 priorities! Tackle the most important work now.",
		}, nil
	case domain.EnergyMedium:
		return EnergyAllocation{
			RecommendedTasks: sliceTasks(active, 1, 3),
			Suggestion:       "Good energy for tasks #2-4. Save the biggest challenge for high energy time.",
		}, nil
	default:
		return EnergyAllocation{
			RecommendedTasks: sliceTasks(active, 3, len(active)),
			Suggestion:       "Low energy time - perfect for lighter tasks #4-6 or planning tomorrow.",
		}, nil
	}
}

func sliceTasks(tasks []*day.Task, from, count int) []*day.Task {
	if from >= len(tasks) {
		return []*day.Task{}
	}
	end := from + count
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[from:end]
}

// GenerateInsights runs every generator against the current statistics,
// records the non-duplicate results and returns them. High-confidence
// actionable insights are pushed through the notifier when one is
// configured; delivery failures are logged, never fatal.
func (e *Engine) GenerateInsights(ctx context.Context, stats *domain.Statistics) []*domain.Insight {
	now := e.clock.Now()

	candidates := make([]*domain.Insight, 0, 6)
	for _, generate := range []func(*domain.Statistics, time.Time) *domain.Insight{
		generatePatternInsight,
		generateTimeEstimationInsight,
		generateEnergyInsight,
		generateStreakInsight,
		generateStruggleInsight,
		generateWorkflowInsight,
	} {
		if ins := generate(stats, now); ins != nil {
			candidates = append(candidates, ins)
		}
	}

	added := make([]*domain.Insight, 0, len(candidates))
	for _, ins := range candidates {
		if !stats.AddInsight(ins, now) {
			continue
		}
		added = append(added, ins)
		e.maybeNotify(ctx, ins)
	}

	e.logger.Debug("insight generation complete",
		slog.Int("candidates", len(candidates)),
		slog.Int("added", len(added)),
	)

	return added
}

func (e *Engine) maybeNotify(ctx context.Context, ins *domain.Insight) {
	if e.notifier == nil || !ins.Actionable || ins.Confidence < e.notifyThreshold {
		return
	}
	if err := e.notifier.Notify(ctx, ins); err != nil {
		e.logger.Warn("insight notification failed",
			slog.String("insight_id", ins.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func generatePatternInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	cat, rate := stats.TopCategory()
	if cat == "" || rate <= patternRateThreshold {
		return nil
	}
	return domain.NewInsight(
		fmt.Sprintf("You consistently excel at %s tasks! Consider scheduling more during your peak hours.", cat),
		domain.InsightTypePattern,
		rate,
		now,
	)
}

func generateTimeEstimationInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	switch {
	case stats.EstimationAccuracy < lowAccuracyThreshold:
		return domain.NewInsight(
			"Your time estimates tend to be off. Try breaking larger tasks into smaller, more predictable chunks.",
			domain.InsightTypeTimeEstimation,
			1.0-stats.EstimationAccuracy,
			now,
		)
	case stats.EstimationAccuracy > highAccuracyThreshold:
		return domain.NewInsight(
			"Excellent time estimation skills! You're great at predicting how long tasks will take.",
			domain.InsightTypeTimeEstimation,
			stats.EstimationAccuracy,
			now,
		)
	default:
		return nil
	}
}

func generateEnergyInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	morning, afternoon := 0, 0
	for _, offset := range stats.OptimalTimes {
		if offset < morningBoundary {
			morning++
		} else {
			afternoon++
		}
	}
	if morning <= afternoon {
		return nil
	}
	return domain.NewInsight(
		"You tend to be most productive in the morning. Consider scheduling your most important tasks before noon.",
		domain.InsightTypeEnergy,
		energyInsightConfidence,
		now,
	)
}

func generateStreakInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	maxStreak := stats.MaxStreak()
	switch {
	case maxStreak >= strongStreakDays:
		return domain.NewInsight(
			fmt.Sprintf("Amazing! You're on a %d-day streak. Consistency is building your success momentum!", maxStreak),
			domain.InsightTypeStreak,
			strongStreakConfidence,
			now,
		)
	case maxStreak >= buildingStreakDays:
		return domain.NewInsight(
			fmt.Sprintf("Great work! %d days in a row. Keep the momentum going!", maxStreak),
			domain.InsightTypeStreak,
			buildingStreakConfidence,
			now,
		)
	default:
		return nil
	}
}

func generateStruggleInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	cat, count := stats.WorstStruggle()
	if cat == "" || count < struggleCountThreshold {
		return nil
	}
	return domain.NewInsight(
		fmt.Sprintf("%s tasks often get pushed down your priority list. Consider breaking them into smaller steps or scheduling them at your peak energy time.", capitalize(cat)),
		domain.InsightTypeStruggle,
		struggleConfidence,
		now,
	)
}

func generateWorkflowInsight(stats *domain.Statistics, now time.Time) *domain.Insight {
	if stats.PlanningStreak <= stats.ExecutionStreak+workflowStreakGap {
		return nil
	}
	return domain.NewInsight(
		"You're great at planning ahead but could improve on execution. Try preparing your workspace the night before.",
		domain.InsightTypeWorkflow,
		workflowConfidence,
		now,
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
