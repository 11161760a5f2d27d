package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC)

type recordingNotifier struct {
	delivered []*domain.Insight
	err       error
}

func (n *recordingNotifier) Notify(_ context.Context, ins *domain.Insight) error {
	if n.err != nil {
		return n.err
	}
	n.delivered = append(n.delivered, ins)
	return nil
}

func newEngine(notifier services.Notifier) *services.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewEngine(notifier, 0.8, clock.NewFixed(testNow), logger)
}

func completedTask(t *testing.T, d *day.Day, description string, worked time.Duration) *day.Task {
	t.Helper()
	tsk, _, err := d.AddTask(description, "", 0, testNow)
	require.NoError(t, err)
	require.NoError(t, d.StartTask(tsk.ID(), testNow))
	_, err = d.CompleteTask(tsk.ID(), testNow.Add(worked))
	require.NoError(t, err)
	return tsk
}

func TestAnalyzeCompletionPatterns(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)

	d := day.NewDay(testNow)
	completedTask(t, d, "Write the status report", 30*time.Minute)
	for _, desc := range []string{"Reply to emails", "Plan the offsite", "Study the RFC", "Review the budget"} {
		_, _, err := d.AddTask(desc, "", 0, testNow)
		require.NoError(t, err)
	}

	e.AnalyzeCompletionPatterns(stats, d)

	// one completion out of a five-task queue
	assert.InDelta(t, 0.2, stats.CompletionRates["writing"], 1e-9)
	// only the incomplete active at rank 4 counts as a struggle
	assert.Equal(t, 1, stats.StruggleCounts["review"])
	assert.Empty(t, stats.StruggleCounts["communication"])
	assert.Empty(t, stats.StruggleCounts["learning"])
}

func TestRecordCompletion_LearnsDurationAndTiming(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	d := day.NewDay(testNow)
	tsk := completedTask(t, d, "Write the weekly report", 30*time.Minute)

	e.RecordCompletion(stats, tsk)

	// first observation blends the measured 30m against the 1h default
	want := time.Duration(float64(time.Hour)*0.7 + float64(30*time.Minute)*0.3)
	assert.Equal(t, want, stats.AverageDurations["writing"])
	assert.Equal(t, 11*time.Hour, stats.OptimalTimes["writing"], "completed at 11:00 UTC")
}

func TestUpdateEstimationAccuracy_Scenario(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	d := day.NewDay(testNow)
	// estimated 3600s, worked 1800s
	tsk := completedTask(t, d, "Write the proposal", 30*time.Minute)

	e.UpdateEstimationAccuracy(stats, tsk)

	assert.InDelta(t, 0.7*0.8+0.5*0.2, stats.EstimationAccuracy, 1e-9)
}

func TestUpdateEstimationAccuracy_SkipsUnstartedTasks(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	d := day.NewDay(testNow)
	tsk, _, err := d.AddTask("Write the proposal", "", 0, testNow)
	require.NoError(t, err)
	_, err = d.CompleteTask(tsk.ID(), testNow) // never started, no duration
	require.NoError(t, err)

	e.UpdateEstimationAccuracy(stats, tsk)

	assert.InDelta(t, 0.7, stats.EstimationAccuracy, 1e-9)
}

func TestUpdateEnergyAccuracy_RejectsUnknownLevels(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)

	require.NoError(t, e.UpdateEnergyAccuracy(stats, domain.EnergyHigh, domain.EnergyMedium))
	assert.Error(t, e.UpdateEnergyAccuracy(stats, "caffeinated", domain.EnergyLow))
}

func TestUpdateStreaks_InactiveDayResetsAll(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.PlanningStreak = 6
	stats.ExecutionStreak = 4
	stats.CompletionStreak = 2
	stats.LongestStreak = 6

	e.UpdateStreaks(stats, day.NewDay(testNow), true)

	assert.Zero(t, stats.PlanningStreak)
	assert.Zero(t, stats.ExecutionStreak)
	assert.Zero(t, stats.CompletionStreak)
	assert.Equal(t, 6, stats.LongestStreak)
}

func TestUpdateStreaks_ActiveDayExtends(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.PlanningStreak = 3

	d := day.NewDay(testNow)
	_, _, err := d.AddTask("plan tomorrow", "", 0, testNow)
	require.NoError(t, err)

	e.UpdateStreaks(stats, d, true)

	assert.Equal(t, 4, stats.PlanningStreak)
	assert.Zero(t, stats.ExecutionStreak, "nothing started or completed")
	assert.Equal(t, 4, stats.LongestStreak)
}

func TestPredictDuration_ScalesLearnedByAccuracy(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.AverageDurations["writing"] = time.Hour
	stats.EstimationAccuracy = 0.5

	got := e.PredictDuration(stats, "Write the postmortem")

	assert.Equal(t, 30*time.Minute, got)
}

func TestPredictDuration_FallsBackToSimilarCategories(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.AverageDurations["communication"] = 40 * time.Minute

	// "general" category, but the description mentions a learned key
	got := e.PredictDuration(stats, "sort the communication backlog")

	assert.Equal(t, 40*time.Minute, got)
}

func TestPredictDuration_DefaultWithoutHistory(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)

	assert.Equal(t, day.DefaultEstimate, e.PredictDuration(stats, "water the plants"))
}

func TestSuggestOptimalTime(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)

	assert.Nil(t, e.SuggestOptimalTime(stats, "Write the report", testNow))

	stats.OptimalTimes["writing"] = 9*time.Hour + 30*time.Minute
	got := e.SuggestOptimalTime(stats, "Write the report", testNow)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), *got)
}

func TestSuggestEnergyAllocation(t *testing.T) {
	e := newEngine(nil)
	d := day.NewDay(testNow)
	for _, desc := range []string{"t1", "t2", "t3", "t4", "t5", "t6"} {
		_, _, err := d.AddTask(desc, "", 0, testNow)
		require.NoError(t, err)
	}

	high, err := e.SuggestEnergyAllocation(domain.EnergyHigh, d)
	require.NoError(t, err)
	require.Len(t, high.RecommendedTasks, 3)
	assert.Equal(t, "t1", high.RecommendedTasks[0].Description())

	medium, err := e.SuggestEnergyAllocation(domain.EnergyMedium, d)
	require.NoError(t, err)
	require.Len(t, medium.RecommendedTasks, 3)
	assert.Equal(t, "t2", medium.RecommendedTasks[0].Description())
	assert.Equal(t, "t4", medium.RecommendedTasks[2].Description())

	low, err := e.SuggestEnergyAllocation(domain.EnergyLow, d)
	require.NoError(t, err)
	require.Len(t, low.RecommendedTasks, 3)
	assert.Equal(t, "t4", low.RecommendedTasks[0].Description())

	_, err = e.SuggestEnergyAllocation("wired", d)
	assert.Error(t, err)
}

func TestSuggestEnergyAllocation_ShortQueue(t *testing.T) {
	e := newEngine(nil)
	d := day.NewDay(testNow)
	_, _, err := d.AddTask("only one", "", 0, testNow)
	require.NoError(t, err)

	low, err := e.SuggestEnergyAllocation(domain.EnergyLow, d)
	require.NoError(t, err)
	assert.Empty(t, low.RecommendedTasks)
}

func TestGenerateInsights_PatternAndStruggle(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["writing"] = 0.9
	stats.StruggleCounts["planning"] = 4

	added := e.GenerateInsights(context.Background(), stats)

	require.Len(t, added, 2)
	byType := map[domain.InsightType]*domain.Insight{}
	for _, ins := range added {
		byType[ins.Type] = ins
	}

	pattern := byType[domain.InsightTypePattern]
	require.NotNil(t, pattern)
	assert.Contains(t, pattern.Text, "excel at writing tasks")
	assert.InDelta(t, 0.9, pattern.Confidence, 1e-9)

	struggle := byType[domain.InsightTypeStruggle]
	require.NotNil(t, struggle)
	assert.Contains(t, struggle.Text, "Planning tasks often get pushed down")
	assert.InDelta(t, 0.8, struggle.Confidence, 1e-9)
}

func TestGenerateInsights_TimeEstimationBranches(t *testing.T) {
	e := newEngine(nil)

	low := domain.NewStatistics(testNow)
	low.EstimationAccuracy = 0.4
	added := e.GenerateInsights(context.Background(), low)
	require.Len(t, added, 1)
	assert.Equal(t, domain.InsightTypeTimeEstimation, added[0].Type)
	assert.InDelta(t, 0.6, added[0].Confidence, 1e-9)

	high := domain.NewStatistics(testNow)
	high.EstimationAccuracy = 0.9
	added = e.GenerateInsights(context.Background(), high)
	require.Len(t, added, 1)
	assert.Contains(t, added[0].Text, "Excellent time estimation")
	assert.InDelta(t, 0.9, added[0].Confidence, 1e-9)

	// the 0.6..0.85 band generates nothing
	assert.Empty(t, e.GenerateInsights(context.Background(), domain.NewStatistics(testNow)))
}

func TestGenerateInsights_MorningEnergyPattern(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.OptimalTimes["writing"] = 9 * time.Hour
	stats.OptimalTimes["review"] = 10 * time.Hour
	stats.OptimalTimes["meeting"] = 15 * time.Hour

	added := e.GenerateInsights(context.Background(), stats)

	require.Len(t, added, 1)
	assert.Equal(t, domain.InsightTypeEnergy, added[0].Type)
	assert.Contains(t, added[0].Text, "most productive in the morning")
}

func TestGenerateInsights_StreakTiers(t *testing.T) {
	e := newEngine(nil)

	building := domain.NewStatistics(testNow)
	building.CompletionStreak = 4
	added := e.GenerateInsights(context.Background(), building)
	require.Len(t, added, 1)
	assert.Contains(t, added[0].Text, "4 days in a row")
	assert.InDelta(t, 0.75, added[0].Confidence, 1e-9)
	assert.False(t, added[0].Actionable)

	strong := domain.NewStatistics(testNow)
	strong.ExecutionStreak = 8
	added = e.GenerateInsights(context.Background(), strong)
	require.Len(t, added, 1)
	assert.Contains(t, added[0].Text, "8-day streak")
	assert.InDelta(t, 0.9, added[0].Confidence, 1e-9)
}

func TestGenerateInsights_WorkflowGap(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.PlanningStreak = 6
	stats.ExecutionStreak = 2

	added := e.GenerateInsights(context.Background(), stats)

	// planning streak of 6 also trips the building-streak tier
	require.Len(t, added, 2)
	types := []domain.InsightType{added[0].Type, added[1].Type}
	assert.Contains(t, types, domain.InsightTypeWorkflow)
	assert.Contains(t, types, domain.InsightTypeStreak)
}

func TestGenerateInsights_SecondRunAddsNothing(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["development"] = 0.95
	stats.StruggleCounts["review"] = 5

	first := e.GenerateInsights(context.Background(), stats)
	require.NotEmpty(t, first)
	storedAfterFirst := len(stats.Insights)

	second := e.GenerateInsights(context.Background(), stats)

	assert.Empty(t, second)
	assert.Len(t, stats.Insights, storedAfterFirst)
}

func TestGenerateInsights_NotifiesHighConfidenceActionable(t *testing.T) {
	notifier := &recordingNotifier{}
	e := newEngine(notifier)
	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["writing"] = 0.95 // pattern, conf 0.95, actionable
	stats.CompletionStreak = 8              // streak, conf 0.9, not actionable

	e.GenerateInsights(context.Background(), stats)

	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, domain.InsightTypePattern, notifier.delivered[0].Type)
}

func TestGenerateInsights_NotifierFailureIsNonFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("connection refused")}
	e := newEngine(notifier)
	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["writing"] = 0.95

	added := e.GenerateInsights(context.Background(), stats)

	require.Len(t, added, 1)
	assert.Len(t, stats.Insights, 1)
}

func TestReport(t *testing.T) {
	e := newEngine(nil)
	stats := domain.NewStatistics(testNow)
	stats.CompletionRates = map[string]float64{
		"writing": 0.9, "meeting": 0.7, "review": 0.5, "general": 0.2,
	}
	stats.PlanningStreak = 3
	stats.LongestStreak = 9
	stats.EnergyAccuracy["high_to_high"] = 0.6

	d := day.NewDay(testNow)
	completedTask(t, d, "Write the summary", 20*time.Minute)
	for _, desc := range []string{"t2", "t3", "t4", "t5"} {
		_, _, err := d.AddTask(desc, "", 0, testNow)
		require.NoError(t, err)
	}

	report := e.Report(stats, d, 3)

	assert.InDelta(t, 0.2, report.OverallCompletionRate, 1e-9)
	assert.Equal(t, 1, report.StrugglingTaskCount, "one active task at rank 4")
	require.Len(t, report.TopCategories, 3)
	assert.Equal(t, "writing", report.TopCategories[0].Category)
	assert.InDelta(t, 0.6, report.EnergyAccuracy, 1e-9)
	assert.Equal(t, 9, report.LongestStreak)

	summary := report.Summary()
	assert.Contains(t, summary, "Completion Rate: 20%")
	assert.Contains(t, summary, "Longest Streak: 9 days")
}
