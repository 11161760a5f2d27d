package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetReport_EmptyStateYieldsZeroReport(t *testing.T) {
	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(nil, nil)
	statsRepo := new(mockStatsRepo)
	statsRepo.On("Find", mock.Anything).Return(nil, nil)

	handler := NewGetReportHandler(dayRepo, statsRepo, newTestEngine(), clock.NewFixed(testNow))
	report, err := handler.Handle(context.Background(), GetReportQuery{Date: testNow, InsightLimit: 3})

	require.NoError(t, err)
	assert.Zero(t, report.OverallCompletionRate)
	assert.InDelta(t, 0.7, report.EstimationAccuracy, 1e-9)
	assert.Zero(t, report.LongestStreak)
	assert.Empty(t, report.RecentInsights)
}

func TestGetReport_CombinesDayAndStatistics(t *testing.T) {
	d := fullQueue(t)

	stats := domain.NewStatistics(testNow)
	stats.RecordCompletion("writing", 1, testNow)
	stats.LearnDuration("writing", 45*time.Minute, time.Hour, testNow)
	stats.UpdateStreaks(true, true, true, false, testNow)
	stats.AddInsight(domain.NewInsight(
		"Your estimates are off by 40%. Try doubling your initial guess.",
		domain.InsightTypeTimeEstimation, 0.75, testNow,
	), testNow)

	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(d, nil)
	statsRepo := new(mockStatsRepo)
	statsRepo.On("Find", mock.Anything).Return(stats, nil)

	handler := NewGetReportHandler(dayRepo, statsRepo, newTestEngine(), clock.NewFixed(testNow))
	report, err := handler.Handle(context.Background(), GetReportQuery{Date: testNow, InsightLimit: 3})

	require.NoError(t, err)
	assert.Equal(t, 1, report.PlanningStreak)
	assert.Equal(t, 1, report.LongestStreak)
	// A full queue of six has three tasks in the danger zone.
	assert.Equal(t, 3, report.StrugglingTaskCount)
	require.Len(t, report.TopCategories, 1)
	assert.Equal(t, "writing", report.TopCategories[0].Category)
	require.Len(t, report.RecentInsights, 1)
}
