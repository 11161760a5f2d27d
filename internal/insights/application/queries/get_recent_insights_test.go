package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetRecentInsights_NoStatisticsYieldsEmptyList(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	statsRepo.On("Find", mock.Anything).Return(nil, nil)

	handler := NewGetRecentInsightsHandler(statsRepo)
	views, err := handler.Handle(context.Background(), GetRecentInsightsQuery{Limit: 3})

	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetRecentInsights_OrdersByConfidenceAndSkipsAcknowledged(t *testing.T) {
	stats := domain.NewStatistics(testNow)

	low := domain.NewInsight("Morning is your power time! Schedule important tasks early.", domain.InsightTypeEnergy, 0.8, testNow)
	high := domain.NewInsight("7 day completion streak! You're building a strong daily habit.", domain.InsightTypeStreak, 0.9, testNow)
	seen := domain.NewInsight("You struggle with review tasks. Consider batching them.", domain.InsightTypeStruggle, 0.95, testNow)
	seen.Acknowledge()

	stats.AddInsight(low, testNow)
	stats.AddInsight(high, testNow)
	stats.AddInsight(seen, testNow)

	statsRepo := new(mockStatsRepo)
	statsRepo.On("Find", mock.Anything).Return(stats, nil)

	handler := NewGetRecentInsightsHandler(statsRepo)
	views, err := handler.Handle(context.Background(), GetRecentInsightsQuery{Limit: 3})

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, high.ID, views[0].ID)
	assert.Equal(t, low.ID, views[1].ID)
	assert.False(t, views[0].Actionable)
	assert.True(t, views[1].Actionable)
}
