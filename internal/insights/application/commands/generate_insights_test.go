package commands

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/insights/application/services"
	"github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// mockStatsRepo is a mock implementation of the statistics repository.
type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) Save(ctx context.Context, s *domain.Statistics) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStatsRepo) Find(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *mockStatsRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Statistics, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func newTestEngine() *services.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewEngine(nil, 0.8, clock.NewFixed(testNow), logger)
}

func TestGenerateInsightsHandler(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewGenerateInsightsHandler(statsRepo, newTestEngine(), clock.NewFixed(testNow))

	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["development"] = 0.9

	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	result, err := handler.Handle(context.Background(), GenerateInsightsCommand{})

	require.NoError(t, err)
	require.Len(t, result.NewInsights, 1)
	assert.Equal(t, "pattern", result.NewInsights[0].Type)
	assert.True(t, result.NewInsights[0].Actionable)
	statsRepo.AssertExpectations(t)
}

func TestGenerateInsightsHandler_SecondRunIsEmpty(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewGenerateInsightsHandler(statsRepo, newTestEngine(), clock.NewFixed(testNow))

	stats := domain.NewStatistics(testNow)
	stats.CompletionRates["development"] = 0.9

	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	first, err := handler.Handle(context.Background(), GenerateInsightsCommand{})
	require.NoError(t, err)
	require.NotEmpty(t, first.NewInsights)

	second, err := handler.Handle(context.Background(), GenerateInsightsCommand{})
	require.NoError(t, err)
	assert.Empty(t, second.NewInsights)
}

func TestAcknowledgeInsightHandler(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewAcknowledgeInsightHandler(statsRepo)

	stats := domain.NewStatistics(testNow)
	ins := domain.NewInsight("text", domain.InsightTypePattern, 0.9, testNow)
	require.True(t, stats.AddInsight(ins, testNow))

	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	err := handler.Handle(context.Background(), AcknowledgeInsightCommand{InsightID: ins.ID})

	require.NoError(t, err)
	assert.True(t, ins.Acknowledged)
	assert.Empty(t, stats.RecentInsights(10))
}

func TestAcknowledgeInsightHandler_UnknownInsight(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewAcknowledgeInsightHandler(statsRepo)

	statsRepo.On("Find", mock.Anything).Return(domain.NewStatistics(testNow), nil)

	err := handler.Handle(context.Background(), AcknowledgeInsightCommand{InsightID: uuid.New()})

	assert.ErrorIs(t, err, ErrInsightNotFound)
}

func TestRecordEnergyAccuracyHandler(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewRecordEnergyAccuracyHandler(statsRepo, newTestEngine(), clock.NewFixed(testNow))

	stats := domain.NewStatistics(testNow)
	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	err := handler.Handle(context.Background(), RecordEnergyAccuracyCommand{
		Predicted: domain.EnergyHigh,
		Actual:    domain.EnergyMedium,
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.4, stats.EnergyAccuracy["high_to_medium"], 1e-9)
}

func TestRecordEnergyAccuracyHandler_InvalidLevel(t *testing.T) {
	statsRepo := new(mockStatsRepo)
	handler := NewRecordEnergyAccuracyHandler(statsRepo, newTestEngine(), clock.NewFixed(testNow))

	statsRepo.On("Find", mock.Anything).Return(domain.NewStatistics(testNow), nil)

	err := handler.Handle(context.Background(), RecordEnergyAccuracyCommand{
		Predicted: "sleepy",
		Actual:    domain.EnergyLow,
	})

	require.Error(t, err)
	statsRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
