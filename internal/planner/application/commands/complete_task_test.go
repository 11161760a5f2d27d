package commands

import (
	"context"
	"testing"
	"time"

	insightsDomain "github.com/felixgeelhaar/daybook/internal/insights/domain"
	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompleteTaskHandler_LearnsFromStartedTask(t *testing.T) {
	dayRepo := new(mockDayRepo)
	statsRepo := new(mockStatsRepo)
	clk := clock.NewFixed(testNow)
	handler := NewCompleteTaskHandler(dayRepo, statsRepo, newTestEngine(), clk)

	d := day.NewDay(testNow)
	tsk, _, err := d.AddTask("Write the report", "", 0, testNow)
	require.NoError(t, err)
	require.NoError(t, d.StartTask(tsk.ID(), testNow.Add(-30*time.Minute)))

	stats := insightsDomain.NewStatistics(testNow)

	dayRepo.On("FindByDate", mock.Anything, testNow).Return(d, nil)
	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	dayRepo.On("Save", mock.Anything, d).Return(nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	result, err := handler.Handle(context.Background(), CompleteTaskCommand{Date: testNow, TaskID: tsk.ID()})

	require.NoError(t, err)
	assert.Equal(t, "Write the report", result.Description)
	assert.Equal(t, 30*time.Minute, result.ActualDuration)
	assert.InDelta(t, 1.0, result.CompletionRate, 1e-9)

	// estimated 1h against a measured 30m: accuracy sample is 0.5
	assert.InDelta(t, 0.7*0.8+0.5*0.2, stats.EstimationAccuracy, 1e-9)
	assert.NotEmpty(t, stats.AverageDurations["writing"])
	assert.Contains(t, stats.OptimalTimes, "writing")
	statsRepo.AssertExpectations(t)
}

func TestCompleteTaskHandler_UnstartedTaskSkipsAccuracy(t *testing.T) {
	dayRepo := new(mockDayRepo)
	statsRepo := new(mockStatsRepo)
	handler := NewCompleteTaskHandler(dayRepo, statsRepo, newTestEngine(), clock.NewFixed(testNow))

	d := day.NewDay(testNow)
	tsk, _, err := d.AddTask("Write the report", "", 0, testNow)
	require.NoError(t, err)

	stats := insightsDomain.NewStatistics(testNow)

	dayRepo.On("FindByDate", mock.Anything, testNow).Return(d, nil)
	statsRepo.On("Find", mock.Anything).Return(stats, nil)
	dayRepo.On("Save", mock.Anything, d).Return(nil)
	statsRepo.On("Save", mock.Anything, stats).Return(nil)

	result, err := handler.Handle(context.Background(), CompleteTaskCommand{Date: testNow, TaskID: tsk.ID()})

	require.NoError(t, err)
	assert.Zero(t, result.ActualDuration)
	assert.InDelta(t, 0.7, stats.EstimationAccuracy, 1e-9, "no duration sample, accuracy untouched")
	assert.Empty(t, stats.AverageDurations)
	// the completion time still teaches the optimal-time map
	assert.Contains(t, stats.OptimalTimes, "writing")
}

func TestCompleteTaskHandler_MissingDay(t *testing.T) {
	dayRepo := new(mockDayRepo)
	statsRepo := new(mockStatsRepo)
	handler := NewCompleteTaskHandler(dayRepo, statsRepo, newTestEngine(), clock.NewFixed(testNow))

	dayRepo.On("FindByDate", mock.Anything, testNow).Return(nil, nil)

	_, err := handler.Handle(context.Background(), CompleteTaskCommand{Date: testNow, TaskID: uuid.New()})

	assert.ErrorIs(t, err, ErrDayNotFound)
}

func TestCompleteTaskHandler_UnknownTask(t *testing.T) {
	dayRepo := new(mockDayRepo)
	statsRepo := new(mockStatsRepo)
	handler := NewCompleteTaskHandler(dayRepo, statsRepo, newTestEngine(), clock.NewFixed(testNow))

	d := day.NewDay(testNow)
	dayRepo.On("FindByDate", mock.Anything, testNow).Return(d, nil)

	_, err := handler.Handle(context.Background(), CompleteTaskCommand{Date: testNow, TaskID: uuid.New()})

	assert.ErrorIs(t, err, day.ErrTaskNotFound)
	dayRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
