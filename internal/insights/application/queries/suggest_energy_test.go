package queries

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fullQueue(t *testing.T) *day.Day {
	t.Helper()

	d := day.NewDay(testNow)
	for _, desc := range []string{
		"Write the launch announcement",
		"Review the migration plan",
		"Reply to the board email",
		"Prepare the demo script",
		"Check the error budget",
		"Plan next week's sprint",
	} {
		_, _, err := d.AddTask(desc, "", 0, testNow)
		require.NoError(t, err)
	}
	return d
}

func TestSuggestEnergy_HighEnergyRecommendsTopThree(t *testing.T) {
	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(fullQueue(t), nil)

	handler := NewSuggestEnergyAllocationHandler(dayRepo, newTestEngine())
	view, err := handler.Handle(context.Background(), SuggestEnergyAllocationQuery{
		Date:  testNow,
		Level: "high",
	})

	require.NoError(t, err)
	require.Len(t, view.RecommendedTasks, 3)
	assert.Equal(t, 1, view.RecommendedTasks[0].Rank)
	assert.Equal(t, "Write the launch announcement", view.RecommendedTasks[0].Description)
	assert.Contains(t, view.Suggestion, "top 3 priorities")
}

func TestSuggestEnergy_LowEnergyRecommendsTail(t *testing.T) {
	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(fullQueue(t), nil)

	handler := NewSuggestEnergyAllocationHandler(dayRepo, newTestEngine())
	view, err := handler.Handle(context.Background(), SuggestEnergyAllocationQuery{
		Date:  testNow,
		Level: "low",
	})

	require.NoError(t, err)
	require.Len(t, view.RecommendedTasks, 3)
	assert.Equal(t, 4, view.RecommendedTasks[0].Rank)
}

func TestSuggestEnergy_MissingDayYieldsEmptyRecommendations(t *testing.T) {
	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(nil, nil)

	handler := NewSuggestEnergyAllocationHandler(dayRepo, newTestEngine())
	view, err := handler.Handle(context.Background(), SuggestEnergyAllocationQuery{
		Date:  testNow,
		Level: "medium",
	})

	require.NoError(t, err)
	assert.Empty(t, view.RecommendedTasks)
	assert.NotEmpty(t, view.Suggestion)
}

func TestSuggestEnergy_InvalidLevel(t *testing.T) {
	dayRepo := new(mockDayRepo)
	dayRepo.On("FindByDate", mock.Anything, mock.Anything).Return(fullQueue(t), nil)

	handler := NewSuggestEnergyAllocationHandler(dayRepo, newTestEngine())
	_, err := handler.Handle(context.Background(), SuggestEnergyAllocationQuery{
		Date:  testNow,
		Level: "caffeinated",
	})

	assert.Error(t, err)
}
