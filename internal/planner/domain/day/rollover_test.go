package day_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollover_EmptySource(t *testing.T) {
	source := day.NewDay(testNow)
	target := day.NewDay(testNow.Add(24 * time.Hour))

	result := day.Rollover(source, target, testNow.Add(24*time.Hour))

	assert.Zero(t, result.TotalIncomplete)
	assert.Empty(t, result.RolledOver)
	assert.Empty(t, result.MovedToBacklog)
	assert.Equal(t, "all tasks completed, nothing to roll over", result.Summary())
}

func TestRollover_CarriesIncompleteTasks(t *testing.T) {
	source := newDayWithTasks(t, "t1", "t2", "t3")
	done := source.ActiveTasks()[1]
	_, err := source.CompleteTask(done.ID(), testNow)
	require.NoError(t, err)

	target := day.NewDay(testNow.Add(24 * time.Hour))
	result := day.Rollover(source, target, testNow.Add(24*time.Hour))

	assert.Equal(t, 2, result.TotalIncomplete)
	require.Len(t, result.RolledOver, 2)
	assert.Empty(t, result.MovedToBacklog)
	assert.Equal(t, []string{"t1", "t3"}, activeInRankOrder(t, target))

	// carried tasks are fresh entities pointing back at their origin
	for _, rolled := range result.RolledOver {
		require.NotNil(t, rolled.RolledFromDayID())
		assert.Equal(t, source.ID(), *rolled.RolledFromDayID())
		assert.False(t, rolled.IsCompleted())
	}

	// the source day keeps its history untouched
	assert.Equal(t, 2, source.ActiveCount())
	assert.Len(t, source.CompletedTasks(), 1)
}

func TestRollover_OverflowLandsInBacklog(t *testing.T) {
	source := newDayWithTasks(t, "s1", "s2", "s3", "s4", "s5", "s6")
	target := newDayWithTasks(t, "n1", "n2", "n3", "n4")

	result := day.Rollover(source, target, testNow.Add(24*time.Hour))

	assert.Equal(t, 6, result.TotalIncomplete)
	assert.Len(t, result.RolledOver, 2)
	assert.Len(t, result.MovedToBacklog, 4)
	assert.Equal(t, result.TotalIncomplete, len(result.RolledOver)+len(result.MovedToBacklog))

	// earlier-ranked source tasks win the free slots
	assert.Equal(t, []string{"n1", "n2", "n3", "n4", "s1", "s2"}, activeInRankOrder(t, target))

	require.Len(t, target.Backlog(), 4)
	for _, item := range target.Backlog() {
		assert.True(t, item.HasTag("rollover"))
		assert.Equal(t, day.SourceDailyRollover, item.SourceContext())
	}
}

func TestRollover_PreservesEstimateAndReasoning(t *testing.T) {
	source := day.NewDay(testNow)
	tsk, _, err := source.AddTask("deep work", "most important", 0, testNow)
	require.NoError(t, err)
	tsk.SetEstimatedDuration(90 * time.Minute)

	target := day.NewDay(testNow.Add(24 * time.Hour))
	result := day.Rollover(source, target, testNow.Add(24*time.Hour))

	require.Len(t, result.RolledOver, 1)
	rolled := result.RolledOver[0]
	assert.Equal(t, "deep work", rolled.Description())
	assert.Equal(t, "most important", rolled.Reasoning())
	assert.Equal(t, 90*time.Minute, rolled.EstimatedDuration())
	assert.NotEqual(t, tsk.ID(), rolled.ID())
}

func TestRollover_EmitsEventOnTarget(t *testing.T) {
	source := newDayWithTasks(t, "t1")
	target := day.NewDay(testNow.Add(24 * time.Hour))

	day.Rollover(source, target, testNow.Add(24*time.Hour))

	events := target.DomainEvents()
	require.Len(t, events, 1)
	rolled, ok := events[0].(day.DayRolledOver)
	require.True(t, ok)
	assert.Equal(t, source.ID(), rolled.SourceDayID)
	assert.Equal(t, 1, rolled.RolledOver)
	assert.Equal(t, 0, rolled.Backlogged)
}

func TestRolloverResult_Summary(t *testing.T) {
	r := day.RolloverResult{TotalIncomplete: 3}
	r.RolledOver = make([]*day.Task, 2)
	r.MovedToBacklog = make([]*day.BacklogItem, 1)

	assert.Equal(t, "2 task(s) rolled over, 1 moved to the backlog", r.Summary())
}
