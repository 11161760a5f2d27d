package queries

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListBacklog_MissingDayYieldsEmptyList(t *testing.T) {
	repo := new(mockDayRepo)
	repo.On("FindByDate", mock.Anything, mock.Anything).Return(nil, nil)

	handler := NewListBacklogHandler(repo, clock.NewFixed(testNow))
	items, err := handler.Handle(context.Background(), ListBacklogQuery{Date: testNow})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListBacklog_Filters(t *testing.T) {
	d := day.NewDay(testNow)
	d.AddBacklogItem("Read the pricing proposal", []string{"reading"}, testNow)
	d.AddBacklogItem("Organize the team offsite", []string{"planning"}, testNow)
	d.AddBacklogItem("Read the architecture RFC", []string{"reading"}, testNow)

	repo := new(mockDayRepo)
	repo.On("FindByDate", mock.Anything, mock.Anything).Return(d, nil)
	handler := NewListBacklogHandler(repo, clock.NewFixed(testNow))

	byTag, err := handler.Handle(context.Background(), ListBacklogQuery{Date: testNow, Tag: "reading"})
	require.NoError(t, err)
	assert.Len(t, byTag, 2)

	bySearch, err := handler.Handle(context.Background(), ListBacklogQuery{Date: testNow, Search: "OFFSITE"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Organize the team offsite", bySearch[0].Description)

	both, err := handler.Handle(context.Background(), ListBacklogQuery{Date: testNow, Tag: "reading", Search: "rfc"})
	require.NoError(t, err)
	assert.Len(t, both, 1)
}

func TestListBacklog_NeedsReviewAfterTwoWeeks(t *testing.T) {
	d := day.NewDay(testNow)
	d.AddBacklogItem("Stale idea", nil, testNow)
	d.AddBacklogItem("Fresh idea", nil, testNow)

	// Advance past the review interval for the whole backlog, then mark
	// one item reviewed so only the other is overdue.
	later := testNow.Add(day.ReviewInterval + time.Hour)
	d.Backlog()[1].MarkReviewed(later)

	repo := new(mockDayRepo)
	repo.On("FindByDate", mock.Anything, mock.Anything).Return(d, nil)
	handler := NewListBacklogHandler(repo, clock.NewFixed(later))

	overdue, err := handler.Handle(context.Background(), ListBacklogQuery{Date: testNow, NeedsReview: true})
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "Stale idea", overdue[0].Description)
	assert.Equal(t, 14, overdue[0].AgeInDays)
}
