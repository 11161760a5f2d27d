package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/daybook/internal/planner/domain/day"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// ListBacklogQuery requests the backlog for one date, optionally filtered.
type ListBacklogQuery struct {
	Date        time.Time
	Tag         string // only items carrying this tag
	Search      string // case-insensitive substring on the description
	NeedsReview bool   // only items overdue for review
}

// BacklogItemView is the read model for a backlog item.
type BacklogItemView struct {
	ID            uuid.UUID
	Description   string
	Tags          []string
	SourceContext string
	AgeInDays     int
	NeedsReview   bool
}

// ListBacklogHandler handles the ListBacklogQuery.
type ListBacklogHandler struct {
	dayRepo day.Repository
	clock   clock.Clock
}

// NewListBacklogHandler creates a new ListBacklogHandler.
func NewListBacklogHandler(dayRepo day.Repository, clk clock.Clock) *ListBacklogHandler {
	return &ListBacklogHandler{dayRepo: dayRepo, clock: clk}
}

// Handle executes the ListBacklogQuery.
func (h *ListBacklogHandler) Handle(ctx context.Context, q ListBacklogQuery) ([]BacklogItemView, error) {
	d, err := h.dayRepo.FindByDate(ctx, q.Date)
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	if d == nil {
		return []BacklogItemView{}, nil
	}

	now := h.clock.Now()
	search := strings.ToLower(strings.TrimSpace(q.Search))

	views := make([]BacklogItemView, 0, len(d.Backlog()))
	for _, item := range d.Backlog() {
		if q.Tag != "" && !item.HasTag(q.Tag) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Description()), search) {
			continue
		}
		if q.NeedsReview && !item.NeedsReview(now) {
			continue
		}
		views = append(views, BacklogItemView{
			ID:            item.ID(),
			Description:   item.Description(),
			Tags:          item.Tags(),
			SourceContext: item.SourceContext(),
			AgeInDays:     item.AgeInDays(now),
			NeedsReview:   item.NeedsReview(now),
		})
	}
	return views, nil
}
