package day

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/daybook/internal/shared/domain"
	"github.com/google/uuid"
)

// Source contexts recording how a backlog item came to exist.
const (
	SourceBrainDump     = "brain_dump"
	SourceQueueOverflow = "queue_overflow"
	SourceDemoted       = "demoted"
	SourceDailyRollover = "daily_rollover"
)

// ReviewInterval is how long a backlog item may sit before it needs review.
const ReviewInterval = 14 * 24 * time.Hour

// BacklogItem is an unranked, possibly-indefinitely-deferred task. Its
// lifecycle is independent of the daily queue until explicitly promoted.
type BacklogItem struct {
	sharedDomain.BaseEntity
	description   string
	dateAdded     time.Time
	tags          []string
	sourceContext string
	lastReviewed  *time.Time
}

func newBacklogItem(description string, tags []string, sourceContext string, now time.Time) *BacklogItem {
	item := &BacklogItem{
		BaseEntity:    sharedDomain.NewBaseEntity(),
		description:   strings.TrimSpace(description),
		dateAdded:     now,
		tags:          make([]string, 0, len(tags)),
		sourceContext: sourceContext,
	}
	for _, tag := range tags {
		item.AddTag(tag)
	}
	return item
}

// Getters

func (b *BacklogItem) Description() string      { return b.description }
func (b *BacklogItem) DateAdded() time.Time     { return b.dateAdded }
func (b *BacklogItem) SourceContext() string    { return b.sourceContext }
func (b *BacklogItem) LastReviewed() *time.Time { return b.lastReviewed }

// Tags returns a copy of the item's tag set.
func (b *BacklogItem) Tags() []string {
	tags := make([]string, len(b.tags))
	copy(tags, b.tags)
	return tags
}

// HasTag reports whether the item carries the given tag.
func (b *BacklogItem) HasTag(tag string) bool {
	for _, t := range b.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag, ignoring duplicates and empty strings.
func (b *BacklogItem) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" || b.HasTag(tag) {
		return
	}
	b.tags = append(b.tags, tag)
}

// AgeInDays returns how many whole days the item has been deferred.
func (b *BacklogItem) AgeInDays(now time.Time) int {
	if now.Before(b.dateAdded) {
		return 0
	}
	return int(now.Sub(b.dateAdded) / (24 * time.Hour))
}

// NeedsReview reports whether the item is overdue for a review: never
// reviewed and older than the review interval, or last reviewed longer
// than the interval ago.
func (b *BacklogItem) NeedsReview(now time.Time) bool {
	if b.lastReviewed == nil {
		return now.Sub(b.dateAdded) > ReviewInterval
	}
	return now.Sub(*b.lastReviewed) > ReviewInterval
}

// MarkReviewed records that the item was considered for promotion.
func (b *BacklogItem) MarkReviewed(now time.Time) {
	reviewed := now
	b.lastReviewed = &reviewed
	b.Touch()
}

// RehydrateBacklogItem recreates a backlog item from persisted state.
func RehydrateBacklogItem(
	id uuid.UUID,
	description string,
	dateAdded time.Time,
	tags []string,
	sourceContext string,
	lastReviewed *time.Time,
	createdAt, updatedAt time.Time,
) *BacklogItem {
	return &BacklogItem{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		description:   description,
		dateAdded:     dateAdded,
		tags:          tags,
		sourceContext: sourceContext,
		lastReviewed:  lastReviewed,
	}
}
