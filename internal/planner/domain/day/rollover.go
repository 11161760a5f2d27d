package day

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/daybook/internal/shared/domain"
)

// RolloverResult reports where each incomplete task from the source day
// ended up.
type RolloverResult struct {
	RolledOver      []*Task
	MovedToBacklog  []*BacklogItem
	TotalIncomplete int
}

// Summary returns a short human-readable report of the rollover.
func (r RolloverResult) Summary() string {
	switch {
	case r.TotalIncomplete == 0:
		return "all tasks completed, nothing to roll over"
	case len(r.MovedToBacklog) == 0:
		return fmt.Sprintf("%d task(s) rolled over to the next day", len(r.RolledOver))
	default:
		return fmt.Sprintf("%d task(s) rolled over, %d moved to the backlog", len(r.RolledOver), len(r.MovedToBacklog))
	}
}

// Rollover carries every incomplete task from source into target. Each
// task is recreated fresh in target, preserving description, rank and
// reasoning; the source record stays behind as the historical record of
// its day. Tasks are processed in rank order so earlier-ranked tasks win
// target slots; once target's active queue is full the remainder land in
// target's backlog tagged "rollover". Rollover never fails.
func Rollover(source, target *Day, now time.Time) RolloverResult {
	incomplete := source.ActiveTasks() // already sorted by rank ascending

	result := RolloverResult{
		RolledOver:      make([]*Task, 0, len(incomplete)),
		MovedToBacklog:  make([]*BacklogItem, 0),
		TotalIncomplete: len(incomplete),
	}

	sourceID := source.ID()
	for _, t := range incomplete {
		if target.ActiveCount() < MaxActiveTasks {
			rolled := &Task{
				BaseEntity:        sharedDomain.NewBaseEntity(),
				description:       t.Description(),
				rank:              t.Rank(),
				reasoning:         t.Reasoning(),
				estimatedDuration: t.EstimatedDuration(),
				rolledFromDayID:   &sourceID,
			}
			target.tasks = append(target.tasks, rolled)
			result.RolledOver = append(result.RolledOver, rolled)
		} else {
			item := newBacklogItem(t.Description(), []string{"rollover"}, SourceDailyRollover, now)
			target.backlog = append(target.backlog, item)
			result.MovedToBacklog = append(result.MovedToBacklog, item)
		}
	}

	target.Reorder()
	target.Touch()
	target.AddDomainEvent(NewDayRolledOver(target.ID(), source.ID(), len(result.RolledOver), len(result.MovedToBacklog)))

	return result
}
