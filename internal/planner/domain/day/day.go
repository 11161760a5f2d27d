// Package day implements the daily priority queue: a single calendar day
// owning an ordered queue of at most six ranked tasks plus an unbounded
// backlog of deferred work. Capacity is enforced structurally by evicting
// the lowest-ranked task to the backlog; no operation rejects a call
// because the queue is full.
package day

import (
	"sort"
	"time"

	sharedDomain "github.com/felixgeelhaar/daybook/internal/shared/domain"
	"github.com/felixgeelhaar/daybook/pkg/clock"
	"github.com/google/uuid"
)

// MaxActiveTasks is the Ivy Lee limit on concurrently ranked tasks.
const MaxActiveTasks = 6

// Day is one calendar day's planning state: the ranked active queue and
// the backlog. It is the aggregate root; tasks and backlog items are owned
// by exactly one Day and transfer ownership, never copies.
//
// Invariant: among active (not completed) tasks, ranks are a contiguous
// permutation of 1..N where N is the active count, N <= MaxActiveTasks.
type Day struct {
	sharedDomain.BaseAggregateRoot
	date    time.Time
	tasks   []*Task // insertion order; rank governs priority ordering
	backlog []*BacklogItem
}

// NewDay creates an empty day bucket for the given date (truncated to
// midnight in the date's location).
func NewDay(date time.Time) *Day {
	return &Day{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		date:              clock.StartOfDay(date),
		tasks:             make([]*Task, 0, MaxActiveTasks),
		backlog:           make([]*BacklogItem, 0),
	}
}

// Getters

func (d *Day) Date() time.Time { return d.date }

// Tasks returns all tasks (active and completed) in internal order.
func (d *Day) Tasks() []*Task { return d.tasks }

// Backlog returns the deferred items.
func (d *Day) Backlog() []*BacklogItem { return d.backlog }

// ActiveTasks returns the incomplete tasks sorted by rank ascending.
func (d *Day) ActiveTasks() []*Task {
	active := make([]*Task, 0, MaxActiveTasks)
	for _, t := range d.tasks {
		if !t.IsCompleted() {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Rank() < active[j].Rank() })
	return active
}

// CompletedTasks returns the completed tasks, most recent first.
func (d *Day) CompletedTasks() []*Task {
	done := make([]*Task, 0, len(d.tasks))
	for _, t := range d.tasks {
		if t.IsCompleted() {
			done = append(done, t)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		ti, tj := done[i].CompletedAt(), done[j].CompletedAt()
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	return done
}

// ActiveCount returns the number of incomplete tasks.
func (d *Day) ActiveCount() int {
	n := 0
	for _, t := range d.tasks {
		if !t.IsCompleted() {
			n++
		}
	}
	return n
}

// TaskByID finds a task owned by this day.
func (d *Day) TaskByID(id uuid.UUID) (*Task, bool) {
	for _, t := range d.tasks {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// BacklogItemByID finds a backlog item owned by this day.
func (d *Day) BacklogItemByID(id uuid.UUID) (*BacklogItem, bool) {
	for _, b := range d.backlog {
		if b.ID() == id {
			return b, true
		}
	}
	return nil, false
}

// AddTask inserts a new task into the active queue. When the queue already
// holds MaxActiveTasks active entries, the entry with the numerically
// highest rank is evicted to the backlog first and returned alongside the
// inserted task. preferredRank of 0 means "no preference".
func (d *Day) AddTask(description, reasoning string, preferredRank int, now time.Time) (*Task, *BacklogItem, error) {
	rank := preferredRank
	if rank < 1 || rank > MaxActiveTasks {
		rank = min(d.ActiveCount()+1, MaxActiveTasks)
	}

	// Validate before evicting so a rejected insert leaves the queue
	// and backlog untouched.
	task, err := newTask(description, reasoning, rank)
	if err != nil {
		return nil, nil, err
	}

	var evicted *BacklogItem
	if d.ActiveCount() >= MaxActiveTasks {
		evicted = d.evictLowest(now)
	}

	// Shift existing actives at or below the requested slot so the
	// newcomer wins it.
	for _, t := range d.tasks {
		if !t.IsCompleted() && t.rank >= rank {
			t.rank++
		}
	}

	d.tasks = append(d.tasks, task)
	d.Reorder()
	d.Touch()
	d.AddDomainEvent(NewTaskQueued(d.ID(), task.ID(), task.Description(), task.Rank()))

	return task, evicted, nil
}

// AddBacklogItem captures a deferred task directly into the backlog.
func (d *Day) AddBacklogItem(description string, tags []string, now time.Time) *BacklogItem {
	item := newBacklogItem(description, tags, SourceBrainDump, now)
	d.backlog = append(d.backlog, item)
	d.Touch()
	return item
}

// PromoteBacklog moves a backlog item into the active queue at targetRank.
// An out-of-range rank is a silent no-op; the queue and backlog are
// unchanged. A stale backlog id is a caller error.
func (d *Day) PromoteBacklog(backlogID uuid.UUID, targetRank int, reasoning string, now time.Time) (*Task, *BacklogItem, error) {
	if targetRank < 1 || targetRank > MaxActiveTasks {
		return nil, nil, nil
	}

	item, ok := d.BacklogItemByID(backlogID)
	if !ok {
		return nil, nil, ErrBacklogItemNotFound
	}

	task, err := newTask(item.Description(), reasoning, targetRank)
	if err != nil {
		return nil, nil, err
	}

	var evicted *BacklogItem
	if d.ActiveCount() >= MaxActiveTasks {
		evicted = d.evictLowest(now)
	}

	d.removeBacklogItem(item.ID())

	for _, t := range d.tasks {
		if !t.IsCompleted() && t.rank >= targetRank {
			t.rank++
		}
	}

	d.tasks = append(d.tasks, task)
	d.Reorder()
	d.Touch()
	d.AddDomainEvent(NewTaskPromoted(d.ID(), task.ID(), task.Description(), task.Rank()))

	return task, evicted, nil
}

// Demote removes an active task from the queue and returns the backlog
// item that replaces it, tagged "demoted". Calling Demote twice for the
// same id is a caller error: the task is no longer in the queue.
func (d *Day) Demote(taskID uuid.UUID, now time.Time) (*BacklogItem, error) {
	task, ok := d.TaskByID(taskID)
	if !ok || task.IsCompleted() {
		return nil, ErrTaskNotFound
	}

	d.removeTask(taskID)

	item := newBacklogItem(task.Description(), []string{"demoted"}, SourceDemoted, now)
	d.backlog = append(d.backlog, item)

	d.Reorder()
	d.Touch()
	d.AddDomainEvent(NewTaskDemoted(d.ID(), task.ID(), task.Description()))

	return item, nil
}

// RemoveBacklogItem deletes a backlog item permanently.
func (d *Day) RemoveBacklogItem(backlogID uuid.UUID) error {
	if _, ok := d.BacklogItemByID(backlogID); !ok {
		return ErrBacklogItemNotFound
	}
	d.removeBacklogItem(backlogID)
	d.Touch()
	return nil
}

// UpdateRank moves an active task to a new rank and renormalizes. Ranks
// outside 1..MaxActiveTasks and unknown or completed tasks are ignored;
// the rank slider in callers already clamps, so robustness wins over
// strict validation here.
func (d *Day) UpdateRank(taskID uuid.UUID, newRank int) {
	if newRank < 1 || newRank > MaxActiveTasks {
		return
	}
	task, ok := d.TaskByID(taskID)
	if !ok || task.IsCompleted() {
		return
	}
	task.rank = newRank
	d.Reorder()
	d.Touch()
}

// Reorder renormalizes the queue: active tasks are sorted by current rank
// (stable, insertion order breaking ties) and reassigned ranks 1..N;
// completed tasks follow in their existing order and carry no rank
// semantics. Reorder is idempotent.
func (d *Day) Reorder() {
	active := make([]*Task, 0, len(d.tasks))
	completed := make([]*Task, 0, len(d.tasks))
	for _, t := range d.tasks {
		if t.IsCompleted() {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}

	sort.SliceStable(active, func(i, j int) bool { return active[i].rank < active[j].rank })
	for i, t := range active {
		t.rank = i + 1
	}

	d.tasks = append(active, completed...)
}

// StartTask records when work on a task began; the timestamp later yields
// the task's actual duration. Starting an already-started task is a no-op.
func (d *Day) StartTask(taskID uuid.UUID, now time.Time) error {
	task, ok := d.TaskByID(taskID)
	if !ok || task.IsCompleted() {
		return ErrTaskNotFound
	}
	task.start(now)
	d.Touch()
	return nil
}

// CompleteTask marks a task completed at now, deriving its actual duration
// when a start time was recorded, and renormalizes the remaining actives.
func (d *Day) CompleteTask(taskID uuid.UUID, now time.Time) (*Task, error) {
	task, ok := d.TaskByID(taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	if err := task.complete(now); err != nil {
		return nil, err
	}

	d.Reorder()
	d.Touch()
	d.AddDomainEvent(NewTaskCompleted(d.ID(), task.ID(), task.Description()))

	return task, nil
}

// CompletionRate returns completed / total over all tasks in the queue.
func (d *Day) CompletionRate() float64 {
	if len(d.tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range d.tasks {
		if t.IsCompleted() {
			done++
		}
	}
	return float64(done) / float64(len(d.tasks))
}

// StrugglingTasks returns the incomplete tasks sitting at rank 4 or below,
// the ones that keep getting deprioritized.
func (d *Day) StrugglingTasks() []*Task {
	struggling := make([]*Task, 0)
	for _, t := range d.tasks {
		if !t.IsCompleted() && t.Rank() >= 4 {
			struggling = append(struggling, t)
		}
	}
	return struggling
}

// Activity predicates used by streak tracking. A day with any queued task
// counts as planned; execution requires a task actually started or
// finished.

// HasPlanningActivity reports whether any tasks were queued for this day.
func (d *Day) HasPlanningActivity() bool { return len(d.tasks) > 0 }

// HasExecutionActivity reports whether any task was started or completed.
func (d *Day) HasExecutionActivity() bool {
	for _, t := range d.tasks {
		if t.StartedAt() != nil || t.IsCompleted() {
			return true
		}
	}
	return false
}

// HasCompletionActivity reports whether any task was completed.
func (d *Day) HasCompletionActivity() bool {
	for _, t := range d.tasks {
		if t.IsCompleted() {
			return true
		}
	}
	return false
}

// HasAnyActivity reports whether the day shows qualifying activity along
// any streak dimension.
func (d *Day) HasAnyActivity() bool {
	return d.HasPlanningActivity() || d.HasExecutionActivity() || d.HasCompletionActivity()
}

// evictLowest moves the numerically highest-ranked active task to the
// backlog, tagged "queue_overflow". Eviction is FIFO-by-rank, not by age.
func (d *Day) evictLowest(now time.Time) *BacklogItem {
	var lowest *Task
	for _, t := range d.tasks {
		if t.IsCompleted() {
			continue
		}
		if lowest == nil || t.rank > lowest.rank {
			lowest = t
		}
	}
	if lowest == nil {
		return nil
	}

	d.removeTask(lowest.ID())

	item := newBacklogItem(lowest.Description(), []string{"queue_overflow"}, SourceQueueOverflow, now)
	d.backlog = append(d.backlog, item)

	d.Reorder()
	d.AddDomainEvent(NewTaskEvicted(d.ID(), lowest.ID(), lowest.Description()))

	return item
}

func (d *Day) removeTask(id uuid.UUID) {
	for i, t := range d.tasks {
		if t.ID() == id {
			d.tasks = append(d.tasks[:i], d.tasks[i+1:]...)
			return
		}
	}
}

func (d *Day) removeBacklogItem(id uuid.UUID) {
	for i, b := range d.backlog {
		if b.ID() == id {
			d.backlog = append(d.backlog[:i], d.backlog[i+1:]...)
			return
		}
	}
}

// RehydrateDay recreates a day from persisted state without events.
func RehydrateDay(
	id uuid.UUID,
	date time.Time,
	tasks []*Task,
	backlog []*BacklogItem,
	createdAt, updatedAt time.Time,
) *Day {
	return &Day{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		date:    date,
		tasks:   tasks,
		backlog: backlog,
	}
}
