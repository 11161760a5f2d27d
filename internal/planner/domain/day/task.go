package day

import (
	"errors"
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/daybook/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrEmptyDescription    = errors.New("task description cannot be empty")
	ErrTaskNotFound        = errors.New("task is not in the active queue")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrBacklogItemNotFound = errors.New("backlog item not found")
)

// DefaultEstimate is the duration assumed for a task before any learning.
const DefaultEstimate = time.Hour

// Task is a single prioritized unit of work owned by exactly one Day.
// While active its rank is in 1..MaxActiveTasks; once completed the rank
// carries no meaning.
type Task struct {
	sharedDomain.BaseEntity
	description       string
	rank              int
	reasoning         string
	completed         bool
	completedAt       *time.Time
	startedAt         *time.Time
	estimatedDuration time.Duration
	actualDuration    time.Duration // zero until derived at completion
	rolledFromDayID   *uuid.UUID
}

func newTask(description, reasoning string, rank int) (*Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}
	return &Task{
		BaseEntity:        sharedDomain.NewBaseEntity(),
		description:       description,
		rank:              rank,
		reasoning:         strings.TrimSpace(reasoning),
		estimatedDuration: DefaultEstimate,
	}, nil
}

// Getters

func (t *Task) Description() string               { return t.description }
func (t *Task) Rank() int                         { return t.rank }
func (t *Task) Reasoning() string                 { return t.reasoning }
func (t *Task) IsCompleted() bool                 { return t.completed }
func (t *Task) CompletedAt() *time.Time           { return t.completedAt }
func (t *Task) StartedAt() *time.Time             { return t.startedAt }
func (t *Task) EstimatedDuration() time.Duration  { return t.estimatedDuration }
func (t *Task) ActualDuration() time.Duration     { return t.actualDuration }
func (t *Task) RolledFromDayID() *uuid.UUID       { return t.rolledFromDayID }

// SetEstimatedDuration overrides the duration estimate for this task.
func (t *Task) SetEstimatedDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	t.estimatedDuration = d
	t.Touch()
}

// SetReasoning updates the why-this-rank note.
func (t *Task) SetReasoning(reasoning string) {
	t.reasoning = strings.TrimSpace(reasoning)
	t.Touch()
}

func (t *Task) start(now time.Time) {
	if t.startedAt != nil {
		return // idempotent
	}
	started := now
	t.startedAt = &started
	t.Touch()
}

func (t *Task) complete(now time.Time) error {
	if t.completed {
		return ErrTaskAlreadyComplete
	}
	completed := now
	t.completed = true
	t.completedAt = &completed
	if t.startedAt != nil {
		t.actualDuration = now.Sub(*t.startedAt)
	}
	t.Touch()
	return nil
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(
	id uuid.UUID,
	description string,
	rank int,
	reasoning string,
	completed bool,
	completedAt *time.Time,
	startedAt *time.Time,
	estimatedDuration time.Duration,
	actualDuration time.Duration,
	rolledFromDayID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseEntity:        sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		description:       description,
		rank:              rank,
		reasoning:         reasoning,
		completed:         completed,
		completedAt:       completedAt,
		startedAt:         startedAt,
		estimatedDuration: estimatedDuration,
		actualDuration:    actualDuration,
		rolledFromDayID:   rolledFromDayID,
	}
}
