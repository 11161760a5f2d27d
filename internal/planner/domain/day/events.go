package day

import (
	sharedDomain "github.com/felixgeelhaar/daybook/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Day"

	RoutingKeyTaskQueued    = "planner.task.queued"
	RoutingKeyTaskEvicted   = "planner.task.evicted"
	RoutingKeyTaskPromoted  = "planner.task.promoted"
	RoutingKeyTaskDemoted   = "planner.task.demoted"
	RoutingKeyTaskCompleted = "planner.task.completed"
	RoutingKeyRolledOver    = "planner.day.rolled_over"
)

// TaskQueued is emitted when a task enters the active queue.
type TaskQueued struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	Description string    `json:"description"`
	Rank        int       `json:"rank"`
}

// NewTaskQueued creates a TaskQueued event.
func NewTaskQueued(dayID, taskID uuid.UUID, description string, rank int) TaskQueued {
	return TaskQueued{
		BaseEvent:   sharedDomain.NewBaseEvent(dayID, AggregateType, RoutingKeyTaskQueued),
		TaskID:      taskID,
		Description: description,
		Rank:        rank,
	}
}

// TaskEvicted is emitted when a full queue pushes its lowest-ranked task
// to the backlog.
type TaskEvicted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	Description string    `json:"description"`
}

// NewTaskEvicted creates a TaskEvicted event.
func NewTaskEvicted(dayID, taskID uuid.UUID, description string) TaskEvicted {
	return TaskEvicted{
		BaseEvent:   sharedDomain.NewBaseEvent(dayID, AggregateType, RoutingKeyTaskEvicted),
		TaskID:      taskID,
		Description: description,
	}
}

// TaskPromoted is emitted when a backlog item joins the active queue.
type TaskPromoted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	Description string    `json:"description"`
	Rank        int       `json:"rank"`
}

// NewTaskPromoted creates a TaskPromoted event.
func NewTaskPromoted(dayID, taskID uuid.UUID, description string, rank int) TaskPromoted {
	return TaskPromoted{
		BaseEvent:   sharedDomain.NewBaseEvent(dayID, AggregateType, RoutingKeyTaskPromoted),
		TaskID:      taskID,
		Description: description,
		Rank:        rank,
	}
}

// TaskDemoted is emitted when an active task is moved back to the backlog.
type TaskDemoted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	Description string    `json:"description"`
}

// NewTaskDemoted creates a TaskDemoted event.
func NewTaskDemoted(dayID, taskID uuid.UUID, description string) TaskDemoted {
	return TaskDemoted{
		BaseEvent:   sharedDomain.NewBaseEvent(dayID, AggregateType, RoutingKeyTaskDemoted),
		TaskID:      taskID,
		Description: description,
	}
}

// TaskCompleted is emitted when a task is marked done.
type TaskCompleted struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	Description string    `json:"description"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(dayID, taskID uuid.UUID, description string) TaskCompleted {
	return TaskCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(dayID, AggregateType, RoutingKeyTaskCompleted),
		TaskID:      taskID,
		Description: description,
	}
}

// DayRolledOver is emitted on the target day after a rollover.
type DayRolledOver struct {
	sharedDomain.BaseEvent
	SourceDayID uuid.UUID `json:"source_day_id"`
	RolledOver  int       `json:"rolled_over"`
	Backlogged  int       `json:"backlogged"`
}

// NewDayRolledOver creates a DayRolledOver event.
func NewDayRolledOver(targetDayID, sourceDayID uuid.UUID, rolledOver, backlogged int) DayRolledOver {
	return DayRolledOver{
		BaseEvent:   sharedDomain.NewBaseEvent(targetDayID, AggregateType, RoutingKeyRolledOver),
		SourceDayID: sourceDayID,
		RolledOver:  rolledOver,
		Backlogged:  backlogged,
	}
}
