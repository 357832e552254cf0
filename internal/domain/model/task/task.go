package task

import (
	"errors"
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

// Item is the common read interface for all task types (TASK, EPIC, SUBTASK)
type Item interface {
	// ID returns the unique identifier
	ID() model.TaskID

	// Type returns the task type
	Type() model.TaskType

	// Name returns the task name
	Name() string

	// Description returns the task description
	Description() string

	// Status returns the current status
	Status() model.Status

	// Window returns the scheduled time window
	Window() model.TimeWindow

	// End returns the end time, false when unscheduled
	End() (time.Time, bool)

	// CloneItem returns a deep copy
	CloneItem() Item
}

// BaseTask contains common fields and behavior for all task types
type BaseTask struct {
	id          model.TaskID
	taskType    model.TaskType
	name        string
	description string
	status      model.Status
	window      model.TimeWindow
}

// NewBaseTask creates a new base task without an id
func NewBaseTask(
	taskType model.TaskType,
	name string,
	description string,
	status model.Status,
	window model.TimeWindow,
) (BaseTask, error) {
	if !taskType.IsValid() {
		return BaseTask{}, errors.New("invalid task type")
	}
	if status == "" {
		status = model.StatusNew
	}
	if !status.IsValid() {
		return BaseTask{}, errors.New("invalid status: " + status.String())
	}

	return BaseTask{
		taskType:    taskType,
		name:        name,
		description: description,
		status:      status,
		window:      window,
	}, nil
}

// ReconstructBaseTask reconstructs a base task from stored data
func ReconstructBaseTask(
	id model.TaskID,
	taskType model.TaskType,
	name string,
	description string,
	status model.Status,
	window model.TimeWindow,
) BaseTask {
	return BaseTask{
		id:          id,
		taskType:    taskType,
		name:        name,
		description: description,
		status:      status,
		window:      window,
	}
}

// ID returns the task ID
func (b *BaseTask) ID() model.TaskID {
	return b.id
}

// Type returns the task type
func (b *BaseTask) Type() model.TaskType {
	return b.taskType
}

// Name returns the name
func (b *BaseTask) Name() string {
	return b.name
}

// Description returns the description
func (b *BaseTask) Description() string {
	return b.description
}

// Status returns the current status
func (b *BaseTask) Status() model.Status {
	return b.status
}

// Window returns the time window
func (b *BaseTask) Window() model.TimeWindow {
	return b.window
}

// End returns start + duration
func (b *BaseTask) End() (time.Time, bool) {
	return b.window.End()
}

// AssignID sets the identifier. Called by the store on insert.
func (b *BaseTask) AssignID(id model.TaskID) {
	b.id = id
}

// UpdateName replaces the name
func (b *BaseTask) UpdateName(name string) {
	b.name = name
}

// UpdateDescription replaces the description
func (b *BaseTask) UpdateDescription(description string) {
	b.description = description
}

// UpdateStatus sets a new status. Any valid status may follow any other.
func (b *BaseTask) UpdateStatus(newStatus model.Status) error {
	if !newStatus.IsValid() {
		return errors.New("invalid status: " + newStatus.String())
	}
	b.status = newStatus
	return nil
}

// Reschedule replaces the time window
func (b *BaseTask) Reschedule(window model.TimeWindow) {
	b.window = window
}

// Task is a standalone unit of work
type Task struct {
	BaseTask
}

// NewTask creates a new task. The id is assigned when the task is added to a store.
func NewTask(name, description string, status model.Status, window model.TimeWindow) (*Task, error) {
	base, err := NewBaseTask(model.TaskTypeTask, name, description, status, window)
	if err != nil {
		return nil, err
	}
	return &Task{BaseTask: base}, nil
}

// ReconstructTask reconstructs a task from stored data
func ReconstructTask(id model.TaskID, name, description string, status model.Status, window model.TimeWindow) *Task {
	return &Task{
		BaseTask: ReconstructBaseTask(id, model.TaskTypeTask, name, description, status, window),
	}
}

// Type always returns TASK
func (t *Task) Type() model.TaskType {
	return model.TaskTypeTask
}

// Clone returns a copy of the task
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// CloneItem implements Item
func (t *Task) CloneItem() Item {
	return t.Clone()
}
