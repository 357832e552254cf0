package subtask

import (
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// Subtask is a unit of work owned by exactly one epic.
// The link to the epic is a plain id; the epic keeps the reverse list.
type Subtask struct {
	task.BaseTask
	epicID model.TaskID
}

// NewSubtask creates a new subtask for the given epic
func NewSubtask(epicID model.TaskID, name, description string, status model.Status, window model.TimeWindow) (*Subtask, error) {
	base, err := task.NewBaseTask(model.TaskTypeSubtask, name, description, status, window)
	if err != nil {
		return nil, err
	}
	return &Subtask{BaseTask: base, epicID: epicID}, nil
}

// ReconstructSubtask reconstructs a subtask from stored data
func ReconstructSubtask(
	id model.TaskID,
	epicID model.TaskID,
	name string,
	description string,
	status model.Status,
	window model.TimeWindow,
) *Subtask {
	return &Subtask{
		BaseTask: task.ReconstructBaseTask(id, model.TaskTypeSubtask, name, description, status, window),
		epicID:   epicID,
	}
}

// Type always returns SUBTASK
func (s *Subtask) Type() model.TaskType {
	return model.TaskTypeSubtask
}

// EpicID returns the owning epic id
func (s *Subtask) EpicID() model.TaskID {
	return s.epicID
}

// MoveToEpic changes the owning epic
func (s *Subtask) MoveToEpic(epicID model.TaskID) {
	s.epicID = epicID
}

// Clone returns a copy of the subtask
func (s *Subtask) Clone() *Subtask {
	c := *s
	return &c
}

// CloneItem implements task.Item
func (s *Subtask) CloneItem() task.Item {
	return s.Clone()
}
