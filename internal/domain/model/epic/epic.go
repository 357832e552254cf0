package epic

import (
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// Epic is a container of subtasks.
// Status and time span are derived from the subtasks by Recompute and
// cannot be set directly.
type Epic struct {
	base       task.BaseTask
	subtaskIDs []model.TaskID
	end        time.Time
}

// NewEpic creates a new epic with no subtasks
func NewEpic(name, description string) *Epic {
	return &Epic{
		base: task.ReconstructBaseTask(0, model.TaskTypeEpic, name, description, model.StatusNew, model.UnscheduledWindow(0)),
	}
}

// ReconstructEpic reconstructs an epic from stored data.
// The derived fields are kept as given until the next Recompute.
func ReconstructEpic(
	id model.TaskID,
	name string,
	description string,
	status model.Status,
	subtaskIDs []model.TaskID,
) *Epic {
	e := &Epic{
		base: task.ReconstructBaseTask(id, model.TaskTypeEpic, name, description, status, model.UnscheduledWindow(0)),
	}
	for _, sid := range subtaskIDs {
		e.AddSubtaskID(sid)
	}
	return e
}

// Implement task.Item
func (e *Epic) ID() model.TaskID {
	return e.base.ID()
}

func (e *Epic) Type() model.TaskType {
	return model.TaskTypeEpic
}

func (e *Epic) Name() string {
	return e.base.Name()
}

func (e *Epic) Description() string {
	return e.base.Description()
}

func (e *Epic) Status() model.Status {
	return e.base.Status()
}

func (e *Epic) Window() model.TimeWindow {
	return e.base.Window()
}

// End returns the latest end among the subtasks, which is not
// necessarily start + total duration.
func (e *Epic) End() (time.Time, bool) {
	if e.end.IsZero() {
		return time.Time{}, false
	}
	return e.end, true
}

// AssignID sets the identifier. Called by the store on insert.
func (e *Epic) AssignID(id model.TaskID) {
	e.base.AssignID(id)
}

// UpdateName replaces the name
func (e *Epic) UpdateName(name string) {
	e.base.UpdateName(name)
}

// UpdateDescription replaces the description
func (e *Epic) UpdateDescription(description string) {
	e.base.UpdateDescription(description)
}

// Epic-specific methods

// AddSubtaskID appends a subtask id, ignoring duplicates
func (e *Epic) AddSubtaskID(id model.TaskID) {
	if e.HasSubtask(id) {
		return
	}
	e.subtaskIDs = append(e.subtaskIDs, id)
}

// RemoveSubtaskID removes a subtask id and reports whether it was present
func (e *Epic) RemoveSubtaskID(id model.TaskID) bool {
	for i, sid := range e.subtaskIDs {
		if sid == id {
			e.subtaskIDs = append(e.subtaskIDs[:i], e.subtaskIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ClearSubtaskIDs drops every subtask id
func (e *Epic) ClearSubtaskIDs() {
	e.subtaskIDs = nil
}

// HasSubtask checks if the id is listed
func (e *Epic) HasSubtask(id model.TaskID) bool {
	for _, sid := range e.subtaskIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// SubtaskIDs returns the list of subtask ids in insertion order
func (e *Epic) SubtaskIDs() []model.TaskID {
	// Return a copy to prevent external modification
	result := make([]model.TaskID, len(e.subtaskIDs))
	copy(result, e.subtaskIDs)
	return result
}

// SubtaskCount returns the number of subtasks
func (e *Epic) SubtaskCount() int {
	return len(e.subtaskIDs)
}

// Recompute derives status and time span from the given subtasks.
// Callers pass the resolved subtasks of this epic; nil entries are skipped.
//
// Status: none or all NEW -> NEW, all DONE -> DONE, otherwise IN_PROGRESS.
// Span: earliest start, latest end and summed duration over subtasks that
// have a start time.
func (e *Epic) Recompute(subtasks []*subtask.Subtask) {
	var (
		resolved         int
		earliest, latest time.Time
		total            time.Duration
	)
	allNew, allDone := true, true

	for _, st := range subtasks {
		if st == nil {
			continue
		}
		resolved++

		switch st.Status() {
		case model.StatusNew:
			allDone = false
		case model.StatusDone:
			allNew = false
		default:
			allNew = false
			allDone = false
		}

		w := st.Window()
		if !w.HasStart() {
			continue
		}
		if earliest.IsZero() || w.Start().Before(earliest) {
			earliest = w.Start()
		}
		if end, _ := w.End(); latest.IsZero() || end.After(latest) {
			latest = end
		}
		total += w.Duration()
	}

	status := model.StatusInProgress
	switch {
	case resolved == 0 || allNew:
		status = model.StatusNew
	case allDone:
		status = model.StatusDone
	}

	e.base = task.ReconstructBaseTask(
		e.base.ID(), model.TaskTypeEpic, e.base.Name(), e.base.Description(),
		status, model.NewTimeWindow(earliest, total),
	)
	e.end = latest
}

// Clone returns a deep copy of the epic
func (e *Epic) Clone() *Epic {
	c := *e
	c.subtaskIDs = e.SubtaskIDs()
	return &c
}

// CloneItem implements task.Item
func (e *Epic) CloneItem() task.Item {
	return e.Clone()
}
