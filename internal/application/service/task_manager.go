package service

import (
	"fmt"
	"maps"
	"slices"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/history"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/schedule"
)

// TaskManager is the in-memory store of tasks, epics and subtasks.
//
// It assigns ids, keeps epic status and time span derived from subtasks,
// rejects overlapping time windows and records by-id views in a bounded
// history. Entities passed in are copied and reads return copies.
//
// TaskManager is not safe for concurrent use; see PersistentTaskManager.
type TaskManager struct {
	nextID   model.TaskID
	tasks    map[model.TaskID]*task.Task
	epics    map[model.TaskID]*epic.Epic
	subtasks map[model.TaskID]*subtask.Subtask
	index    *schedule.PrioritizedIndex
	history  *history.Tracker
}

// NewTaskManager creates an empty store whose history holds at most
// historyCapacity entries (non-positive means history.DefaultCapacity)
func NewTaskManager(historyCapacity int) *TaskManager {
	return &TaskManager{
		nextID:   1,
		tasks:    make(map[model.TaskID]*task.Task),
		epics:    make(map[model.TaskID]*epic.Epic),
		subtasks: make(map[model.TaskID]*subtask.Subtask),
		index:    schedule.NewPrioritizedIndex(),
		history:  history.NewTracker(historyCapacity),
	}
}

func (m *TaskManager) generateID() model.TaskID {
	id := m.nextID
	m.nextID++
	return id
}

// ==================== Add ====================

// AddTask stores a copy of t under a new id and sets that id on t.
// The id counter advances even when validation fails.
func (m *TaskManager) AddTask(t *task.Task) (model.TaskID, error) {
	if t == nil {
		return 0, &model.ValidationError{Reason: "task is nil"}
	}
	id := m.generateID()

	stored := t.Clone()
	stored.AssignID(id)
	if err := m.index.CheckOverlap(stored); err != nil {
		return 0, err
	}

	m.tasks[id] = stored
	m.index.Insert(stored)
	t.AssignID(id)
	return id, nil
}

// AddEpic stores a copy of e under a new id and sets that id on e.
// The stored epic starts with no subtasks, status NEW and no time span.
func (m *TaskManager) AddEpic(e *epic.Epic) (model.TaskID, error) {
	if e == nil {
		return 0, &model.ValidationError{Reason: "epic is nil"}
	}
	if e.HasSubtask(e.ID()) {
		return 0, &model.LinkageError{ID: e.ID(), EpicID: e.ID(), Reason: "epic lists itself as a subtask"}
	}
	id := m.generateID()

	stored := e.Clone()
	stored.AssignID(id)
	stored.ClearSubtaskIDs()
	stored.Recompute(nil)

	m.epics[id] = stored
	e.AssignID(id)
	return id, nil
}

// AddSubtask stores a copy of s under a new id, links it to its epic and
// recomputes that epic. An unknown epic is rejected before an id is drawn.
func (m *TaskManager) AddSubtask(s *subtask.Subtask) (model.TaskID, error) {
	if s == nil {
		return 0, &model.ValidationError{Reason: "subtask is nil"}
	}
	epicID := s.EpicID()
	owner, ok := m.epics[epicID]
	if !ok {
		return 0, &model.LinkageError{ID: s.ID(), EpicID: epicID, Reason: "epic does not exist"}
	}

	id := m.generateID()
	if id == epicID {
		return 0, &model.LinkageError{ID: id, EpicID: epicID, Reason: "subtask references itself as epic"}
	}

	stored := s.Clone()
	stored.AssignID(id)
	if err := m.index.CheckOverlap(stored); err != nil {
		return 0, err
	}

	m.subtasks[id] = stored
	m.index.Insert(stored)
	owner.AddSubtaskID(id)
	m.recompute(owner)
	s.AssignID(id)
	return id, nil
}

// ==================== Update ====================

// UpdateTask replaces the stored task with the same id.
// Unknown ids are ignored.
func (m *TaskManager) UpdateTask(t *task.Task) error {
	if t == nil {
		return nil
	}
	if _, ok := m.tasks[t.ID()]; !ok {
		return nil
	}

	stored := t.Clone()
	if err := m.index.CheckOverlap(stored); err != nil {
		return err
	}

	m.tasks[stored.ID()] = stored
	m.index.Replace(stored)
	return nil
}

// UpdateEpic applies the name and description of e to the stored epic.
// Subtask ids, status and time span stay derived. Unknown ids are ignored.
func (m *TaskManager) UpdateEpic(e *epic.Epic) error {
	if e == nil {
		return nil
	}
	stored, ok := m.epics[e.ID()]
	if !ok {
		return nil
	}

	stored.UpdateName(e.Name())
	stored.UpdateDescription(e.Description())
	m.recompute(stored)
	return nil
}

// UpdateSubtask replaces the stored subtask with the same id.
// Unknown subtask or epic ids are ignored. When the epic id changed the
// subtask moves to the new epic and both epics are recomputed.
func (m *TaskManager) UpdateSubtask(s *subtask.Subtask) error {
	if s == nil {
		return nil
	}
	prev, ok := m.subtasks[s.ID()]
	if !ok {
		return nil
	}
	owner, ok := m.epics[s.EpicID()]
	if !ok {
		return nil
	}

	stored := s.Clone()
	if err := m.index.CheckOverlap(stored); err != nil {
		return err
	}

	if prev.EpicID() != stored.EpicID() {
		if old, ok := m.epics[prev.EpicID()]; ok {
			old.RemoveSubtaskID(stored.ID())
			m.recompute(old)
		}
		owner.AddSubtaskID(stored.ID())
	}

	m.subtasks[stored.ID()] = stored
	m.index.Replace(stored)
	m.recompute(owner)
	return nil
}

// ==================== Delete ====================

// DeleteTask removes a task. Unknown ids are ignored.
func (m *TaskManager) DeleteTask(id model.TaskID) {
	if _, ok := m.tasks[id]; !ok {
		return
	}
	delete(m.tasks, id)
	m.index.Remove(id)
	m.history.Remove(id)
}

// DeleteEpic removes an epic together with all of its subtasks.
// Unknown ids are ignored.
func (m *TaskManager) DeleteEpic(id model.TaskID) {
	e, ok := m.epics[id]
	if !ok {
		return
	}
	for _, sid := range e.SubtaskIDs() {
		m.dropSubtask(sid)
	}
	delete(m.epics, id)
	m.history.Remove(id)
}

// DeleteSubtask removes a subtask, detaches it from its epic and
// recomputes the epic. Unknown ids are ignored.
func (m *TaskManager) DeleteSubtask(id model.TaskID) {
	s, ok := m.subtasks[id]
	if !ok {
		return
	}
	m.dropSubtask(id)
	if owner, ok := m.epics[s.EpicID()]; ok {
		owner.RemoveSubtaskID(id)
		m.recompute(owner)
	}
}

func (m *TaskManager) dropSubtask(id model.TaskID) {
	if _, ok := m.subtasks[id]; !ok {
		return
	}
	delete(m.subtasks, id)
	m.index.Remove(id)
	m.history.Remove(id)
}

// ClearTasks removes every task
func (m *TaskManager) ClearTasks() {
	for id := range m.tasks {
		m.history.Remove(id)
	}
	m.tasks = make(map[model.TaskID]*task.Task)
	m.index.RemoveIf(func(it task.Item) bool { return it.Type() == model.TaskTypeTask })
}

// ClearEpics removes every epic and, like DeleteEpic, every subtask
func (m *TaskManager) ClearEpics() {
	m.clearSubtaskMap()
	for id := range m.epics {
		m.history.Remove(id)
	}
	m.epics = make(map[model.TaskID]*epic.Epic)
}

// ClearSubtasks removes every subtask and resets all epics to NEW with
// no time span
func (m *TaskManager) ClearSubtasks() {
	m.clearSubtaskMap()
	for _, e := range m.epics {
		e.ClearSubtaskIDs()
		m.recompute(e)
	}
}

func (m *TaskManager) clearSubtaskMap() {
	for id := range m.subtasks {
		m.history.Remove(id)
	}
	m.subtasks = make(map[model.TaskID]*subtask.Subtask)
	m.index.RemoveIf(func(it task.Item) bool { return it.Type() == model.TaskTypeSubtask })
}

// ==================== Get by id ====================

// Task returns a copy of the task and records the view in history
func (m *TaskManager) Task(id model.TaskID) (*task.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, &model.NotFoundError{Type: model.TaskTypeTask, ID: id}
	}
	m.history.Add(t.Clone())
	return t.Clone(), nil
}

// Epic returns a copy of the epic and records the view in history
func (m *TaskManager) Epic(id model.TaskID) (*epic.Epic, error) {
	e, ok := m.epics[id]
	if !ok {
		return nil, &model.NotFoundError{Type: model.TaskTypeEpic, ID: id}
	}
	m.history.Add(e.Clone())
	return e.Clone(), nil
}

// Subtask returns a copy of the subtask and records the view in history
func (m *TaskManager) Subtask(id model.TaskID) (*subtask.Subtask, error) {
	s, ok := m.subtasks[id]
	if !ok {
		return nil, &model.NotFoundError{Type: model.TaskTypeSubtask, ID: id}
	}
	m.history.Add(s.Clone())
	return s.Clone(), nil
}

// Get looks up an entity of the given kind, like Task, Epic and Subtask
func (m *TaskManager) Get(kind model.TaskType, id model.TaskID) (task.Item, error) {
	switch kind {
	case model.TaskTypeTask:
		t, err := m.Task(id)
		if err != nil {
			return nil, err
		}
		return t, nil
	case model.TaskTypeEpic:
		e, err := m.Epic(id)
		if err != nil {
			return nil, err
		}
		return e, nil
	case model.TaskTypeSubtask:
		s, err := m.Subtask(id)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown task type %q: %w", kind, model.ErrInvalid)
	}
}

// ==================== Read-only views ====================

// Tasks returns copies of all tasks ordered by id
func (m *TaskManager) Tasks() []*task.Task {
	result := make([]*task.Task, 0, len(m.tasks))
	for _, id := range slices.Sorted(maps.Keys(m.tasks)) {
		result = append(result, m.tasks[id].Clone())
	}
	return result
}

// Epics returns copies of all epics ordered by id
func (m *TaskManager) Epics() []*epic.Epic {
	result := make([]*epic.Epic, 0, len(m.epics))
	for _, id := range slices.Sorted(maps.Keys(m.epics)) {
		result = append(result, m.epics[id].Clone())
	}
	return result
}

// Subtasks returns copies of all subtasks ordered by id
func (m *TaskManager) Subtasks() []*subtask.Subtask {
	result := make([]*subtask.Subtask, 0, len(m.subtasks))
	for _, id := range slices.Sorted(maps.Keys(m.subtasks)) {
		result = append(result, m.subtasks[id].Clone())
	}
	return result
}

// SubtasksOf returns copies of an epic's subtasks in the epic's order.
// It does not record history.
func (m *TaskManager) SubtasksOf(epicID model.TaskID) ([]*subtask.Subtask, error) {
	e, ok := m.epics[epicID]
	if !ok {
		return nil, &model.NotFoundError{Type: model.TaskTypeEpic, ID: epicID}
	}
	return m.resolve(e, true), nil
}

// Prioritized returns copies of all tasks and subtasks ordered by start time
func (m *TaskManager) Prioritized() []task.Item {
	return m.index.Items()
}

// History returns copies of the recently viewed entities, oldest first
func (m *TaskManager) History() []task.Item {
	viewed := m.history.History()
	result := make([]task.Item, 0, len(viewed))
	for _, it := range viewed {
		result = append(result, it.CloneItem())
	}
	return result
}

// ==================== Snapshot ====================

// Snapshot copies every entity
func (m *TaskManager) Snapshot() *repository.Snapshot {
	return &repository.Snapshot{
		Tasks:    m.Tasks(),
		Epics:    m.Epics(),
		Subtasks: m.Subtasks(),
	}
}

// Restore replaces the whole state with the snapshot, bypassing id
// generation and validation. Epic subtask lists are rebuilt from the
// subtasks, subtasks whose epic is missing are dropped, every epic is
// recomputed and history is cleared. The next id is max(id)+1.
//
// Zero or duplicate ids fail the restore and leave the state unchanged.
func (m *TaskManager) Restore(s *repository.Snapshot) error {
	fresh := NewTaskManager(m.history.Capacity())
	if s == nil {
		*m = *fresh
		return nil
	}

	seen := make(map[model.TaskID]bool, s.Len())
	claim := func(kind model.TaskType, id model.TaskID) error {
		if id <= 0 {
			return fmt.Errorf("restore %s: invalid id %d: %w", kind, id, model.ErrInvalid)
		}
		if seen[id] {
			return fmt.Errorf("restore %s: duplicate id %d: %w", kind, id, model.ErrInvalid)
		}
		seen[id] = true
		if id >= fresh.nextID {
			fresh.nextID = id + 1
		}
		return nil
	}

	for _, t := range s.Tasks {
		if err := claim(model.TaskTypeTask, t.ID()); err != nil {
			return err
		}
		c := t.Clone()
		fresh.tasks[c.ID()] = c
		fresh.index.Insert(c)
	}
	for _, e := range s.Epics {
		if err := claim(model.TaskTypeEpic, e.ID()); err != nil {
			return err
		}
		c := e.Clone()
		c.ClearSubtaskIDs()
		fresh.epics[c.ID()] = c
	}
	for _, st := range s.Subtasks {
		if err := claim(model.TaskTypeSubtask, st.ID()); err != nil {
			return err
		}
		owner, ok := fresh.epics[st.EpicID()]
		if !ok {
			continue
		}
		c := st.Clone()
		fresh.subtasks[c.ID()] = c
		fresh.index.Insert(c)
		owner.AddSubtaskID(c.ID())
	}
	for _, e := range fresh.epics {
		fresh.recompute(e)
	}

	*m = *fresh
	return nil
}

// ==================== Epic derivation ====================

// recompute refreshes the derived fields of e from its own subtasks
func (m *TaskManager) recompute(e *epic.Epic) {
	e.Recompute(m.resolve(e, false))
}

// resolve maps the subtask ids of e to stored subtasks, skipping ids
// that no longer resolve
func (m *TaskManager) resolve(e *epic.Epic, clone bool) []*subtask.Subtask {
	ids := e.SubtaskIDs()
	result := make([]*subtask.Subtask, 0, len(ids))
	for _, id := range ids {
		s, ok := m.subtasks[id]
		if !ok {
			continue
		}
		if clone {
			s = s.Clone()
		}
		result = append(result, s)
	}
	return result
}

// NextID returns the id the next add will draw
func (m *TaskManager) NextID() model.TaskID {
	return m.nextID
}
