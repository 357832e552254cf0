package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// ErrSnapshotNotFound is returned by Load when nothing has been saved yet
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository persists the whole task store at once
type SnapshotRepository interface {
	// Save replaces the stored snapshot. A failed save must leave the
	// previous snapshot readable.
	Save(ctx context.Context, s *Snapshot) error

	// Load reads the stored snapshot.
	// Returns ErrSnapshotNotFound when nothing was saved yet.
	Load(ctx context.Context) (*Snapshot, error)
}

// Snapshot is a point-in-time copy of every entity in the store.
// Each slice is ordered by id.
type Snapshot struct {
	Tasks    []*task.Task
	Epics    []*epic.Epic
	Subtasks []*subtask.Subtask
}

// Len returns the total number of entities
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Tasks) + len(s.Epics) + len(s.Subtasks)
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := &Snapshot{
		Tasks:    make([]*task.Task, 0, len(s.Tasks)),
		Epics:    make([]*epic.Epic, 0, len(s.Epics)),
		Subtasks: make([]*subtask.Subtask, 0, len(s.Subtasks)),
	}
	for _, t := range s.Tasks {
		c.Tasks = append(c.Tasks, t.Clone())
	}
	for _, e := range s.Epics {
		c.Epics = append(c.Epics, e.Clone())
	}
	for _, st := range s.Subtasks {
		c.Subtasks = append(c.Subtasks, st.Clone())
	}
	return c
}

// PersistenceError wraps a failure of the snapshot backend
type PersistenceError struct {
	Op  string // "save" or "load"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewSaveError wraps err as a save failure
func NewSaveError(err error) error {
	return &PersistenceError{Op: "save", Err: err}
}

// NewLoadError wraps err as a load failure
func NewLoadError(err error) error {
	return &PersistenceError{Op: "load", Err: err}
}
