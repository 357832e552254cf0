package service

import (
	"context"
	"errors"
	"sync"

	"github.com/YoshitsuguKoike/taskplan/internal/app"
	"github.com/YoshitsuguKoike/taskplan/internal/application/port/input"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

var _ input.TaskUseCase = (*PersistentTaskManager)(nil)

// PersistentTaskManager serializes access to a TaskManager and saves a
// snapshot after every successful mutation.
//
// By-id reads take the same lock as writes because they record history.
// A failed save is reported as *repository.PersistenceError while the
// in-memory change stays applied.
type PersistentTaskManager struct {
	mu      sync.Mutex
	manager *TaskManager
	repo    repository.SnapshotRepository // nil means memory only
	logger  app.Logger
}

// NewPersistentTaskManager wraps manager. repo may be nil.
func NewPersistentTaskManager(manager *TaskManager, repo repository.SnapshotRepository, logger app.Logger) *PersistentTaskManager {
	return &PersistentTaskManager{
		manager: manager,
		repo:    repo,
		logger:  app.OrDefault(logger),
	}
}

// Load replaces the in-memory state with the stored snapshot.
// A missing snapshot yields an empty store.
func (p *PersistentTaskManager) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.repo == nil {
		return nil
	}

	snap, err := p.repo.Load(ctx)
	if errors.Is(err, repository.ErrSnapshotNotFound) {
		p.logger.Info("no snapshot found, starting with an empty store")
		return p.manager.Restore(nil)
	}
	if err != nil {
		return asPersistenceError("load", err)
	}

	if err := p.manager.Restore(snap); err != nil {
		return repository.NewLoadError(err)
	}
	p.logger.Info("loaded snapshot: %d tasks, %d epics, %d subtasks",
		len(snap.Tasks), len(snap.Epics), len(snap.Subtasks))
	return nil
}

// Snapshot returns a consistent copy of the whole store
func (p *PersistentTaskManager) Snapshot(ctx context.Context) (*repository.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Snapshot(), nil
}

// save must be called with the lock held
func (p *PersistentTaskManager) save(ctx context.Context) error {
	if p.repo == nil {
		return nil
	}
	if err := p.repo.Save(ctx, p.manager.Snapshot()); err != nil {
		p.logger.Error("failed to save snapshot: %v", err)
		return asPersistenceError("save", err)
	}
	p.logger.Debug("snapshot saved")
	return nil
}

func asPersistenceError(op string, err error) error {
	var perr *repository.PersistenceError
	if errors.As(err, &perr) {
		return err
	}
	return &repository.PersistenceError{Op: op, Err: err}
}

// ==================== Mutations ====================

// AddTask implements input.TaskUseCase
func (p *PersistentTaskManager) AddTask(ctx context.Context, t *task.Task) (model.TaskID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.manager.AddTask(t)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("task %d added", id)
	return id, p.save(ctx)
}

// AddEpic implements input.TaskUseCase
func (p *PersistentTaskManager) AddEpic(ctx context.Context, e *epic.Epic) (model.TaskID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.manager.AddEpic(e)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("epic %d added", id)
	return id, p.save(ctx)
}

// AddSubtask implements input.TaskUseCase
func (p *PersistentTaskManager) AddSubtask(ctx context.Context, s *subtask.Subtask) (model.TaskID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.manager.AddSubtask(s)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("subtask %d added to epic %d", id, s.EpicID())
	return id, p.save(ctx)
}

// UpdateTask implements input.TaskUseCase
func (p *PersistentTaskManager) UpdateTask(ctx context.Context, t *task.Task) error {
	return p.mutate(ctx, func(m *TaskManager) error { return m.UpdateTask(t) })
}

// UpdateEpic implements input.TaskUseCase
func (p *PersistentTaskManager) UpdateEpic(ctx context.Context, e *epic.Epic) error {
	return p.mutate(ctx, func(m *TaskManager) error { return m.UpdateEpic(e) })
}

// UpdateSubtask implements input.TaskUseCase
func (p *PersistentTaskManager) UpdateSubtask(ctx context.Context, s *subtask.Subtask) error {
	return p.mutate(ctx, func(m *TaskManager) error { return m.UpdateSubtask(s) })
}

// DeleteTask implements input.TaskUseCase
func (p *PersistentTaskManager) DeleteTask(ctx context.Context, id model.TaskID) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.DeleteTask(id); return nil })
}

// DeleteEpic implements input.TaskUseCase
func (p *PersistentTaskManager) DeleteEpic(ctx context.Context, id model.TaskID) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.DeleteEpic(id); return nil })
}

// DeleteSubtask implements input.TaskUseCase
func (p *PersistentTaskManager) DeleteSubtask(ctx context.Context, id model.TaskID) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.DeleteSubtask(id); return nil })
}

// ClearTasks implements input.TaskUseCase
func (p *PersistentTaskManager) ClearTasks(ctx context.Context) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.ClearTasks(); return nil })
}

// ClearEpics implements input.TaskUseCase
func (p *PersistentTaskManager) ClearEpics(ctx context.Context) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.ClearEpics(); return nil })
}

// ClearSubtasks implements input.TaskUseCase
func (p *PersistentTaskManager) ClearSubtasks(ctx context.Context) error {
	return p.mutate(ctx, func(m *TaskManager) error { m.ClearSubtasks(); return nil })
}

func (p *PersistentTaskManager) mutate(ctx context.Context, fn func(*TaskManager) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := fn(p.manager); err != nil {
		return err
	}
	return p.save(ctx)
}

// ==================== Reads ====================

// GetTask implements input.TaskUseCase
func (p *PersistentTaskManager) GetTask(ctx context.Context, id model.TaskID) (*task.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Task(id)
}

// GetEpic implements input.TaskUseCase
func (p *PersistentTaskManager) GetEpic(ctx context.Context, id model.TaskID) (*epic.Epic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Epic(id)
}

// GetSubtask implements input.TaskUseCase
func (p *PersistentTaskManager) GetSubtask(ctx context.Context, id model.TaskID) (*subtask.Subtask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Subtask(id)
}

// ListTasks implements input.TaskUseCase
func (p *PersistentTaskManager) ListTasks(ctx context.Context) ([]*task.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Tasks(), nil
}

// ListEpics implements input.TaskUseCase
func (p *PersistentTaskManager) ListEpics(ctx context.Context) ([]*epic.Epic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Epics(), nil
}

// ListSubtasks implements input.TaskUseCase
func (p *PersistentTaskManager) ListSubtasks(ctx context.Context) ([]*subtask.Subtask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Subtasks(), nil
}

// ListEpicSubtasks implements input.TaskUseCase
func (p *PersistentTaskManager) ListEpicSubtasks(ctx context.Context, epicID model.TaskID) ([]*subtask.Subtask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.SubtasksOf(epicID)
}

// Prioritized implements input.TaskUseCase
func (p *PersistentTaskManager) Prioritized(ctx context.Context) ([]task.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.Prioritized(), nil
}

// History implements input.TaskUseCase
func (p *PersistentTaskManager) History(ctx context.Context) ([]task.Item, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager.History(), nil
}
