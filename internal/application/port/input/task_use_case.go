package input

import (
	"context"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// TaskUseCase defines the task store operations consumed by the HTTP and CLI layers
type TaskUseCase interface {
	// AddTask creates a task and returns its id
	AddTask(ctx context.Context, t *task.Task) (model.TaskID, error)

	// AddEpic creates an epic and returns its id
	AddEpic(ctx context.Context, e *epic.Epic) (model.TaskID, error)

	// AddSubtask creates a subtask under its epic and returns its id
	AddSubtask(ctx context.Context, s *subtask.Subtask) (model.TaskID, error)

	// UpdateTask replaces a task by id
	UpdateTask(ctx context.Context, t *task.Task) error

	// UpdateEpic replaces the name and description of an epic
	UpdateEpic(ctx context.Context, e *epic.Epic) error

	// UpdateSubtask replaces a subtask by id
	UpdateSubtask(ctx context.Context, s *subtask.Subtask) error

	// DeleteTask deletes a task
	DeleteTask(ctx context.Context, id model.TaskID) error

	// DeleteEpic deletes an epic and its subtasks
	DeleteEpic(ctx context.Context, id model.TaskID) error

	// DeleteSubtask deletes a subtask
	DeleteSubtask(ctx context.Context, id model.TaskID) error

	// ClearTasks deletes every task
	ClearTasks(ctx context.Context) error

	// ClearEpics deletes every epic and subtask
	ClearEpics(ctx context.Context) error

	// ClearSubtasks deletes every subtask
	ClearSubtasks(ctx context.Context) error

	// GetTask retrieves a task by id and records the view
	GetTask(ctx context.Context, id model.TaskID) (*task.Task, error)

	// GetEpic retrieves an epic by id and records the view
	GetEpic(ctx context.Context, id model.TaskID) (*epic.Epic, error)

	// GetSubtask retrieves a subtask by id and records the view
	GetSubtask(ctx context.Context, id model.TaskID) (*subtask.Subtask, error)

	// ListTasks lists all tasks by id
	ListTasks(ctx context.Context) ([]*task.Task, error)

	// ListEpics lists all epics by id
	ListEpics(ctx context.Context) ([]*epic.Epic, error)

	// ListSubtasks lists all subtasks by id
	ListSubtasks(ctx context.Context) ([]*subtask.Subtask, error)

	// ListEpicSubtasks lists the subtasks of one epic
	ListEpicSubtasks(ctx context.Context, epicID model.TaskID) ([]*subtask.Subtask, error)

	// Prioritized lists tasks and subtasks by start time
	Prioritized(ctx context.Context) ([]task.Item, error)

	// History lists the recently viewed entities, oldest first
	History(ctx context.Context) ([]task.Item, error)
}
