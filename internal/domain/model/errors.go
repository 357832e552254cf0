package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by every NotFoundError
	ErrNotFound = errors.New("not found")

	// ErrInvalid is matched by every ValidationError
	ErrInvalid = errors.New("validation failed")

	// ErrNotCreated is matched by every LinkageError
	ErrNotCreated = errors.New("not created")
)

// NotFoundError is returned when a lookup by id finds nothing
type NotFoundError struct {
	Type TaskType
	ID   TaskID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", typeLabel(e.Type), e.ID)
}

// Unwrap returns ErrNotFound
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError is returned when a task or subtask lacks a start time
// or its window overlaps an already scheduled item.
type ValidationError struct {
	ID     TaskID
	Reason string

	// Set when the failure is an overlap
	ConflictID     TaskID
	ConflictWindow TimeWindow
}

func (e *ValidationError) Error() string {
	if !e.ConflictID.IsZero() {
		return fmt.Sprintf("%s: overlaps id=%d (%s)", e.Reason, e.ConflictID, e.ConflictWindow)
	}
	return e.Reason
}

// Unwrap returns ErrInvalid
func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// LinkageError is returned when an epic/subtask link precondition fails:
// epic self-containment, subtask self-reference or an unknown epic.
type LinkageError struct {
	ID     TaskID
	EpicID TaskID
	Reason string
}

func (e *LinkageError) Error() string {
	return fmt.Sprintf("not created: %s (epic=%d)", e.Reason, e.EpicID)
}

// Unwrap returns ErrNotCreated
func (e *LinkageError) Unwrap() error {
	return ErrNotCreated
}

func typeLabel(t TaskType) string {
	switch t {
	case TaskTypeEpic:
		return "epic"
	case TaskTypeSubtask:
		return "subtask"
	case TaskTypeTask:
		return "task"
	default:
		return "item"
	}
}
