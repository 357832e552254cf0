package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TaskID identifies a task, epic or subtask. Zero means "not assigned yet".
type TaskID int

// String returns the string representation
func (t TaskID) String() string {
	return strconv.Itoa(int(t))
}

// IsZero reports whether the id has not been assigned
func (t TaskID) IsZero() bool {
	return t == 0
}

// ParseTaskID parses a decimal task id
func ParseTaskID(s string) (TaskID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid task id %q: must not be negative", s)
	}
	return TaskID(n), nil
}

// TaskType represents the type of task
type TaskType string

const (
	TaskTypeTask    TaskType = "TASK"
	TaskTypeEpic    TaskType = "EPIC"
	TaskTypeSubtask TaskType = "SUBTASK"
)

// String returns the string representation
func (t TaskType) String() string {
	return string(t)
}

// IsValid validates the task type
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTask, TaskTypeEpic, TaskTypeSubtask:
		return true
	default:
		return false
	}
}

// ParseTaskType converts a case-insensitive name into a TaskType
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("unknown task type %q", s)
	}
	return t, nil
}

// Status represents the lifecycle status of a task
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus converts a case-insensitive name into a Status.
// An empty string yields StatusNew.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusNew, nil
	}
	st := Status(strings.ToUpper(strings.ReplaceAll(s, "-", "_")))
	if !st.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// TimeWindow is a start time plus a duration.
// A zero start time means the window is not scheduled.
type TimeWindow struct {
	start    time.Time
	duration time.Duration
}

// NewTimeWindow creates a scheduled window
func NewTimeWindow(start time.Time, duration time.Duration) TimeWindow {
	return TimeWindow{start: start, duration: duration}
}

// UnscheduledWindow creates a window with a duration but no start time
func UnscheduledWindow(duration time.Duration) TimeWindow {
	return TimeWindow{duration: duration}
}

// HasStart reports whether the start time is set
func (w TimeWindow) HasStart() bool {
	return !w.start.IsZero()
}

// Start returns the start time (zero when unset)
func (w TimeWindow) Start() time.Time {
	return w.start
}

// Duration returns the duration
func (w TimeWindow) Duration() time.Duration {
	return w.duration
}

// End returns start + duration, and false when the start is unset
func (w TimeWindow) End() (time.Time, bool) {
	if !w.HasStart() {
		return time.Time{}, false
	}
	return w.start.Add(w.duration), true
}

// Overlaps reports whether both windows are scheduled and their inclusive
// [start, end] intervals intersect. Touching endpoints overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	aEnd, ok := w.End()
	if !ok {
		return false
	}
	bEnd, ok := other.End()
	if !ok {
		return false
	}
	return !(aEnd.Before(other.start) || w.start.After(bEnd))
}

// Equal reports whether two windows describe the same instant and duration
func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.duration == other.duration
}

// String returns the string representation
func (w TimeWindow) String() string {
	end, ok := w.End()
	if !ok {
		return fmt.Sprintf("unscheduled (%s)", w.duration)
	}
	return fmt.Sprintf("%s - %s", w.start.Format(time.RFC3339), end.Format(time.RFC3339))
}
