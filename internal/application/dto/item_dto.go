package dto

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// ErrBadRequest is matched by every RequestError
var ErrBadRequest = errors.New("bad request")

// RequestError reports a request field that cannot be turned into an entity
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrBadRequest
func (e *RequestError) Unwrap() error {
	return ErrBadRequest
}

// ItemDTO is the JSON form of a task, epic or subtask
type ItemDTO struct {
	ID          int        `json:"id"`
	Type        string     `json:"type"` // "TASK", "EPIC", "SUBTASK"
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	Duration    int64      `json:"duration"` // minutes
	EndTime     *time.Time `json:"end_time,omitempty"`
	SubtaskIDs  []int      `json:"subtask_ids,omitempty"`
	EpicID      int        `json:"epic_id,omitempty"`
}

// CreatedResponse is returned when an entity is created
type CreatedResponse struct {
	ID int `json:"id"`
}

// ErrorResponse carries an error message
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromItem converts any entity into its JSON form
func FromItem(item task.Item) ItemDTO {
	w := item.Window()
	d := ItemDTO{
		ID:          int(item.ID()),
		Type:        item.Type().String(),
		Name:        item.Name(),
		Description: item.Description(),
		Status:      item.Status().String(),
		Duration:    int64(w.Duration() / time.Minute),
	}
	if w.HasStart() {
		start := w.Start()
		d.StartTime = &start
	}
	if end, ok := item.End(); ok {
		d.EndTime = &end
	}

	switch v := item.(type) {
	case *epic.Epic:
		ids := v.SubtaskIDs()
		d.SubtaskIDs = make([]int, len(ids))
		for i, id := range ids {
			d.SubtaskIDs[i] = int(id)
		}
	case *subtask.Subtask:
		d.EpicID = int(v.EpicID())
	}
	return d
}

// FromItems converts a list of entities, keeping the order
func FromItems[T task.Item](items []T) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, FromItem(item))
	}
	return out
}

// ItemRequest is the JSON body accepted when creating or updating an entity.
// ID zero means create.
type ItemRequest struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	Duration    int64      `json:"duration"` // minutes
	EpicID      int        `json:"epic_id,omitempty"`
}

// RequestFromItem builds the request that would recreate item.
// Used to apply partial changes on top of an existing entity.
func RequestFromItem(item task.Item) ItemRequest {
	d := FromItem(item)
	return ItemRequest{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
		StartTime:   d.StartTime,
		Duration:    d.Duration,
		EpicID:      d.EpicID,
	}
}

// Normalize applies NFKC and trims surrounding whitespace on the text fields
func (r ItemRequest) Normalize() ItemRequest {
	r.Name = normalizeText(r.Name)
	r.Description = normalizeText(r.Description)
	return r
}

func normalizeText(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// IsCreate reports whether the request creates a new entity
func (r ItemRequest) IsCreate() bool {
	return r.ID == 0
}

// ToTask builds a task from the request
func (r ItemRequest) ToTask() (*task.Task, error) {
	status, window, err := r.common()
	if err != nil {
		return nil, err
	}
	return task.ReconstructTask(model.TaskID(r.ID), r.Name, r.Description, status, window), nil
}

// ToEpic builds an epic from the request. Status and time fields are ignored.
func (r ItemRequest) ToEpic() (*epic.Epic, error) {
	if err := r.checkID(); err != nil {
		return nil, err
	}
	e := epic.NewEpic(r.Name, r.Description)
	e.AssignID(model.TaskID(r.ID))
	return e, nil
}

// ToSubtask builds a subtask from the request
func (r ItemRequest) ToSubtask() (*subtask.Subtask, error) {
	status, window, err := r.common()
	if err != nil {
		return nil, err
	}
	if r.EpicID <= 0 {
		return nil, &RequestError{Field: "epic_id", Reason: "must be a positive id"}
	}
	return subtask.ReconstructSubtask(model.TaskID(r.ID), model.TaskID(r.EpicID), r.Name, r.Description, status, window), nil
}

func (r ItemRequest) checkID() error {
	if r.ID < 0 {
		return &RequestError{Field: "id", Reason: "must not be negative"}
	}
	return nil
}

func (r ItemRequest) common() (model.Status, model.TimeWindow, error) {
	if err := r.checkID(); err != nil {
		return "", model.TimeWindow{}, err
	}
	status, err := model.ParseStatus(r.Status)
	if err != nil {
		return "", model.TimeWindow{}, &RequestError{Field: "status", Reason: err.Error()}
	}
	if r.Duration < 0 {
		return "", model.TimeWindow{}, &RequestError{Field: "duration", Reason: "must not be negative"}
	}
	duration := time.Duration(r.Duration) * time.Minute
	if r.StartTime == nil {
		return status, model.UnscheduledWindow(duration), nil
	}
	return status, model.NewTimeWindow(*r.StartTime, duration), nil
}
