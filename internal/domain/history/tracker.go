package history

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// DefaultCapacity is used when a tracker is created with a non-positive capacity
const DefaultCapacity = 10

// Tracker keeps the most recently viewed items, oldest first.
// The ordered map is a linked list plus an id index, so Remove does not scan.
// Tracker is not safe for concurrent use.
type Tracker struct {
	capacity int
	entries  *orderedmap.OrderedMap[model.TaskID, task.Item]
}

// NewTracker creates a tracker holding at most capacity entries
func NewTracker(capacity int) *Tracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		capacity: capacity,
		entries:  orderedmap.New[model.TaskID, task.Item](),
	}
}

// Add records a view of item. A repeated view moves the item to the end;
// when the tracker is full the least recently viewed entry is evicted.
func (t *Tracker) Add(item task.Item) {
	if item == nil {
		return
	}
	id := item.ID()

	// Delete first so Set appends at the back
	t.entries.Delete(id)
	if t.entries.Len() >= t.capacity {
		if oldest := t.entries.Oldest(); oldest != nil {
			t.entries.Delete(oldest.Key)
		}
	}
	t.entries.Set(id, item)
}

// Remove drops the entry for id, if any
func (t *Tracker) Remove(id model.TaskID) {
	t.entries.Delete(id)
}

// Contains reports whether id is currently recorded
func (t *Tracker) Contains(id model.TaskID) bool {
	_, ok := t.entries.Get(id)
	return ok
}

// History returns the recorded items, oldest first
func (t *Tracker) History() []task.Item {
	result := make([]task.Item, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Value)
	}
	return result
}

// Clear drops every entry
func (t *Tracker) Clear() {
	t.entries = orderedmap.New[model.TaskID, task.Item]()
}

// Len returns the number of recorded entries
func (t *Tracker) Len() int {
	return t.entries.Len()
}

// Capacity returns the maximum number of entries
func (t *Tracker) Capacity() int {
	return t.capacity
}
