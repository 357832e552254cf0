package schedule

import (
	"sort"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
)

// PrioritizedIndex keeps scheduled items ordered by start time.
// Items sharing a start keep insertion order; items without a start come
// after every scheduled item, also in insertion order.
// PrioritizedIndex is not safe for concurrent use.
type PrioritizedIndex struct {
	items []task.Item
}

// NewPrioritizedIndex creates an empty index
func NewPrioritizedIndex() *PrioritizedIndex {
	return &PrioritizedIndex{}
}

// Insert adds item at its ordered position
func (p *PrioritizedIndex) Insert(item task.Item) {
	if item == nil {
		return
	}
	w := item.Window()
	if !w.HasStart() {
		p.items = append(p.items, item)
		return
	}

	// Scheduled items form a sorted prefix, so the predicate is monotone
	pos := sort.Search(len(p.items), func(i int) bool {
		other := p.items[i].Window()
		return !other.HasStart() || other.Start().After(w.Start())
	})
	p.items = append(p.items, nil)
	copy(p.items[pos+1:], p.items[pos:])
	p.items[pos] = item
}

// Remove drops the item with the given id and reports whether it was present
func (p *PrioritizedIndex) Remove(id model.TaskID) bool {
	for i, it := range p.items {
		if it.ID() == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return true
		}
	}
	return false
}

// Replace repositions item, dropping any previous entry with the same id
func (p *PrioritizedIndex) Replace(item task.Item) {
	if item == nil {
		return
	}
	p.Remove(item.ID())
	p.Insert(item)
}

// RemoveIf drops every item matching pred and returns how many were removed
func (p *PrioritizedIndex) RemoveIf(pred func(task.Item) bool) int {
	kept := p.items[:0]
	for _, it := range p.items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	removed := len(p.items) - len(kept)
	for i := len(kept); i < len(p.items); i++ {
		p.items[i] = nil
	}
	p.items = kept
	return removed
}

// Clear drops every item
func (p *PrioritizedIndex) Clear() {
	p.items = nil
}

// Items returns copies of the indexed items in priority order
func (p *PrioritizedIndex) Items() []task.Item {
	result := make([]task.Item, 0, len(p.items))
	for _, it := range p.items {
		result = append(result, it.CloneItem())
	}
	return result
}

// Len returns the number of indexed items
func (p *PrioritizedIndex) Len() int {
	return len(p.items)
}

// CheckOverlap validates candidate against the indexed items.
// It fails when the candidate has no start time or when its inclusive
// window intersects another item. An entry with the candidate's own id is
// skipped so updates do not conflict with their previous window.
func (p *PrioritizedIndex) CheckOverlap(candidate task.Item) error {
	cw := candidate.Window()
	if !cw.HasStart() {
		return &model.ValidationError{
			ID:     candidate.ID(),
			Reason: "start time is required",
		}
	}
	cEnd, _ := cw.End()

	for _, it := range p.items {
		w := it.Window()
		// Unscheduled items and items starting after the candidate ends
		// cannot overlap, and everything after them is the same
		if !w.HasStart() || w.Start().After(cEnd) {
			break
		}
		if it.ID() == candidate.ID() {
			continue
		}
		if w.Overlaps(cw) {
			return &model.ValidationError{
				ID:             candidate.ID(),
				Reason:         "time window conflict",
				ConflictID:     it.ID(),
				ConflictWindow: w,
			}
		}
	}
	return nil
}
