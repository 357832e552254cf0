package subtask

import (
	"testing"
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

func TestNewSubtask(t *testing.T) {
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	st, err := NewSubtask(5, "Design", "API draft", model.StatusNew, model.NewTimeWindow(start, time.Hour))
	if err != nil {
		t.Fatalf("NewSubtask failed: %v", err)
	}

	if st.Type() != model.TaskTypeSubtask {
		t.Errorf("Expected type SUBTASK, got %v", st.Type())
	}
	if st.EpicID() != 5 {
		t.Errorf("Expected epic 5, got %d", st.EpicID())
	}
	if !st.Window().HasStart() {
		t.Error("Subtask should keep its start time")
	}

	if _, err := NewSubtask(5, "x", "y", model.Status("WAITING"), model.UnscheduledWindow(0)); err == nil {
		t.Error("Expected error for invalid status")
	}
}

func TestSubtask_MoveAndClone(t *testing.T) {
	st := ReconstructSubtask(7, 2, "n", "d", model.StatusDone, model.UnscheduledWindow(time.Minute))
	c := st.Clone()
	c.MoveToEpic(3)

	if st.EpicID() != 2 {
		t.Error("Clone should not share the epic link with the original")
	}
	if c.EpicID() != 3 {
		t.Errorf("Expected epic 3 after move, got %d", c.EpicID())
	}
	if st.CloneItem().ID() != 7 {
		t.Error("CloneItem should keep the id")
	}
}
