package task

import (
	"testing"
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

func TestNewBaseTask(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		taskType   model.TaskType
		status     model.Status
		wantErr    bool
		wantStatus model.Status
	}{
		{
			name:       "Valid task",
			taskType:   model.TaskTypeTask,
			status:     model.StatusInProgress,
			wantErr:    false,
			wantStatus: model.StatusInProgress,
		},
		{
			name:       "Empty status defaults to NEW",
			taskType:   model.TaskTypeSubtask,
			status:     "",
			wantErr:    false,
			wantStatus: model.StatusNew,
		},
		{
			name:     "Invalid task type",
			taskType: model.TaskType("INVALID"),
			status:   model.StatusNew,
			wantErr:  true,
		},
		{
			name:     "Invalid status",
			taskType: model.TaskTypeTask,
			status:   model.Status("PENDING"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, err := NewBaseTask(tt.taskType, "Name", "Desc", tt.status, model.NewTimeWindow(start, time.Hour))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBaseTask() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if base.Status() != tt.wantStatus {
				t.Errorf("Expected status %v, got %v", tt.wantStatus, base.Status())
			}
			if !base.ID().IsZero() {
				t.Error("New task should not have an id")
			}
		})
	}
}

func TestNewTask(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tk, err := NewTask("Write report", "quarterly", model.StatusNew, model.NewTimeWindow(start, 90*time.Minute))
	if err != nil {
		t.Fatalf("NewTask failed: %v", err)
	}

	if tk.Type() != model.TaskTypeTask {
		t.Errorf("Expected type TASK, got %v", tk.Type())
	}
	if tk.Name() != "Write report" {
		t.Errorf("Expected name 'Write report', got '%s'", tk.Name())
	}
	end, ok := tk.End()
	if !ok || !end.Equal(start.Add(90*time.Minute)) {
		t.Errorf("Unexpected end %v (ok=%v)", end, ok)
	}
}

func TestTask_Mutators(t *testing.T) {
	tk, _ := NewTask("a", "b", model.StatusNew, model.UnscheduledWindow(0))

	tk.AssignID(4)
	tk.UpdateName("renamed")
	tk.UpdateDescription("new desc")
	if err := tk.UpdateStatus(model.StatusDone); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := tk.UpdateStatus(model.Status("BOGUS")); err == nil {
		t.Error("Expected error for invalid status")
	}
	start := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	tk.Reschedule(model.NewTimeWindow(start, time.Hour))

	if tk.ID() != 4 || tk.Name() != "renamed" || tk.Description() != "new desc" {
		t.Errorf("Unexpected fields: %d %s %s", tk.ID(), tk.Name(), tk.Description())
	}
	if tk.Status() != model.StatusDone {
		t.Errorf("Expected DONE, got %v", tk.Status())
	}
	if !tk.Window().Start().Equal(start) {
		t.Errorf("Expected start %v, got %v", start, tk.Window().Start())
	}
}

func TestTask_Clone(t *testing.T) {
	tk := ReconstructTask(3, "orig", "d", model.StatusNew, model.UnscheduledWindow(0))
	c := tk.Clone()
	c.UpdateName("changed")

	if tk.Name() != "orig" {
		t.Error("Clone should not share state with the original")
	}

	var item Item = tk
	if item.CloneItem().ID() != 3 {
		t.Error("CloneItem should keep the id")
	}
}
