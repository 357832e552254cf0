package record

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/epic"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/subtask"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model/task"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/repository"
)

// Header is the first line of every record file
var Header = []string{"id", "type", "name", "status", "description", "epic", "start", "duration"}

// Column positions
const (
	colID = iota
	colType
	colName
	colStatus
	colDescription
	colEpic
	colStart
	colDuration
)

// minFields covers the short "id,type,name,status,description" layout
const minFields = colEpic

// Encode writes a snapshot as a record file: the header, then tasks,
// epics and subtasks, each in the snapshot's order.
func Encode(s *repository.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	if s != nil {
		for _, t := range s.Tasks {
			if err := w.Write(row(t, "")); err != nil {
				return nil, err
			}
		}
		for _, e := range s.Epics {
			if err := w.Write(row(e, "")); err != nil {
				return nil, err
			}
		}
		for _, st := range s.Subtasks {
			if err := w.Write(row(st, st.EpicID().String())); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(item task.Item, epicID string) []string {
	w := item.Window()
	start := ""
	if w.HasStart() {
		start = w.Start().Format(time.RFC3339Nano)
	}
	return []string{
		item.ID().String(),
		item.Type().String(),
		item.Name(),
		item.Status().String(),
		item.Description(),
		epicID,
		start,
		w.Duration().String(),
	}
}

// Decode parses a record file. The first line is the header and is skipped.
// Lines may omit the trailing epic, start and duration columns.
// Epic status and time fields are ignored; they are derived on restore.
func Decode(data []byte) (*repository.Snapshot, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	snap := &repository.Snapshot{}
	for line := 1; ; line++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 {
			continue
		}
		if err := decodeRow(snap, fields); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return snap, nil
}

func decodeRow(snap *repository.Snapshot, fields []string) error {
	if len(fields) < minFields {
		return fmt.Errorf("expected at least %d fields, got %d", minFields, len(fields))
	}

	id, err := model.ParseTaskID(fields[colID])
	if err != nil {
		return err
	}
	taskType, err := model.ParseTaskType(fields[colType])
	if err != nil {
		return err
	}
	status, err := model.ParseStatus(fields[colStatus])
	if err != nil {
		return err
	}
	name := fields[colName]
	description := fields[colDescription]

	switch taskType {
	case model.TaskTypeEpic:
		snap.Epics = append(snap.Epics, epic.ReconstructEpic(id, name, description, status, nil))
		return nil
	case model.TaskTypeTask:
		window, err := parseWindow(fields)
		if err != nil {
			return err
		}
		snap.Tasks = append(snap.Tasks, task.ReconstructTask(id, name, description, status, window))
		return nil
	default:
		epicID, err := model.ParseTaskID(optional(fields, colEpic))
		if err != nil {
			return fmt.Errorf("subtask %d: epic: %w", id, err)
		}
		window, err := parseWindow(fields)
		if err != nil {
			return err
		}
		snap.Subtasks = append(snap.Subtasks, subtask.ReconstructSubtask(id, epicID, name, description, status, window))
		return nil
	}
}

func parseWindow(fields []string) (model.TimeWindow, error) {
	var duration time.Duration
	if raw := strings.TrimSpace(optional(fields, colDuration)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return model.TimeWindow{}, fmt.Errorf("duration: %w", err)
		}
		duration = d
	}

	raw := strings.TrimSpace(optional(fields, colStart))
	if raw == "" {
		return model.UnscheduledWindow(duration), nil
	}
	start, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return model.TimeWindow{}, fmt.Errorf("start: %w", err)
	}
	return model.NewTimeWindow(start, duration), nil
}

func optional(fields []string, col int) string {
	if col < len(fields) {
		return fields[col]
	}
	return ""
}
