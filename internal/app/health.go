package app

import (
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/buildinfo"
)

// Health is the status document served by GET /health
type Health struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	TS       string `json:"ts"`
	Tasks    int    `json:"tasks"`
	Epics    int    `json:"epics"`
	Subtasks int    `json:"subtasks"`
}

// NewHealth reports an ok status with the given entity counts
func NewHealth(tasks, epics, subtasks int) Health {
	return Health{
		Status:   "ok",
		Version:  buildinfo.GetVersion(),
		TS:       time.Now().UTC().Format(time.RFC3339Nano),
		Tasks:    tasks,
		Epics:    epics,
		Subtasks: subtasks,
	}
}
