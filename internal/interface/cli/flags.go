package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

// startLayouts are accepted by --start; layouts without a zone use local time
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// itemFlags holds the entity flags shared by add and update commands
type itemFlags struct {
	name        string
	description string
	status      string
	start       string
	duration    time.Duration
	epic        int
}

func (f *itemFlags) register(cmd *cobra.Command, scheduled bool) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Name")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	if !scheduled {
		return
	}
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status: NEW, IN_PROGRESS or DONE")
	cmd.Flags().StringVar(&f.start, "start", "", `Start time, e.g. "2024-09-02 09:00" or RFC3339`)
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "Duration, e.g. 90m or 1h30m")
}

func (f *itemFlags) registerEpic(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.epic, "epic", "e", 0, "Owning epic id")
}

// apply copies the flags the user set onto req
func (f *itemFlags) apply(cmd *cobra.Command, req dto.ItemRequest) (dto.ItemRequest, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = f.name
	}
	if flags.Changed("description") {
		req.Description = f.description
	}
	if flags.Changed("status") {
		req.Status = f.status
	}
	if flags.Changed("start") {
		if strings.TrimSpace(f.start) == "" {
			req.StartTime = nil
		} else {
			t, err := parseStart(f.start)
			if err != nil {
				return req, err
			}
			req.StartTime = &t
		}
	}
	if flags.Changed("duration") {
		if f.duration < 0 {
			return req, fmt.Errorf("--duration must not be negative")
		}
		req.Duration = int64(f.duration / time.Minute)
	}
	if flags.Changed("epic") {
		req.EpicID = f.epic
	}
	return req.Normalize(), nil
}

func parseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("--start %q: expected RFC3339 or \"YYYY-MM-DD HH:MM\"", s)
}

func parseID(arg string) (model.TaskID, error) {
	id, err := model.ParseTaskID(arg)
	if err != nil || id.IsZero() {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}
