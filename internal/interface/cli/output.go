package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/YoshitsuguKoike/taskplan/internal/application/dto"
	"github.com/YoshitsuguKoike/taskplan/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04"

func (o *rootOptions) printItems(out io.Writer, items []dto.ItemDTO) error {
	if o.jsonOut {
		return writeJSON(out, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No entries")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	// Print header
	fmt.Fprintf(w, "ID\tTYPE\tNAME\tSTATUS\tSTART\tEND\tDURATION\tLINKS\n")
	fmt.Fprintf(w, "--\t----\t----\t------\t-----\t---\t--------\t-----\n")

	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Type,
			item.Name,
			item.Status,
			formatTime(item.StartTime),
			formatTime(item.EndTime),
			time.Duration(item.Duration)*time.Minute,
			links(item),
		)
	}
	return nil
}

func (o *rootOptions) printItem(out io.Writer, item dto.ItemDTO) error {
	if o.jsonOut {
		return writeJSON(out, item)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID:\t%d\n", item.ID)
	fmt.Fprintf(w, "Type:\t%s\n", item.Type)
	fmt.Fprintf(w, "Name:\t%s\n", item.Name)
	fmt.Fprintf(w, "Description:\t%s\n", item.Description)
	fmt.Fprintf(w, "Status:\t%s\n", item.Status)
	fmt.Fprintf(w, "Start:\t%s\n", formatTime(item.StartTime))
	fmt.Fprintf(w, "End:\t%s\n", formatTime(item.EndTime))
	fmt.Fprintf(w, "Duration:\t%s\n", time.Duration(item.Duration)*time.Minute)
	switch item.Type {
	case model.TaskTypeEpic.String():
		fmt.Fprintf(w, "Subtasks:\t%s\n", links(item))
	case model.TaskTypeSubtask.String():
		fmt.Fprintf(w, "Epic:\t%d\n", item.EpicID)
	}
	return nil
}

func (o *rootOptions) printSaved(out io.Writer, verb string, id model.TaskID) error {
	if o.jsonOut {
		return writeJSON(out, dto.CreatedResponse{ID: int(id)})
	}
	fmt.Fprintf(out, "%s %d\n", verb, id)
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func links(item dto.ItemDTO) string {
	switch {
	case item.EpicID != 0:
		return "epic " + strconv.Itoa(item.EpicID)
	case len(item.SubtaskIDs) > 0:
		ids := make([]string, len(item.SubtaskIDs))
		for i, id := range item.SubtaskIDs {
			ids[i] = strconv.Itoa(id)
		}
		return strings.Join(ids, ",")
	default:
		return "-"
	}
}
