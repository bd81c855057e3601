package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/board"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t task.Task, line string) {
	fmt.Fprintln(w, formatTaskLine(t))

	var dates []string
	for _, f := range task.DateFields {
		if d := t.Date(f); d != nil {
			dates = append(dates, f.String()+":"+d.String())
		}
	}
	if len(dates) > 0 {
		fmt.Fprintln(w, "  "+strings.Join(dates, " "))
	}
	if t.Recurrence != nil {
		fmt.Fprintln(w, "  every:"+strings.TrimPrefix(t.Recurrence.String(), "every "))
	}
	fmt.Fprintln(w, "  "+line)
}

// OverviewCompact renders a summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%d tasks (%d recurring)\n", s.TotalTasks, s.Recurring)

	for _, ss := range s.Statuses {
		line := "  " + ss.Status + ": " + strconv.Itoa(ss.Count)
		if ss.Overdue > 0 {
			line += " (" + strconv.Itoa(ss.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t task.Task) string {
	line := Location(t) + " [" + t.Status.String() + "/" + t.Priority.String() + "] " + t.Description

	if t.DueDate != nil {
		line += " due:" + t.DueDate.String()
	}
	if t.Recurrence != nil {
		line += " (recurring)"
	}
	return line
}
