package board

import (
	"sort"

	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

// ValidSortFields returns the accepted --sort values.
func ValidSortFields() []string {
	return []string{fieldLocation, fieldStatus, fieldPriority, "created", "start", "scheduled", "due", "done"}
}

// Sort sorts tasks by the given field. Status and priority use their
// declaration order; ties keep file order.
func Sort(tasks []task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if reverse {
			return compareTasks(tasks[j], tasks[i], field)
		}
		return compareTasks(tasks[i], tasks[j], field)
	})
}

func compareTasks(a, b task.Task, field string) bool {
	switch field {
	case fieldStatus:
		return a.Status < b.Status
	case fieldPriority:
		return a.Priority < b.Priority
	case fieldLocation:
		return compareLocation(a, b)
	}
	if f, ok := task.ParseDateField(field); ok {
		return date.Compare(a.Date(f), b.Date(f)) < 0
	}
	return compareLocation(a, b)
}

func compareLocation(a, b task.Task) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.LineNumber < b.LineNumber
}
