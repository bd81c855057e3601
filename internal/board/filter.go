package board

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

// FilterOptions defines which tasks to include.
type FilterOptions struct {
	Statuses        []task.Status
	ExcludeStatuses []task.Status // statuses to exclude from results
	Priorities      []task.Priority
	Tag             string
	Search          string     // case-insensitive substring match across description and tags
	DueBefore       *date.Date // only tasks due on or before this date
	Overdue         bool       // only open tasks past their due date
	Today           date.Date  // reference for Overdue
	Recurring       *bool      // nil=no filter, true=only recurring, false=only one-off
	Path            string     // only tasks in this file
}

// Filter returns tasks matching all specified criteria (AND logic).
func Filter(tasks []task.Task, opts FilterOptions) []task.Task {
	var result []task.Task
	for _, t := range tasks {
		if matchesFilter(t, opts) {
			result = append(result, t)
		}
	}
	return result
}

func matchesFilter(t task.Task, opts FilterOptions) bool {
	if !matchesCoreFilter(t, opts) {
		return false
	}
	return matchesExtendedFilter(t, opts)
}

func matchesCoreFilter(t task.Task, opts FilterOptions) bool {
	if !matchesStatus(t.Status, opts.Statuses, opts.ExcludeStatuses) {
		return false
	}
	if len(opts.Priorities) > 0 && !slices.Contains(opts.Priorities, t.Priority) {
		return false
	}
	if opts.Tag != "" && !hasTag(t.Tags, opts.Tag) {
		return false
	}
	if opts.Recurring != nil && (t.Recurrence != nil) != *opts.Recurring {
		return false
	}
	if opts.Path != "" && t.Path != opts.Path {
		return false
	}
	return true
}

func matchesStatus(status task.Status, include, exclude []task.Status) bool {
	if len(include) > 0 && !slices.Contains(include, status) {
		return false
	}
	if len(exclude) > 0 && slices.Contains(exclude, status) {
		return false
	}
	return true
}

// hasTag matches with or without the leading '#', case-insensitively.
func hasTag(tags []string, want string) bool {
	want = strings.ToLower(strings.TrimPrefix(want, "#"))
	for _, tag := range tags {
		if strings.ToLower(strings.TrimPrefix(tag, "#")) == want {
			return true
		}
	}
	return false
}

// matchesSearch performs case-insensitive substring matching across description and tags.
func matchesSearch(t task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func matchesExtendedFilter(t task.Task, opts FilterOptions) bool {
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(opts.DueBefore.Time)) {
		return false
	}
	if opts.Overdue && !IsOverdue(t, opts.Today) {
		return false
	}
	return true
}
