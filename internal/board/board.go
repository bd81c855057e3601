// Package board provides collection-level operations on parsed task lines:
// listing, filtering, sorting, grouping and the activity log.
package board

import (
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
	"github.com/twiced-technology-gmbh/tasklines/internal/vault"
)

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int

	// RequireFilter skips checklist lines that lack the Global Filter.
	RequireFilter bool
}

// List loads the tasks of every markdown file under paths, applies filters
// and sorting. Unreadable files are skipped and returned as warnings.
func List(paths []string, p *task.Parser, opts ListOptions) ([]task.Task, []vault.ReadWarning, error) {
	allTasks, warnings, err := vault.ReadAllLenient(paths, p, opts.RequireFilter)
	if err != nil {
		return nil, nil, err
	}

	tasks := Filter(allTasks, opts.Filter)

	sortField := opts.SortBy
	if sortField == "" {
		sortField = fieldLocation
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}

	return tasks, warnings, nil
}

// StatusSummary holds counts for a single status.
type StatusSummary struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Overdue int    `json:"overdue"`
}

// PriorityCount holds a count for a priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Overview is the aggregate over a set of task lines.
type Overview struct {
	TotalTasks int             `json:"total_tasks"`
	Recurring  int             `json:"recurring"`
	Statuses   []StatusSummary `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes counts per status and priority. A task is overdue when
// its due date is before today and it is not done-class.
func Summary(tasks []task.Task, today date.Date) Overview {
	statuses := make([]StatusSummary, 0, len(task.DefaultStatusOptions))
	index := make(map[task.Status]int, len(task.DefaultStatusOptions))
	for i, s := range task.DefaultStatusOptions {
		statuses = append(statuses, StatusSummary{Status: s.String()})
		index[s] = i
	}

	prioCounts := make(map[task.Priority]int)
	recurring := 0
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			statuses[i].Count++
			if IsOverdue(t, today) {
				statuses[i].Overdue++
			}
		}
		prioCounts[t.Priority]++
		if t.Recurrence != nil {
			recurring++
		}
	}

	priorities := make([]PriorityCount, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		priorities = append(priorities, PriorityCount{Priority: p.String(), Count: prioCounts[p]})
	}

	return Overview{
		TotalTasks: len(tasks),
		Recurring:  recurring,
		Statuses:   statuses,
		Priorities: priorities,
	}
}

// IsOverdue reports whether t is past its due date and still open.
func IsOverdue(t task.Task, today date.Date) bool {
	return t.DueDate != nil && t.DueDate.Before(today.Time) && !t.Status.IsDoneClass()
}

// CountByStatus returns the number of tasks in each status.
func CountByStatus(tasks []task.Task) map[task.Status]int {
	counts := make(map[task.Status]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}
