package board

import (
	"path/filepath"
	"sort"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

const (
	fieldPriority = "priority"
	fieldStatus   = "status"
	fieldLocation = "location"
	fieldTag      = "tag"
	fieldFile     = "file"
	fieldDue      = "due"

	noDueKey = "(no due date)"
)

// GroupedSummary holds tasks grouped by a field.
type GroupedSummary struct {
	Groups []GroupSummary `json:"groups"`
}

// GroupSummary is one group within a grouped view.
type GroupSummary struct {
	Key      string          `json:"key"`
	Statuses []StatusSummary `json:"statuses"`
	Total    int             `json:"total"`
}

// GroupBy groups tasks by the specified field and returns summaries per group.
func GroupBy(tasks []task.Task, field string) GroupedSummary {
	groups := make(map[string][]task.Task)
	order := make(map[string]int)

	for _, t := range tasks {
		for _, key := range extractGroupKeys(t, field) {
			if _, ok := order[key]; !ok {
				order[key] = groupRank(t, field)
			}
			groups[key] = append(groups[key], t)
		}
	}

	sortedKeys := sortGroupKeys(groups, order, field)

	result := GroupedSummary{
		Groups: make([]GroupSummary, 0, len(sortedKeys)),
	}
	for _, key := range sortedKeys {
		groupTasks := groups[key]
		result.Groups = append(result.Groups, GroupSummary{
			Key:      key,
			Statuses: groupStatusSummary(groupTasks),
			Total:    len(groupTasks),
		})
	}
	return result
}

func extractGroupKeys(t task.Task, field string) []string {
	switch field {
	case fieldTag:
		if len(t.Tags) == 0 {
			return []string{"(untagged)"}
		}
		return t.Tags
	case fieldFile:
		return []string{filepath.ToSlash(t.Path)}
	case fieldDue:
		if t.DueDate == nil {
			return []string{noDueKey}
		}
		return []string{t.DueDate.Format("2006-01")}
	case fieldPriority:
		return []string{t.Priority.String()}
	case fieldStatus:
		return []string{t.Status.String()}
	default:
		return []string{"(all)"}
	}
}

// groupRank orders status and priority groups by declaration order.
func groupRank(t task.Task, field string) int {
	switch field {
	case fieldStatus:
		return int(t.Status)
	case fieldPriority:
		return int(t.Priority)
	}
	return 0
}

func sortGroupKeys(groups map[string][]task.Task, order map[string]int, field string) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	switch field {
	case fieldStatus, fieldPriority:
		sort.SliceStable(keys, func(i, j int) bool {
			return order[keys[i]] < order[keys[j]]
		})
	case fieldDue:
		sort.Slice(keys, func(i, j int) bool {
			if (keys[i] == noDueKey) != (keys[j] == noDueKey) {
				return keys[j] == noDueKey
			}
			return keys[i] < keys[j]
		})
	default:
		sort.Strings(keys)
	}
	return keys
}

func groupStatusSummary(tasks []task.Task) []StatusSummary {
	counts := CountByStatus(tasks)
	statuses := make([]StatusSummary, 0, len(task.DefaultStatusOptions))
	for _, s := range task.DefaultStatusOptions {
		statuses = append(statuses, StatusSummary{
			Status: s.String(),
			Count:  counts[s],
		})
	}
	return statuses
}

// ValidGroupByFields returns the list of valid --group-by field names.
func ValidGroupByFields() []string {
	return []string{fieldTag, fieldFile, fieldPriority, fieldStatus, fieldDue}
}

// ValidateGroupBy returns a CLIError for an unknown --group-by field.
func ValidateGroupBy(field string) error {
	for _, f := range ValidGroupByFields() {
		if f == field {
			return nil
		}
	}
	return clierr.Newf(clierr.InvalidGroupBy, "invalid group-by field %q", field).
		WithDetails(map[string]any{
			"field":   field,
			"allowed": ValidGroupByFields(),
		})
}
