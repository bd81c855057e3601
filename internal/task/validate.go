package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
)

// ValidateStatus returns a CLIError for an unknown status name.
func ValidateStatus(name string) *clierr.Error {
	return clierr.Newf(clierr.InvalidStatus, "invalid status %q", name).
		WithDetails(map[string]any{
			"status":  name,
			"allowed": StatusNames(),
		})
}

// ValidatePriority returns a CLIError for an unknown priority name.
func ValidatePriority(name string) *clierr.Error {
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", name).
		WithDetails(map[string]any{
			"priority": name,
			"allowed":  priorityNames[:],
		})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateIsTask returns a CLIError when t is a plain line and the
// operation needs a checklist item.
func ValidateIsTask(t Task) error {
	if t.HasCheckbox {
		return nil
	}
	return clierr.Newf(clierr.NotATask, "line %d of %s is not a task", t.LineNumber+1, t.Path).
		WithDetails(map[string]any{
			"path": t.Path,
			"line": t.LineNumber + 1,
			"text": t.OriginalMarkdown,
		})
}

// ParseDateInput parses a date flag value for field. "none" and the empty
// string clear the date and return nil.
func ParseDateInput(field, input string) (*date.Date, error) {
	v := strings.TrimSpace(input)
	if v == "" || strings.EqualFold(v, "none") {
		return nil, nil //nolint:nilnil // nil date means "clear"
	}
	d, err := date.Parse(v)
	if err != nil {
		return nil, ValidateDate(field, input, err)
	}
	return &d, nil
}
