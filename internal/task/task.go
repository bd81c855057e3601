// Package task parses markdown checklist lines into Task values and
// renders them back, and implements the edit flow on top of both.
package task

import (
	"slices"

	"github.com/twiced-technology-gmbh/tasklines/internal/date"
)

// DateField identifies one of the six task dates.
type DateField int

// Date fields in canonical serialization order.
const (
	CreatedDate DateField = iota
	StartDate
	ScheduledDate
	DueDate
	DoneDate
	CancelledDate
)

var dateFieldNames = [...]string{
	CreatedDate:   "created",
	StartDate:     "start",
	ScheduledDate: "scheduled",
	DueDate:       "due",
	DoneDate:      "done",
	CancelledDate: "cancelled",
}

// DateFields lists all date fields in canonical order.
var DateFields = []DateField{CreatedDate, StartDate, ScheduledDate, DueDate, DoneDate, CancelledDate}

// String returns the field name.
func (f DateField) String() string {
	if f < 0 || int(f) >= len(dateFieldNames) {
		return "unknown"
	}
	return dateFieldNames[f]
}

// ParseDateField maps a field name to its DateField.
func ParseDateField(name string) (DateField, bool) {
	for i, n := range dateFieldNames {
		if n == name {
			return DateField(i), true
		}
	}
	return 0, false
}

// Task is one markdown checklist line. Values are copied on every edit;
// the With* methods return modified copies.
type Task struct {
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	CreatedDate   *date.Date `json:"created,omitempty"`
	StartDate     *date.Date `json:"start,omitempty"`
	ScheduledDate *date.Date `json:"scheduled,omitempty"`
	DueDate       *date.Date `json:"due,omitempty"`
	DoneDate      *date.Date `json:"done,omitempty"`
	CancelledDate *date.Date `json:"cancelled,omitempty"`

	Recurrence *Recurrence `json:"recurrence,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	BlockLink  string      `json:"block_link,omitempty"`

	GlobalFilterPresent bool `json:"global_filter_present"`

	// StatusSymbol is the character read between the brackets. It differs
	// from Status.Symbol() for alternates such as 'X' or unknown marks.
	StatusSymbol rune   `json:"-"`
	Indentation  string `json:"-"`
	ListMarker   string `json:"-"`
	HasCheckbox  bool   `json:"-"`

	OriginalMarkdown string `json:"original_markdown"`
	Path             string `json:"path,omitempty"`
	LineNumber       int    `json:"line"`

	// inferred marks dates stamped by DateFallback during the current edit
	// cycle. It is never serialized and is empty on parsed tasks.
	inferred map[DateField]bool
}

// Date returns the value of field, or nil.
func (t Task) Date(field DateField) *date.Date {
	switch field {
	case CreatedDate:
		return t.CreatedDate
	case StartDate:
		return t.StartDate
	case ScheduledDate:
		return t.ScheduledDate
	case DueDate:
		return t.DueDate
	case DoneDate:
		return t.DoneDate
	case CancelledDate:
		return t.CancelledDate
	}
	return nil
}

// WithDate returns a copy with field set to d (nil clears it). The copy
// treats the new value as authored.
func (t Task) WithDate(field DateField, d *date.Date) Task {
	c := t.clone()
	c.setDate(field, d)
	delete(c.inferred, field)
	return c
}

// WithDescription returns a copy with a new description. Tags are not
// re-extracted; use Editor.Apply for a full re-derivation.
func (t Task) WithDescription(description string) Task {
	c := t.clone()
	c.Description = description
	return c
}

// WithStatus returns a copy with status s and its canonical symbol.
func (t Task) WithStatus(s Status) Task {
	c := t.clone()
	c.Status = s
	c.StatusSymbol = s.Symbol()
	if !c.HasCheckbox && s != NonTask {
		c.HasCheckbox = true
		if c.ListMarker == "" {
			c.ListMarker = "-"
		}
	}
	return c
}

// WithPriority returns a copy with priority p.
func (t Task) WithPriority(p Priority) Task {
	c := t.clone()
	c.Priority = p
	return c
}

// WithRecurrence returns a copy with rule r (nil clears it).
func (t Task) WithRecurrence(r *Recurrence) Task {
	c := t.clone()
	c.Recurrence = r
	return c
}

// IsInferred reports whether field was stamped automatically in this edit
// cycle rather than authored.
func (t Task) IsInferred(field DateField) bool {
	return t.inferred[field]
}

// IsTask reports whether the line is tracked as a task.
func (t Task) IsTask() bool {
	return t.Status != NonTask
}

// ReferenceDate returns the date recurrence is anchored to: due, else
// scheduled, else start.
func (t Task) ReferenceDate() (*date.Date, DateField, bool) {
	for _, f := range []DateField{DueDate, ScheduledDate, StartDate} {
		if d := t.Date(f); d != nil {
			return d, f, true
		}
	}
	return nil, 0, false
}

func (t *Task) setDate(field DateField, d *date.Date) {
	var v *date.Date
	if d != nil {
		v = d.Ptr()
	}
	switch field {
	case CreatedDate:
		t.CreatedDate = v
	case StartDate:
		t.StartDate = v
	case ScheduledDate:
		t.ScheduledDate = v
	case DueDate:
		t.DueDate = v
	case DoneDate:
		t.DoneDate = v
	case CancelledDate:
		t.CancelledDate = v
	}
}

func (t *Task) markInferred(field DateField) {
	if t.inferred == nil {
		t.inferred = make(map[DateField]bool)
	}
	t.inferred[field] = true
}

// clone returns a deep copy so edits never alias the original's slices,
// maps or date pointers.
func (t Task) clone() Task {
	c := t
	c.Tags = slices.Clone(t.Tags)
	for _, f := range DateFields {
		if d := t.Date(f); d != nil {
			c.setDate(f, d)
		}
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		r.Weekdays = slices.Clone(t.Recurrence.Weekdays)
		c.Recurrence = &r
	}
	if t.inferred != nil {
		c.inferred = make(map[DateField]bool, len(t.inferred))
		for k, v := range t.inferred {
			c.inferred[k] = v
		}
	}
	return c
}
