package task

import (
	"time"

	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
)

// completionFields maps each done-class status to the date it carries.
var completionFields = map[Status]DateField{
	Done:      DoneDate,
	Cancelled: CancelledDate,
}

// Fallback infers completion dates on status transitions and retracts
// them when the transition is undone within the same edit cycle.
type Fallback struct {
	Settings config.Settings
	Now      func() time.Time
}

// NewFallback returns a Fallback reading the wall clock.
func NewFallback(settings config.Settings) *Fallback {
	return &Fallback{Settings: settings, Now: time.Now}
}

func (f *Fallback) today() date.Date {
	if f.Now == nil {
		return date.Today()
	}
	return date.FromTime(f.Now())
}

func (f *Fallback) enabled(field DateField) bool {
	switch field {
	case DoneDate:
		return f.Settings.SetDoneDate
	case CancelledDate:
		return f.Settings.SetCancelledDate
	case CreatedDate:
		return f.Settings.SetCreatedDate
	}
	return false
}

// InferDateIfNeeded stamps today's date on the completion field of t when
// t just moved into a done-class status, the field is absent and the
// matching setting is enabled. The stamped date is marked as inferred.
func (f *Fallback) InferDateIfNeeded(t Task, previous Status) Task {
	field, ok := completionFields[t.Status]
	if !ok || t.Status == previous {
		return t
	}
	if t.Date(field) != nil || !f.enabled(field) {
		return t
	}
	c := t.clone()
	c.setDate(field, f.today().Ptr())
	c.markInferred(field)
	return c
}

// InferCreatedDate stamps today's created date on a new task when the
// setting is enabled.
func (f *Fallback) InferCreatedDate(t Task) Task {
	if t.CreatedDate != nil || !f.enabled(CreatedDate) {
		return t
	}
	c := t.clone()
	c.setDate(CreatedDate, f.today().Ptr())
	c.markInferred(CreatedDate)
	return c
}

// RemoveInferredStatusIfNeeded drops completion dates that were inferred
// during this edit cycle from every edited task that is no longer in the
// matching status. Dates the user authored are never removed. The edited
// slice may hold more than one task when recurrence added an occurrence;
// each is compared against the single original. An empty slice is
// returned unchanged.
func (f *Fallback) RemoveInferredStatusIfNeeded(original Task, edited []Task) []Task {
	if len(edited) == 0 {
		return edited
	}
	result := make([]Task, len(edited))
	for i, t := range edited {
		result[i] = retractInferred(original, t)
	}
	return result
}

func retractInferred(original, t Task) Task {
	for status, field := range completionFields {
		if t.Status == status {
			continue
		}
		d := t.Date(field)
		if d == nil {
			continue
		}
		inferredHere := t.IsInferred(field)
		inferredBefore := original.IsInferred(field) &&
			original.Date(field) != nil && original.Date(field).Equal(*d)
		if inferredHere || inferredBefore {
			t = t.clone()
			t.setDate(field, nil)
			delete(t.inferred, field)
		}
	}
	return t
}
