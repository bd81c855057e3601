package task

import (
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/config"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
)

// EditRequest is what an edit surface submits: the new description as
// shown to the user (without the Global Filter) and an optional status.
type EditRequest struct {
	Description string
	Status      *Status
}

// Editor folds edit submissions into re-derived Tasks.
type Editor struct {
	filter   *globalfilter.Filter
	settings config.Settings
	parser   *Parser
	fallback *Fallback
}

// NewEditor returns an editor. now may be nil to use the wall clock.
func NewEditor(filter *globalfilter.Filter, settings config.Settings, now func() time.Time) *Editor {
	fb := NewFallback(settings)
	if now != nil {
		fb.Now = now
	}
	return &Editor{
		filter:   filter,
		settings: settings,
		parser:   NewParser(filter),
		fallback: fb,
	}
}

// Fallback returns the date fallback the editor applies.
func (e *Editor) Fallback() *Fallback {
	return e.fallback
}

// EditableDescription returns the description an edit surface shows.
func (e *Editor) EditableDescription(t Task) string {
	return t.Description
}

// Apply re-derives original with the submitted description and status.
// The result holds the edited task and, when completing a recurring task,
// its next occurrence, already reconciled by RemoveInferredStatusIfNeeded.
func (e *Editor) Apply(original Task, req EditRequest) ([]Task, error) {
	edited := e.rederive(original, strings.TrimSpace(req.Description))
	// Checked after re-deriving: a submission holding only the filter or
	// metadata leaves nothing behind.
	if edited.Description == "" {
		return nil, clierr.New(clierr.EmptyDescription, "task description must not be empty").
			WithDetails(map[string]any{"path": original.Path, "line": original.LineNumber})
	}
	if !original.HasCheckbox {
		// Turning a plain line into a task creates it.
		edited = e.fallback.InferCreatedDate(edited)
	}

	if req.Status != nil && *req.Status != edited.Status {
		edited = edited.WithStatus(*req.Status)
		edited = e.fallback.InferDateIfNeeded(edited, original.Status)
	}

	result := e.expandRecurrence(original, edited)
	return e.fallback.RemoveInferredStatusIfNeeded(original, result), nil
}

// Toggle moves t to its next status (see Status.Next). A plain list item
// becomes an open task. The description is not re-derived, so text left in
// it by the parser stays untouched.
func (e *Editor) Toggle(t Task) []Task {
	next := t.Status.Next()
	if !t.HasCheckbox {
		next = Todo
	}

	edited := t.WithStatus(next)
	if !e.filter.IsEmpty() {
		edited.GlobalFilterPresent = true
	}
	if !t.HasCheckbox {
		edited = e.fallback.InferCreatedDate(edited)
	}
	edited = e.fallback.InferDateIfNeeded(edited, t.Status)

	result := e.expandRecurrence(t, edited)
	return e.fallback.RemoveInferredStatusIfNeeded(t, result)
}

// rederive rebuilds original around a new description. Metadata tokens
// typed into the description override the original's fields; everything
// else, including in-memory date provenance, carries over.
func (e *Editor) rederive(original Task, description string) Task {
	m := e.parser.parseBody(description)

	t := original.clone()
	t.Description = m.description
	t.Tags = m.tags
	t.GlobalFilterPresent = !e.filter.IsEmpty()
	if m.hasPriority {
		t.Priority = m.priority
	}
	if m.recurrence != nil {
		t.Recurrence = m.recurrence
	}
	if m.blockLink != "" {
		t.BlockLink = m.blockLink
	}
	for _, f := range DateFields {
		if d, ok := m.dates[f]; ok {
			t.setDate(f, &d)
			delete(t.inferred, f)
		}
	}
	if !t.HasCheckbox {
		t = t.WithStatus(Todo)
	}
	return t
}

func (e *Editor) expandRecurrence(original, edited Task) []Task {
	if edited.Status != Done || original.Status == Done || edited.Recurrence == nil {
		return []Task{edited}
	}
	today := e.fallback.today()
	next := edited.Recurrence.Next(edited, today)
	if next == nil {
		return []Task{edited}
	}
	occurrence := *next
	occurrence.CreatedDate = nil
	occurrence = e.fallback.InferCreatedDate(occurrence)

	if e.settings.RecurrencePosition == config.RecurrenceBelow {
		return []Task{edited, occurrence}
	}
	return []Task{occurrence, edited}
}
