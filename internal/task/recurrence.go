package task

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/date"
)

// Frequency is the unit a recurrence steps by.
type Frequency int

// Recurrence frequencies.
const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

var frequencyUnits = map[string]Frequency{
	"day":   Daily,
	"week":  Weekly,
	"month": Monthly,
	"year":  Yearly,
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var workWeek = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

var (
	recurrenceRe = regexp.MustCompile(
		`^every(?:\s+(\d+))?\s+(day|week|month|year)s?(?:\s+on\s+([a-z,\s]+?))?(\s+when\s+done)?$`)
	weekdayRuleRe = regexp.MustCompile(`^every\s+weekday(\s+when\s+done)?$`)
)

// Recurrence is a parsed "every ..." rule.
type Recurrence struct {
	Interval  int            `json:"interval"`
	Frequency Frequency      `json:"frequency"`
	Weekdays  []time.Weekday `json:"weekdays,omitempty"`
	WhenDone  bool           `json:"when_done,omitempty"`

	// Text is the rule as written, kept for round-tripping.
	Text string `json:"text"`
}

// ParseRecurrence parses a rule such as "every 2 weeks on monday when done".
func ParseRecurrence(text string) (*Recurrence, error) {
	raw := strings.TrimSpace(text)
	norm := strings.Join(strings.Fields(strings.ToLower(raw)), " ")

	if m := weekdayRuleRe.FindStringSubmatch(norm); m != nil {
		return &Recurrence{
			Interval:  1,
			Frequency: Weekly,
			Weekdays:  slices.Clone(workWeek),
			WhenDone:  m[1] != "",
			Text:      raw,
		}, nil
	}

	m := recurrenceRe.FindStringSubmatch(norm)
	if m == nil {
		return nil, invalidRecurrence(raw)
	}

	r := &Recurrence{Interval: 1, Frequency: frequencyUnits[m[2]], WhenDone: m[4] != "", Text: raw}
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, invalidRecurrence(raw)
		}
		r.Interval = n
	}
	if m[3] != "" {
		if r.Frequency != Weekly {
			return nil, invalidRecurrence(raw)
		}
		for _, part := range strings.Split(m[3], ",") {
			name := strings.TrimSpace(part)
			wd, ok := weekdayNames[name]
			if !ok {
				return nil, invalidRecurrence(raw)
			}
			if !slices.Contains(r.Weekdays, wd) {
				r.Weekdays = append(r.Weekdays, wd)
			}
		}
		slices.Sort(r.Weekdays)
	}
	return r, nil
}

func invalidRecurrence(text string) *clierr.Error {
	return clierr.Newf(clierr.InvalidRecurrence, "invalid recurrence rule %q", text).
		WithDetails(map[string]any{"rule": text})
}

// String returns the rule text.
func (r *Recurrence) String() string {
	if r.Text != "" {
		return r.Text
	}
	return r.canonical()
}

func (r *Recurrence) canonical() string {
	units := [...]string{Daily: "day", Weekly: "week", Monthly: "month", Yearly: "year"}
	var b strings.Builder
	b.WriteString("every ")
	if r.Interval > 1 {
		fmt.Fprintf(&b, "%d %ss", r.Interval, units[r.Frequency])
	} else {
		b.WriteString(units[r.Frequency])
	}
	if len(r.Weekdays) > 0 {
		names := make([]string, len(r.Weekdays))
		for i, wd := range r.Weekdays {
			names[i] = strings.ToLower(wd.String())
		}
		b.WriteString(" on " + strings.Join(names, ", "))
	}
	if r.WhenDone {
		b.WriteString(" when done")
	}
	return b.String()
}

// NextDate returns the first occurrence after from.
func (r *Recurrence) NextDate(from date.Date) date.Date {
	switch r.Frequency {
	case Daily:
		return from.AddDays(r.Interval)
	case Weekly:
		if len(r.Weekdays) == 0 {
			return from.AddDays(7 * r.Interval) //nolint:mnd // days per week
		}
		return r.nextWeekday(from)
	case Monthly:
		return from.AddMonths(r.Interval)
	case Yearly:
		return from.AddMonths(12 * r.Interval) //nolint:mnd // months per year
	}
	return from
}

// nextWeekday finds the next listed weekday after from. Crossing into a new
// week skips Interval-1 further weeks.
func (r *Recurrence) nextWeekday(from date.Date) date.Date {
	d := from
	for i := 0; i < 7; i++ { //nolint:mnd // days per week
		d = d.AddDays(1)
		if d.Weekday() == time.Monday && r.Interval > 1 {
			d = d.AddDays(7 * (r.Interval - 1)) //nolint:mnd // days per week
		}
		if slices.Contains(r.Weekdays, d.Weekday()) {
			return d
		}
	}
	return d
}

// Next returns the next occurrence of t, or nil when the rule has no date
// to anchor to. The reference date is due, else scheduled, else start; a
// "when done" rule counts from today instead. All present anchor dates
// shift by the same number of days.
func (r *Recurrence) Next(t Task, today date.Date) *Task {
	ref, _, ok := t.ReferenceDate()

	next := t.clone()
	next.Status = Todo
	next.StatusSymbol = Todo.Symbol()
	next.DoneDate = nil
	next.CancelledDate = nil
	next.BlockLink = ""
	next.inferred = nil
	next.OriginalMarkdown = ""

	if !ok {
		if !r.WhenDone {
			return nil
		}
		return &next
	}

	base := *ref
	if r.WhenDone {
		base = today
	}
	shift := ref.DaysUntil(r.NextDate(base))

	for _, f := range []DateField{StartDate, ScheduledDate, DueDate} {
		if d := t.Date(f); d != nil {
			next.setDate(f, d.AddDays(shift).Ptr())
		}
	}
	return &next
}
