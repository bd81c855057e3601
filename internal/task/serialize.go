package task

import (
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
)

// Serializer renders Tasks as canonical markdown lines.
type Serializer struct {
	filter *globalfilter.Filter
}

// NewSerializer returns a serializer that reinserts filter into tasks that
// carried it. A nil filter behaves like an empty one.
func NewSerializer(filter *globalfilter.Filter) *Serializer {
	return &Serializer{filter: filter}
}

// ToFileLineString renders t in canonical token order: prefix, checkbox,
// description, priority, dates (created, start, scheduled, due, done,
// cancelled), recurrence, block link.
func (s *Serializer) ToFileLineString(t Task) string {
	var b strings.Builder
	b.WriteString(t.Indentation)
	if t.ListMarker != "" {
		b.WriteString(t.ListMarker)
		b.WriteByte(' ')
	}
	if t.HasCheckbox {
		symbol := t.StatusSymbol
		if symbol == 0 {
			symbol = t.Status.Symbol()
		}
		b.WriteByte('[')
		b.WriteRune(symbol)
		b.WriteString("] ")
	}

	b.WriteString(s.Body(t))
	return strings.TrimRight(b.String(), " ")
}

// Body renders everything after the checkbox.
func (s *Serializer) Body(t Task) string {
	description := t.Description
	if t.GlobalFilterPresent {
		description = s.filter.PrependTo(description)
	}

	parts := make([]string, 0, len(DateFields)+4) //nolint:mnd // description, priority, recurrence, block link
	if description != "" {
		parts = append(parts, description)
	}
	if sym := t.Priority.Symbol(); sym != "" {
		parts = append(parts, sym)
	}
	for _, dt := range dateTokens {
		if d := t.Date(dt.field); d != nil {
			parts = append(parts, dt.symbols[0]+" "+d.String())
		}
	}
	if t.Recurrence != nil {
		parts = append(parts, "🔁 "+t.Recurrence.String())
	}
	if t.BlockLink != "" {
		parts = append(parts, t.BlockLink)
	}
	return strings.Join(parts, " ")
}
