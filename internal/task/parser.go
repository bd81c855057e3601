package task

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
)

// maxTrailingTokens bounds the trailing-token loop; each field is consumed
// at most once, so a well-formed line never needs more iterations.
const maxTrailingTokens = 32

var (
	// taskLineRe splits indentation, list marker, checkbox symbol and body.
	taskLineRe = regexp.MustCompile(`^([\s>]*)([-*+]|\d+[.)])[ \t]+\[(.)\](?:[ \t]+(.*)|[ \t]*)$`)
	// listItemRe matches list items without a checkbox.
	listItemRe = regexp.MustCompile(`^([\s>]*)([-*+]|\d+[.)])(?:[ \t]+(.*)|[ \t]*)$`)

	blockLinkRe       = regexp.MustCompile(`(?:^|\s)(\^[A-Za-z0-9-]+)$`)
	priorityRe        = regexp.MustCompile(`(?:^|\s)(🔺|⏫|🔼|🔽|⏬)\x{FE0F}?$`)
	recurrenceTokenRe = regexp.MustCompile(`(?:^|\s)🔁\x{FE0F}? *([a-zA-Z0-9, !]+)$`)
	trailingTagRe     = regexp.MustCompile(`(?:^|\s)(#[^\s#]+)$`)
	tagRe             = regexp.MustCompile(`(?:^|\s)(#[^\s#]+)`)
)

// dateTokens lists the date field patterns. The first symbol of each
// entry is the one written by the serializer.
var dateTokens = []struct {
	field   DateField
	symbols []string
	re      *regexp.Regexp
}{
	{CreatedDate, []string{"➕"}, nil},
	{StartDate, []string{"🛫"}, nil},
	{ScheduledDate, []string{"⏳", "⌛"}, nil},
	{DueDate, []string{"📅", "📆", "🗓"}, nil},
	{DoneDate, []string{"✅"}, nil},
	{CancelledDate, []string{"❌"}, nil},
}

func init() {
	for i := range dateTokens {
		alts := make([]string, len(dateTokens[i].symbols))
		for j, s := range dateTokens[i].symbols {
			alts[j] = regexp.QuoteMeta(s)
		}
		dateTokens[i].re = regexp.MustCompile(
			`(?:^|\s)(?:` + strings.Join(alts, "|") + `)\x{FE0F}? *(\d{4}-\d{2}-\d{2})$`)
	}
}

// Parser converts markdown lines into Tasks. It never fails: anything it
// does not recognize stays in the description.
type Parser struct {
	filter *globalfilter.Filter
}

// NewParser returns a parser that strips filter from descriptions. A nil
// filter behaves like an empty one.
func NewParser(filter *globalfilter.Filter) *Parser {
	return &Parser{filter: filter}
}

// Parse parses a single line read from path.
func (p *Parser) Parse(line, path string) Task {
	return p.ParseAt(line, path, 0)
}

// ParseAt parses a single line and records its zero-based line number.
func (p *Parser) ParseAt(line, path string, lineNumber int) Task {
	line = strings.TrimRight(line, "\r\n")
	t := Task{
		OriginalMarkdown: line,
		Path:             path,
		LineNumber:       lineNumber,
		Priority:         Normal,
	}

	body, ok := p.splitCheckbox(line, &t)
	if !ok {
		t.Status = NonTask
		t.StatusSymbol = 0
		body = p.splitListItem(line, &t)
	}

	m := p.parseBody(body)
	m.applyTo(&t)
	return t
}

func (p *Parser) splitCheckbox(line string, t *Task) (string, bool) {
	m := taskLineRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	symbol, _ := utf8.DecodeRuneInString(m[3])
	t.Indentation = m[1]
	t.ListMarker = m[2]
	t.HasCheckbox = true
	t.StatusSymbol = symbol
	t.Status = StatusFromSymbol(symbol)
	return m[4], true
}

func (p *Parser) splitListItem(line string, t *Task) string {
	if m := listItemRe.FindStringSubmatch(line); m != nil {
		t.Indentation = m[1]
		t.ListMarker = m[2]
		return m[3]
	}
	trimmed := strings.TrimLeft(line, " \t")
	t.Indentation = line[:len(line)-len(trimmed)]
	return trimmed
}

// metadata is what the trailing-token loop extracted from a body.
type metadata struct {
	description   string
	tags          []string
	dates         map[DateField]date.Date
	priority      Priority
	hasPriority   bool
	recurrence    *Recurrence
	blockLink     string
	filterPresent bool
}

// parseBody extracts the block link, trailing metadata tokens and tags
// from body. Tokens are consumed right to left; the first token that is
// not recognized, or repeats a field already taken, ends the loop and
// everything left of it is description.
func (p *Parser) parseBody(body string) metadata {
	m := metadata{dates: make(map[DateField]date.Date), priority: Normal}
	rest := strings.TrimSpace(body)

	if loc := blockLinkRe.FindStringSubmatchIndex(rest); loc != nil {
		m.blockLink = rest[loc[2]:loc[3]]
		rest = strings.TrimSpace(rest[:loc[0]])
	}

	var trailingTags []string
	for i := 0; i < maxTrailingTokens; i++ {
		var matched bool
		rest, matched = p.consumeToken(rest, &m, &trailingTags)
		if !matched {
			break
		}
	}

	if len(trailingTags) > 0 {
		parts := append([]string{rest}, trailingTags...)
		rest = strings.TrimSpace(strings.Join(parts, " "))
	}

	m.filterPresent = !p.filter.IsEmpty() && p.filter.Matches(rest)
	if m.filterPresent {
		rest = p.filter.RemoveAll(rest)
	}
	m.description = collapseSpaces(rest)

	for _, sm := range tagRe.FindAllStringSubmatch(m.description, -1) {
		m.tags = append(m.tags, sm[1])
	}
	return m
}

// consumeToken strips one recognized metadata token from the end of rest.
func (p *Parser) consumeToken(rest string, m *metadata, trailingTags *[]string) (string, bool) {
	for _, dt := range dateTokens {
		loc := dt.re.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		if _, seen := m.dates[dt.field]; seen {
			return rest, false
		}
		d, err := date.Parse(rest[loc[2]:loc[3]])
		if err != nil {
			return rest, false
		}
		m.dates[dt.field] = d
		return strings.TrimSpace(rest[:loc[0]]), true
	}

	if loc := priorityRe.FindStringSubmatchIndex(rest); loc != nil {
		if m.hasPriority {
			return rest, false
		}
		m.priority, _ = priorityFromSymbol(rest[loc[2]:loc[3]])
		m.hasPriority = true
		return strings.TrimSpace(rest[:loc[0]]), true
	}

	if loc := recurrenceTokenRe.FindStringSubmatchIndex(rest); loc != nil {
		if m.recurrence != nil {
			return rest, false
		}
		r, err := ParseRecurrence(rest[loc[2]:loc[3]])
		if err != nil {
			return rest, false
		}
		m.recurrence = r
		return strings.TrimSpace(rest[:loc[0]]), true
	}

	if loc := trailingTagRe.FindStringSubmatchIndex(rest); loc != nil {
		// Tags mixed into the metadata are collected and put back at the
		// end of the description in their original order.
		*trailingTags = append([]string{rest[loc[2]:loc[3]]}, *trailingTags...)
		return strings.TrimSpace(rest[:loc[0]]), true
	}

	return rest, false
}

// applyTo copies extracted metadata into t, replacing all derived fields.
func (m metadata) applyTo(t *Task) {
	t.Description = m.description
	t.Tags = m.tags
	t.Priority = m.priority
	t.Recurrence = m.recurrence
	t.BlockLink = m.blockLink
	t.GlobalFilterPresent = m.filterPresent
	for _, f := range DateFields {
		if d, ok := m.dates[f]; ok {
			t.setDate(f, &d)
		} else {
			t.setDate(f, nil)
		}
	}
	t.inferred = nil
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
