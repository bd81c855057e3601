package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/tasklines/internal/date"
	"github.com/twiced-technology-gmbh/tasklines/internal/globalfilter"
)

func newFilter(t *testing.T, token string) *globalfilter.Filter {
	t.Helper()
	f, err := globalfilter.New(token)
	require.NoError(t, err)
	return f
}

func d(s string) *date.Date {
	v, err := date.Parse(s)
	if err != nil {
		panic(err)
	}
	return &v
}

func TestParseFullLine(t *testing.T) {
	p := NewParser(newFilter(t, "#task"))
	got := p.ParseAt("- [ ] #task water the plants ⏫ 📅 2024-06-01 🔁 every week", "garden.md", 4)

	assert.True(t, got.HasCheckbox)
	assert.Equal(t, Todo, got.Status)
	assert.Equal(t, "water the plants", got.Description)
	assert.Equal(t, High, got.Priority)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-06-01", got.DueDate.String())
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, "every week", got.Recurrence.String())
	assert.True(t, got.GlobalFilterPresent)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "garden.md", got.Path)
	assert.Equal(t, 4, got.LineNumber)
	assert.Equal(t, "-", got.ListMarker)
}

func TestParseAllDateFields(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [x] ship ➕ 2024-01-01 🛫 2024-01-02 ⏳ 2024-01-03 📅 2024-01-04 ✅ 2024-01-05 ❌ 2024-01-06", "")

	assert.Equal(t, "ship", got.Description)
	assert.Equal(t, Done, got.Status)
	want := map[DateField]string{
		CreatedDate:   "2024-01-01",
		StartDate:     "2024-01-02",
		ScheduledDate: "2024-01-03",
		DueDate:       "2024-01-04",
		DoneDate:      "2024-01-05",
		CancelledDate: "2024-01-06",
	}
	for f, v := range want {
		require.NotNil(t, got.Date(f), f.String())
		assert.Equal(t, v, got.Date(f).String(), f.String())
		assert.False(t, got.IsInferred(f))
	}
}

func TestParseAlternateSymbols(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] a ⌛ 2024-03-01 📆 2024-03-02", "")
	require.NotNil(t, got.ScheduledDate)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-03-01", got.ScheduledDate.String())
	assert.Equal(t, "2024-03-02", got.DueDate.String())
	assert.Equal(t, "a", got.Description)
}

func TestParsePrefixes(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		line        string
		indentation string
		marker      string
		status      Status
		symbol      rune
	}{
		{"- [ ] a", "", "-", Todo, ' '},
		{"* [/] a", "", "*", InProgress, '/'},
		{"+ [x] a", "", "+", Done, 'x'},
		{"    - [X] a", "    ", "-", Done, 'X'},
		{"1. [-] a", "", "1.", Cancelled, '-'},
		{"12) [ ] a", "", "12)", Todo, ' '},
		{"> - [ ] a", "> ", "-", Todo, ' '},
		{"\t- [?] a", "\t", "-", Todo, '?'},
	}
	for _, tt := range tests {
		got := p.Parse(tt.line, "")
		assert.True(t, got.HasCheckbox, tt.line)
		assert.Equal(t, tt.indentation, got.Indentation, tt.line)
		assert.Equal(t, tt.marker, got.ListMarker, tt.line)
		assert.Equal(t, tt.status, got.Status, tt.line)
		assert.Equal(t, tt.symbol, got.StatusSymbol, tt.line)
		assert.Equal(t, "a", got.Description, tt.line)
	}
}

func TestParseNonTaskLines(t *testing.T) {
	p := NewParser(nil)

	plain := p.Parse("Just a paragraph 📅 2024-06-01", "")
	assert.False(t, plain.HasCheckbox)
	assert.Equal(t, NonTask, plain.Status)
	assert.False(t, plain.IsTask())
	assert.Equal(t, "Just a paragraph", plain.Description)
	assert.Equal(t, "", plain.ListMarker)

	item := p.Parse("  - buy milk", "")
	assert.False(t, item.HasCheckbox)
	assert.Equal(t, "-", item.ListMarker)
	assert.Equal(t, "  ", item.Indentation)
	assert.Equal(t, "buy milk", item.Description)

	noSpace := p.Parse("-[ ] squeezed", "")
	assert.False(t, noSpace.HasCheckbox)
}

func TestParseEmptyBody(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ]", "")
	assert.True(t, got.HasCheckbox)
	assert.Equal(t, "", got.Description)

	got = p.Parse("- [ ]   ", "")
	assert.True(t, got.HasCheckbox)
	assert.Equal(t, "", got.Description)
}

func TestParseTrailingTagsInterleaved(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] do it #a 📅 2024-06-01 #b", "")
	assert.Equal(t, "do it #a #b", got.Description)
	assert.Equal(t, []string{"#a", "#b"}, got.Tags)
	require.NotNil(t, got.DueDate)
}

func TestParseTagsInDescription(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] call #home about #bills/2024 today", "")
	assert.Equal(t, []string{"#home", "#bills/2024"}, got.Tags)
	assert.Equal(t, "call #home about #bills/2024 today", got.Description)
}

func TestParseDuplicateTokenStopsLoop(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] task 📅 2024-01-01 📅 2024-02-02", "")
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-02-02", got.DueDate.String())
	assert.Equal(t, "task 📅 2024-01-01", got.Description)

	got = p.Parse("- [ ] task ⏫ 🔽", "")
	assert.Equal(t, Low, got.Priority)
	assert.Equal(t, "task ⏫", got.Description)
}

func TestParseInvalidTokenStaysInDescription(t *testing.T) {
	p := NewParser(nil)

	got := p.Parse("- [ ] task 📅 2024-02-30", "")
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "task 📅 2024-02-30", got.Description)

	got = p.Parse("- [ ] task 🔁 every blue moon", "")
	assert.Nil(t, got.Recurrence)
	assert.Equal(t, "task 🔁 every blue moon", got.Description)
}

func TestParseTokenInMiddleIsDescription(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] due 📅 2024-06-01 but not really", "")
	assert.Nil(t, got.DueDate)
	assert.Equal(t, "due 📅 2024-06-01 but not really", got.Description)
}

func TestParseBlockLink(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] task 📅 2024-06-01 ^abc-1", "")
	assert.Equal(t, "^abc-1", got.BlockLink)
	assert.Equal(t, "task", got.Description)
	require.NotNil(t, got.DueDate)
}

func TestParseVariationSelector(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] task 📅\uFE0F 2024-06-01", "")
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "task", got.Description)
}

func TestParseGlobalFilter(t *testing.T) {
	p := NewParser(newFilter(t, "#task"))

	got := p.Parse("- [ ] buy milk", "")
	assert.False(t, got.GlobalFilterPresent)
	assert.Equal(t, "buy milk", got.Description)

	got = p.Parse("- [ ] buy #task milk", "")
	assert.True(t, got.GlobalFilterPresent)
	assert.Equal(t, "buy milk", got.Description)

	got = p.Parse("- [ ] buy milk #task ⏫", "")
	assert.True(t, got.GlobalFilterPresent)
	assert.Equal(t, "buy milk", got.Description)
	assert.Equal(t, High, got.Priority)

	got = p.Parse("- [ ] nested #task/sub", "")
	assert.False(t, got.GlobalFilterPresent)
	assert.Equal(t, []string{"#task/sub"}, got.Tags)
}

func TestParseStripsRepeatedGlobalFilter(t *testing.T) {
	p := NewParser(newFilter(t, "#task"))
	s := NewSerializer(newFilter(t, "#task"))

	got := p.Parse("- [ ] #task a #task", "")
	assert.True(t, got.GlobalFilterPresent)
	assert.Equal(t, "a", got.Description)
	assert.Empty(t, got.Tags)
	assert.Equal(t, "- [ ] #task a", s.ToFileLineString(got))
}

func TestParseCollapsesSpaces(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ]   lots   of    space  ", "")
	assert.Equal(t, "lots of space", got.Description)
}

func TestParseCRLF(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] windows 📅 2024-06-01\r\n", "")
	assert.Equal(t, "windows", got.Description)
	assert.Equal(t, "- [ ] windows 📅 2024-06-01", got.OriginalMarkdown)
}

func TestParseDefaults(t *testing.T) {
	p := NewParser(nil)
	got := p.Parse("- [ ] plain", "")
	assert.Equal(t, Normal, got.Priority)
	assert.Nil(t, got.Recurrence)
	assert.Equal(t, "", got.BlockLink)
	for _, f := range DateFields {
		assert.Nil(t, got.Date(f), f.String())
	}
}

func TestParseBoundsLongTokenRuns(t *testing.T) {
	p := NewParser(nil)
	tags := strings.Repeat(" #t", 40)
	got := p.Parse("- [ ] many"+tags, "")
	assert.Len(t, got.Tags, 40)
}

func TestParseNeverPanics(t *testing.T) {
	p := NewParser(newFilter(t, "#task"))
	inputs := []string{
		"", " ", "-", "- [", "- []", "- [ ", "[ ] x", "#task", "- [ ] #task",
		"- [ ] 📅", "- [ ] 🔁", "- [ ] ^", "- [é] accent", "\x00\x01",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { p.Parse(in, "") }, in)
	}
}

func TestDateHelpers(t *testing.T) {
	base := NewParser(nil).Parse("- [ ] a", "")
	edited := base.WithDate(DueDate, d("2024-06-01"))
	assert.Nil(t, base.DueDate)
	require.NotNil(t, edited.DueDate)

	ref, field, ok := edited.WithDate(StartDate, d("2024-05-01")).ReferenceDate()
	require.True(t, ok)
	assert.Equal(t, DueDate, field)
	assert.Equal(t, "2024-06-01", ref.String())

	_, _, ok = base.ReferenceDate()
	assert.False(t, ok)

	f, ok := ParseDateField("scheduled")
	assert.True(t, ok)
	assert.Equal(t, ScheduledDate, f)
	_, ok = ParseDateField("deadline")
	assert.False(t, ok)

	clone := edited.WithDescription("b")
	assert.NotSame(t, edited.DueDate, clone.DueDate)
	assert.Equal(t, "a", edited.Description)
}
