package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerializeRoundTripCanonical(t *testing.T) {
	filter := newFilter(t, "#task")
	p, s := NewParser(filter), NewSerializer(filter)

	lines := []string{
		"- [ ] #task water the plants ⏫ 📅 2024-06-01 🔁 every week",
		"- [x] #task ship ➕ 2024-01-01 🛫 2024-01-02 ⏳ 2024-01-03 📅 2024-01-04 ✅ 2024-01-05",
		"  * [/] #task nested work 🔽",
		"1. [-] #task dropped ❌ 2024-02-01",
		"- [ ] no filter here #home",
		"- [X] #task upper-case done",
		"- [?] #task custom symbol",
		"- [ ] #task linked 📅 2024-06-01 ^abc",
		"- [ ] #task weekly 🔁 every 2 weeks on monday when done",
		"- [ ]",
		"> - [ ] #task quoted",
	}
	for _, line := range lines {
		assert.Equal(t, line, s.ToFileLineString(p.Parse(line, "")), line)
	}
}

func TestSerializeReordersTokens(t *testing.T) {
	p, s := NewParser(nil), NewSerializer(nil)
	got := s.ToFileLineString(p.Parse("- [ ] do it 📅 2024-06-01 ⏫ ➕ 2024-05-01", ""))
	assert.Equal(t, "- [ ] do it ⏫ ➕ 2024-05-01 📅 2024-06-01", got)

	got = s.ToFileLineString(p.Parse("- [ ] task 🔁 every day 📆 2024-06-01", ""))
	assert.Equal(t, "- [ ] task 📅 2024-06-01 🔁 every day", got)
}

func TestSerializeIdempotent(t *testing.T) {
	filter := newFilter(t, "#task")
	p, s := NewParser(filter), NewSerializer(filter)

	lines := []string{
		"- [ ] buy #task milk 📅 2024-06-01 ⏫",
		"- [ ]   spaced    out   #task",
		"- [ ] a #x 📅 2024-06-01 #y",
		"- [ ] task 📅 2024-01-01 📅 2024-02-02",
		"- [ ] bad 📅 2024-02-30",
	}
	for _, line := range lines {
		once := s.ToFileLineString(p.Parse(line, ""))
		twice := s.ToFileLineString(p.Parse(once, ""))
		assert.Equal(t, once, twice, line)
	}
}

func TestSerializeMovesFilterToFront(t *testing.T) {
	filter := newFilter(t, "#task")
	p, s := NewParser(filter), NewSerializer(filter)
	assert.Equal(t, "- [ ] #task buy milk", s.ToFileLineString(p.Parse("- [ ] buy #task milk", "")))
}

func TestSerializeFilterTransparent(t *testing.T) {
	// Parsing with a filter and serializing with the same filter keeps a
	// line that already has it in front unchanged.
	for _, token := range []string{"#task", "TODO"} {
		filter := newFilter(t, token)
		p, s := NewParser(filter), NewSerializer(filter)
		line := "- [ ] " + token + " read the book 📅 2024-06-01"
		parsed := p.Parse(line, "")
		assert.True(t, parsed.GlobalFilterPresent)
		assert.Equal(t, "read the book", parsed.Description)
		assert.Equal(t, line, s.ToFileLineString(parsed))
	}
}

func TestSerializeFallsBackToStatusSymbol(t *testing.T) {
	s := NewSerializer(nil)
	task := Task{Description: "fresh", HasCheckbox: true, ListMarker: "-", Status: Done, Priority: Normal}
	assert.Equal(t, "- [x] fresh", s.ToFileLineString(task))
}

func TestSerializeBody(t *testing.T) {
	filter := newFilter(t, "#task")
	s := NewSerializer(filter)
	task := Task{
		Description:         "body only",
		Priority:            Highest,
		DueDate:             d("2024-06-01"),
		GlobalFilterPresent: true,
	}
	assert.Equal(t, "#task body only 🔺 📅 2024-06-01", s.Body(task))
}
