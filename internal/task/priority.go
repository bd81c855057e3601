package task

import "strings"

// Priority orders tasks from Highest to Lowest. Normal carries no token.
type Priority int

// Priorities, most urgent first.
const (
	Highest Priority = iota
	High
	Medium
	Normal
	Low
	Lowest
)

// Priorities lists all priorities, most urgent first.
var Priorities = []Priority{Highest, High, Medium, Normal, Low, Lowest}

var priorityNames = [...]string{
	Highest: "highest",
	High:    "high",
	Medium:  "medium",
	Normal:  "normal",
	Low:     "low",
	Lowest:  "lowest",
}

var prioritySymbols = [...]string{
	Highest: "🔺",
	High:    "⏫",
	Medium:  "🔼",
	Normal:  "",
	Low:     "🔽",
	Lowest:  "⏬",
}

// String returns the priority name.
func (p Priority) String() string {
	if p < 0 || int(p) >= len(priorityNames) {
		return "unknown"
	}
	return priorityNames[p]
}

// Symbol returns the emoji token for p, or "" for Normal.
func (p Priority) Symbol() string {
	if p < 0 || int(p) >= len(prioritySymbols) {
		return ""
	}
	return prioritySymbols[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func priorityFromSymbol(symbol string) (Priority, bool) {
	for i, s := range prioritySymbols {
		if s != "" && s == symbol {
			return Priority(i), true
		}
	}
	return Normal, false
}

// ParsePriority parses a priority name as accepted on the command line.
func ParsePriority(name string) (Priority, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, pn := range priorityNames {
		if pn == n {
			return Priority(i), nil
		}
	}
	return Normal, ValidatePriority(name)
}
