package task

import "strings"

// Status is the lifecycle state of a task line.
type Status int

// Task statuses.
const (
	Todo Status = iota
	InProgress
	Done
	Cancelled
	NonTask
)

type statusInfo struct {
	name   string
	symbol rune
}

var statusTable = [...]statusInfo{
	Todo:       {name: "todo", symbol: ' '},
	InProgress: {name: "in-progress", symbol: '/'},
	Done:       {name: "done", symbol: 'x'},
	Cancelled:  {name: "cancelled", symbol: '-'},
	NonTask:    {name: "non-task", symbol: 'Q'},
}

// symbolStatus maps every recognized checkbox symbol, including
// alternates, to its status.
var symbolStatus = map[rune]Status{
	' ': Todo,
	'/': InProgress,
	'x': Done,
	'X': Done,
	'-': Cancelled,
	'Q': NonTask,
}

// DefaultStatusOptions is the ordered list of statuses an edit surface offers.
var DefaultStatusOptions = []Status{Todo, InProgress, Done, Cancelled}

// StatusFromSymbol maps a checkbox symbol to a status. Unknown symbols map
// to Todo.
func StatusFromSymbol(symbol rune) Status {
	if s, ok := symbolStatus[symbol]; ok {
		return s
	}
	return Todo
}

// Symbol returns the canonical checkbox symbol for s.
func (s Status) Symbol() rune {
	if s < 0 || int(s) >= len(statusTable) {
		return ' '
	}
	return statusTable[s].symbol
}

// String returns the status name used in flags and JSON output.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusTable) {
		return "unknown"
	}
	return statusTable[s].name
}

// IsDoneClass reports whether s conventionally carries a completion date.
func (s Status) IsDoneClass() bool {
	return s == Done || s == Cancelled
}

// Next returns the status a toggle moves to.
func (s Status) Next() Status {
	switch s {
	case Todo, InProgress:
		return Done
	case Done, Cancelled:
		return Todo
	default:
		return s
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus parses a status name as accepted on the command line.
func ParseStatus(name string) (Status, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, info := range statusTable {
		if info.name == n {
			return Status(i), nil
		}
	}
	switch n {
	case "in_progress", "inprogress":
		return InProgress, nil
	case "canceled":
		return Cancelled, nil
	}
	return Todo, ValidateStatus(name)
}

// StatusNames returns all status names in table order.
func StatusNames() []string {
	names := make([]string, len(statusTable))
	for i, info := range statusTable {
		names[i] = info.name
	}
	return names
}
