// Package config handles tasklines settings.
package config

const (
	// ConfigFileName is the settings file looked up from the working directory upward.
	ConfigFileName = ".tasklines.yml"

	// ActivityLogName is the activity log written next to the settings file.
	ActivityLogName = ".tasklines-activity.jsonl"

	// CurrentVersion is the current settings schema version.
	CurrentVersion = 3

	// RecurrenceAbove places the next occurrence of a recurring task above the completed one.
	RecurrenceAbove = "above"
	// RecurrenceBelow places it below.
	RecurrenceBelow = "below"

	// DefaultRecurrencePosition is used when recurrence_position is unset.
	DefaultRecurrencePosition = RecurrenceAbove
)

// Defaults for a fresh settings file. The Global Filter is empty: every
// checklist line is a task.
const (
	DefaultSetCreatedDate   = false
	DefaultSetDoneDate      = true
	DefaultSetCancelledDate = true
)

// RecurrencePositions lists the accepted recurrence_position values.
var RecurrencePositions = []string{RecurrenceAbove, RecurrenceBelow}
