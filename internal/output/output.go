// Package output handles formatting CLI output as table, JSON, or compact.
package output

import (
	"os"
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

// EnvOutput names the environment variable that picks the default format.
const EnvOutput = "TASKLINES_OUTPUT"

// Format represents an output format.
type Format int

const (
	// FormatAuto uses the default format (table).
	FormatAuto Format = iota
	// FormatJSON outputs JSON.
	FormatJSON
	// FormatTable outputs a human-readable table.
	FormatTable
	// FormatCompact outputs one-line-per-record compact format.
	FormatCompact
)

// Resolve picks the output format from the format flags, then EnvOutput,
// then table. Setting more than one flag is an INVALID_INPUT error, as is
// an EnvOutput value naming no format.
func Resolve(jsonFlag, tableFlag, compactFlag bool) (Format, error) {
	var set []string
	if jsonFlag {
		set = append(set, "--json")
	}
	if tableFlag {
		set = append(set, "--table")
	}
	if compactFlag {
		set = append(set, "--compact")
	}
	if len(set) > 1 {
		return FormatTable, clierr.Newf(clierr.InvalidInput,
			"output flags %s cannot be combined", strings.Join(set, " and ")).
			WithDetails(map[string]any{"flags": set})
	}

	switch {
	case jsonFlag:
		return FormatJSON, nil
	case compactFlag:
		return FormatCompact, nil
	case tableFlag:
		return FormatTable, nil
	}
	return ParseFormat(os.Getenv(EnvOutput))
}

// ParseFormat maps an EnvOutput value to a format. Empty means table.
func ParseFormat(v string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "compact", "oneline":
		return FormatCompact, nil
	}
	return FormatTable, clierr.Newf(clierr.InvalidInput,
		"%s=%q is not an output format (want json, table or compact)", EnvOutput, v).
		WithDetails(map[string]any{"env": EnvOutput, "value": v})
}
