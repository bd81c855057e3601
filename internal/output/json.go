package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
)

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// Task lines carry emoji and markdown; keep them readable.
	enc.SetEscapeHTML(false)
	return enc
}

// JSON writes data as indented JSON to w.
func JSON(w io.Writer, data any) error {
	if err := newEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for structured error output.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// JSONError writes e to w as an ErrorResponse. Write failures are ignored;
// there is nowhere left to report them.
func JSONError(w io.Writer, e *clierr.Error) {
	_ = newEncoder(w).Encode(ErrorResponse{Error: e.Message, Code: e.Code, Details: e.Details})
}

// LineResult is the outcome of rewriting one task line.
type LineResult struct {
	Location string   `json:"location"`
	OK       bool     `json:"ok"`
	Changed  bool     `json:"changed"`
	Before   string   `json:"before,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Error    string   `json:"error,omitempty"`
	Code     string   `json:"code,omitempty"`
}

// NormalizeResult reports how many lines a normalize pass rewrote per file.
type NormalizeResult struct {
	Path    string `json:"path"`
	Changed int    `json:"changed"`
}
