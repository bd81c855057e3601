package board

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	logFileMode   = 0o600
	maxLogEntries = 10000 // oldest entries are dropped beyond this
)

// LogEntry is one recorded mutation of a task line.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Path      string    `json:"path"`
	Line      int       `json:"line"`
	Detail    string    `json:"detail"`
}

// LogQuery selects activity log entries. The zero value selects all.
type LogQuery struct {
	Action string // only entries with this action
	Limit  int    // keep the newest Limit entries when > 0
}

func (q LogQuery) apply(entries []LogEntry) []LogEntry {
	if q.Action != "" {
		kept := entries[:0]
		for _, e := range entries {
			if e.Action == q.Action {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return entries
}

// AppendLog appends entry as one JSON line to the log at logPath and trims
// the log to its newest maxLogEntries entries.
func AppendLog(logPath string, entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // log path from settings dir
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	_, err = f.Write(append(data, '\n'))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing log entry: %w", err)
	}

	_ = trimLog(logPath) // a long log is not worth failing the mutation
	return nil
}

// ReadLog returns the entries q selects, oldest first. A missing log has no
// entries; lines that are not valid JSON are skipped.
func ReadLog(logPath string, q LogQuery) ([]LogEntry, error) {
	lines, err := readLogLines(logPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	entries := make([]LogEntry, 0, len(lines))
	for _, line := range lines {
		var e LogEntry
		if json.Unmarshal(line, &e) == nil {
			entries = append(entries, e)
		}
	}
	return q.apply(entries), nil
}

func readLogLines(path string) ([][]byte, error) {
	f, err := os.Open(path) //nolint:gosec // log path from settings dir
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		lines = append(lines, bytes.Clone(scanner.Bytes()))
	}
	return lines, scanner.Err()
}

// trimLog rewrites the log with its newest maxLogEntries lines. The new
// content goes to a temporary file renamed over the log, so a reader never
// sees a half-written log.
func trimLog(path string) error {
	lines, err := readLogLines(path)
	if err != nil || len(lines) <= maxLogEntries {
		return err
	}
	lines = lines[len(lines)-maxLogEntries:]

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		_, _ = w.Write(line)
		_ = w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LogMutation records action on the line at path:line (one-based). It
// never fails: an activity log that cannot be written is ignored.
func LogMutation(logPath, action, path string, line int, detail string) {
	_ = AppendLog(logPath, LogEntry{
		Timestamp: time.Now(),
		Action:    action,
		Path:      path,
		Line:      line,
		Detail:    detail,
	})
}
