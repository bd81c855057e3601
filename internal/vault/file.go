// Package vault reads markdown files into task lines and writes edited
// lines back in place.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/filelock"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

const fileMode = 0o600

// File is a markdown file split into lines. Line endings are restored on
// write.
type File struct {
	Path            string
	Lines           []string
	CRLF            bool
	TrailingNewline bool
}

// Read loads a markdown file.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path supplied by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.Newf(clierr.FileNotFound, "file not found: %s", path).
				WithDetails(map[string]any{"path": path})
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseFile(path, string(data)), nil
}

func parseFile(path, content string) *File {
	f := &File{Path: path}
	if content == "" {
		return f
	}
	f.CRLF = strings.Contains(content, "\r\n")
	if f.CRLF {
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}
	f.TrailingNewline = strings.HasSuffix(content, "\n")
	content = strings.TrimSuffix(content, "\n")
	f.Lines = strings.Split(content, "\n")
	return f
}

// String renders the file content with its original line endings.
func (f *File) String() string {
	if len(f.Lines) == 0 {
		return ""
	}
	sep := "\n"
	if f.CRLF {
		sep = "\r\n"
	}
	out := strings.Join(f.Lines, sep)
	if f.TrailingNewline {
		out += sep
	}
	return out
}

// Write stores the file content.
func (f *File) Write() error {
	return os.WriteFile(f.Path, []byte(f.String()), fileMode)
}

// Task parses the line at zero-based index line.
func (f *File) Task(p *task.Parser, line int) (task.Task, error) {
	if line < 0 || line >= len(f.Lines) {
		return task.Task{}, clierr.Newf(clierr.LineOutOfRange,
			"line %d out of range (%s has %d lines)", line+1, f.Path, len(f.Lines)).
			WithDetails(map[string]any{"path": f.Path, "line": line + 1, "lines": len(f.Lines)})
	}
	return p.ParseAt(f.Lines[line], f.Path, line), nil
}

// Tasks parses every checklist line of the file. Lines without a checkbox
// are skipped; lines whose description lacks a configured Global Filter
// are skipped too, since they are not managed tasks.
func (f *File) Tasks(p *task.Parser, requireFilter bool) []task.Task {
	var tasks []task.Task
	for i, line := range f.Lines {
		t := p.ParseAt(line, f.Path, i)
		if !t.HasCheckbox {
			continue
		}
		if requireFilter && !t.GlobalFilterPresent {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// Replace swaps the line at index line for replacement, which may hold
// zero or more lines.
func (f *File) Replace(line int, replacement []string) error {
	if line < 0 || line >= len(f.Lines) {
		return clierr.Newf(clierr.LineOutOfRange, "line %d out of range", line+1).
			WithDetails(map[string]any{"path": f.Path, "line": line + 1})
	}
	lines := make([]string, 0, len(f.Lines)-1+len(replacement))
	lines = append(lines, f.Lines[:line]...)
	lines = append(lines, replacement...)
	lines = append(lines, f.Lines[line+1:]...)
	f.Lines = lines
	return nil
}

// UpdateFunc maps the task at a line to its replacement tasks.
type UpdateFunc func(task.Task) ([]task.Task, error)

// Update rewrites one line of path under an exclusive lock. fn receives
// the parsed task; its result is serialized back in place. The returned
// strings are the new lines.
func Update(path string, line int, p *task.Parser, s *task.Serializer, fn UpdateFunc) ([]task.Task, []string, error) {
	return update(filelock.Lock, path, line, p, s, fn)
}

// TryUpdate is Update that fails with a FILE_BUSY error instead of waiting
// when another process holds the file's lock.
func TryUpdate(path string, line int, p *task.Parser, s *task.Serializer, fn UpdateFunc) ([]task.Task, []string, error) {
	return update(filelock.TryLock, path, line, p, s, fn)
}

func update(lock func(string) (func() error, error),
	path string, line int, p *task.Parser, s *task.Serializer, fn UpdateFunc,
) ([]task.Task, []string, error) {
	unlock, err := lock(lockPath(path))
	if errors.Is(err, filelock.ErrLocked) {
		return nil, nil, clierr.Newf(clierr.FileBusy, "%s is being edited by another process", path).
			WithDetails(map[string]any{"path": path})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	f, err := Read(path)
	if err != nil {
		return nil, nil, err
	}
	t, err := f.Task(p, line)
	if err != nil {
		return nil, nil, err
	}

	updated, err := fn(t)
	if err != nil {
		return nil, nil, err
	}

	newLines := make([]string, len(updated))
	for i, u := range updated {
		newLines[i] = s.ToFileLineString(u)
	}
	if len(newLines) == 1 && newLines[0] == f.Lines[line] {
		return updated, newLines, nil
	}

	if err := f.Replace(line, newLines); err != nil {
		return nil, nil, err
	}
	if err := f.Write(); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return updated, newLines, nil
}

// Normalize rewrites every task line of path in canonical form and
// returns the number of lines that differ. With write unset the file is
// left untouched.
func Normalize(path string, p *task.Parser, s *task.Serializer, write bool) (int, error) {
	unlock, err := filelock.Lock(lockPath(path))
	if err != nil {
		return 0, fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	f, err := Read(path)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i, line := range f.Lines {
		t := p.ParseAt(line, path, i)
		if !t.HasCheckbox {
			continue
		}
		if out := s.ToFileLineString(t); out != line {
			f.Lines[i] = out
			changed++
		}
	}
	if changed == 0 || !write {
		return changed, nil
	}
	if err := f.Write(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return changed, nil
}

// Append adds line to the end of path, creating the file if needed, and
// returns its zero-based line number.
func Append(path, line string) (int, error) {
	unlock, err := filelock.Lock(lockPath(path))
	if err != nil {
		return 0, fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	f, err := Read(path)
	if err != nil {
		if !errors.Is(err, clierr.New(clierr.FileNotFound, "")) {
			return 0, err
		}
		f = &File{Path: path}
	}
	// Drop a trailing blank line so the task joins the list above it.
	if n := len(f.Lines); n > 0 && strings.TrimSpace(f.Lines[n-1]) == "" {
		f.Lines = f.Lines[:n-1]
	}
	f.Lines = append(f.Lines, line)
	f.TrailingNewline = true
	if err := f.Write(); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(f.Lines) - 1, nil
}

// Remove deletes the line at index line from path. seen must match the
// current text of the line.
func Remove(path string, line int, seen string) error {
	unlock, err := filelock.Lock(lockPath(path))
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	f, err := Read(path)
	if err != nil {
		return err
	}
	if line < 0 || line >= len(f.Lines) {
		return clierr.Newf(clierr.LineOutOfRange, "line %d out of range", line+1).
			WithDetails(map[string]any{"path": path, "line": line + 1})
	}
	if f.Lines[line] != seen {
		return clierr.Newf(clierr.LineChanged, "line %d of %s changed since it was read", line+1, path).
			WithDetails(map[string]any{"path": path, "line": line + 1, "expected": seen, "actual": f.Lines[line]})
	}
	if err := f.Replace(line, nil); err != nil {
		return err
	}
	if err := f.Write(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// lockPath is the hidden sibling lock file guarding read-modify-write of
// path.
func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}

// CheckUnchanged returns a CLIError when the line behind current no longer
// reads seen, meaning the file was edited since the caller parsed it.
func CheckUnchanged(current task.Task, seen string) error {
	if current.OriginalMarkdown == seen {
		return nil
	}
	return clierr.Newf(clierr.LineChanged, "line %d of %s changed since it was read",
		current.LineNumber+1, current.Path).
		WithDetails(map[string]any{
			"path":     current.Path,
			"line":     current.LineNumber + 1,
			"expected": seen,
			"actual":   current.OriginalMarkdown,
		})
}
