package vault

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/tasklines/internal/clierr"
	"github.com/twiced-technology-gmbh/tasklines/internal/task"
)

// locationRe matches "path:line" with a one-based line number.
var locationRe = regexp.MustCompile(`^(.+):(\d+)$`)

// Location addresses one line of a markdown file.
type Location struct {
	Path string
	Line int // zero-based
}

// String returns the one-based "path:line" form.
func (l Location) String() string {
	return l.Path + ":" + strconv.Itoa(l.Line+1)
}

// ParseLocation parses "path:line" with a one-based line number.
func ParseLocation(s string) (Location, error) {
	m := locationRe.FindStringSubmatch(s)
	if m == nil {
		return Location{}, clierr.Newf(clierr.InvalidLocation, "invalid location %q (expected FILE:LINE)", s).
			WithDetails(map[string]any{"input": s})
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return Location{}, clierr.Newf(clierr.InvalidLocation, "invalid line number in %q", s).
			WithDetails(map[string]any{"input": s})
	}
	return Location{Path: m[1], Line: n - 1}, nil
}

// FindMarkdown expands files and directories into the markdown files they
// contain. Hidden directories are skipped.
func FindMarkdown(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, clierr.Newf(clierr.FileNotFound, "file not found: %s", p).
					WithDetails(map[string]any{"path": p})
			}
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".md" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", p, err)
		}
	}
	return files, nil
}

// ReadWarning describes a file that could not be read during lenient reading.
type ReadWarning struct {
	File string
	Err  error
}

// ReadAllLenient parses the tasks of every markdown file under paths,
// skipping unreadable files instead of aborting.
func ReadAllLenient(paths []string, p *task.Parser, requireFilter bool) ([]task.Task, []ReadWarning, error) {
	files, err := FindMarkdown(paths)
	if err != nil {
		return nil, nil, err
	}

	var tasks []task.Task
	var warnings []ReadWarning
	for _, path := range files {
		f, readErr := Read(path)
		if readErr != nil {
			warnings = append(warnings, ReadWarning{File: path, Err: readErr})
			continue
		}
		tasks = append(tasks, f.Tasks(p, requireFilter)...)
	}
	return tasks, warnings, nil
}
