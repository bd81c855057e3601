// Package watcher reports changes to the markdown files behind a task view.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts of events, such as an editor's
// write-then-rename save, into one callback.
const debounceDelay = 100 * time.Millisecond

// Watcher calls back, debounced, when a watched markdown file changes.
// Files given by name are watched through their parent directory so that
// replacements by rename are seen. Directories are watched recursively,
// hidden ones excepted, and markdown files created in them count too.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]bool // explicitly named files
	trees    map[string]bool // directories whose markdown files all count
	callback func()

	mu    sync.Mutex
	timer *time.Timer
}

// New watches paths, which may name markdown files or directories.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		trees:    make(map[string]bool),
		callback: callback,
	}
	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		w.files[abs] = true
		return w.fsw.Add(filepath.Dir(abs))
	}
	return w.addTree(abs)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.trees[p] = true
		return w.fsw.Add(p)
	})
}

// Run processes events until ctx is canceled. Errors from the underlying
// watcher go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.newSubdir(event) {
				if err := w.addTree(event.Name); err != nil && errFn != nil {
					errFn(err)
				}
				continue
			}
			if w.relevant(event) {
				w.debounce()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// newSubdir reports a directory created inside a watched tree.
func (w *Watcher) newSubdir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if !w.trees[filepath.Dir(event.Name)] {
		return false
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if w.files[event.Name] {
		return true
	}
	return filepath.Ext(event.Name) == ".md" && w.trees[filepath.Dir(event.Name)]
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.callback)
}
