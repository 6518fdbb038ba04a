// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches a single inbox directory for free-text input files and waits for
// writes to settle before reporting a file, since a copy into the inbox
// arrives as a create followed by one or more writes.
package fsnotify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 200 * time.Millisecond

// Accepted input file suffixes.
var inputSuffixes = []string{".json", ".json.gz"}

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	settle  time.Duration
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates an inbox watcher. A settle of zero selects DefaultSettle.
func NewWatcher(settle time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		fw:      fw,
		settle:  settle,
		done:    make(chan struct{}),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Watch starts monitoring dir. Subdirectories are not watched.
func (w *Watcher) Watch(dir string, onFile func(filePath string)) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("inbox: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("inbox %s: not a directory", absDir)
	}
	if err := w.fw.Add(absDir); err != nil {
		return fmt.Errorf("inbox %s: %w", absDir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if !isInputFile(event.Name) {
					continue
				}
				w.schedule(event.Name, onFile)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// schedule (re)arms the settle timer of path.
func (w *Watcher) schedule(path string, onFile func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		stopped := w.stopped
		w.mu.Unlock()
		if stopped {
			return
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		onFile(path)
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	close(w.done)
	return w.fw.Close()
}

// isInputFile reports whether path names a visible input file.
func isInputFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, suffix := range inputSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
