// Package watch monitors a codebase for file system changes and turns
// them into update_from_change JSON events for the pattern learning
// engine, debouncing bursts of events per path the way an editor save or
// a git checkout produces them.
package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pi22by7/semcore/internal/config"
	"github.com/pi22by7/semcore/internal/obs"
)

// EventType is the closed set of file events a Watcher reports, matching
// the type field update_from_change accepts.
type EventType string

const (
	EventAdd    EventType = "add"
	EventModify EventType = "modify"
	EventDelete EventType = "delete"
	EventRename EventType = "rename"
)

// ChangeEvent is the JSON-serializable shape handed to a Watcher's
// OnChange callback, mirroring the update_from_change payload.
type ChangeEvent struct {
	Type     EventType `json:"type"`
	Path     string    `json:"path"`
	Content  string    `json:"content,omitempty"`
	Language string    `json:"language,omitempty"`
	OldPath  string    `json:"oldPath,omitempty"`
}

// JSON serializes the event, matching the payload shape
// PatternLearningEngine.UpdateFromChange accepts.
func (e ChangeEvent) JSON() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DefaultDebounce is the interval a burst of events for the same path is
// collapsed within before OnChange fires.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a directory tree for file system changes, debounces
// them per path, and reports a ChangeEvent per unique path once the
// debounce window elapses.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	cfg       *config.Config
	debounce  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	events map[string]ChangeEvent
	timer  *time.Timer

	// OnChange is invoked once per debounced path with its resolved
	// change event. Set before calling Start.
	OnChange func(ChangeEvent)
}

// NewWatcher creates a Watcher bounded by cfg's admission rules.
func NewWatcher(cfg *config.Config, debounce time.Duration) (*Watcher, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		fsWatcher: fsWatcher,
		cfg:       cfg,
		debounce:  debounce,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(map[string]ChangeEvent),
	}, nil
}

// Start adds watches for every directory under root (skipping the
// config's ignored directories) and begins processing file system
// events on a background goroutine.
func (w *Watcher) Start(root string) error {
	if err := w.addWatches(root); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop cancels event processing and closes the underlying fsnotify
// watcher, waiting for the processing goroutine to exit.
func (w *Watcher) Stop() error {
	w.cancel()
	err := w.fsWatcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if w.shouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			obs.Debugf("watch: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	for _, sub := range w.cfg.Index.IgnoredDirSubstrings {
		if base == sub {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			obs.Debugf("watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	info, statErr := os.Stat(path)
	if statErr != nil {
		if event.Op&fsnotify.Remove != 0 {
			w.queue(path, ChangeEvent{Type: EventDelete, Path: path})
		}
		return
	}
	if info.IsDir() {
		if event.Op&fsnotify.Create != 0 && !w.shouldIgnoreDir(path) {
			if err := w.fsWatcher.Add(path); err != nil {
				obs.Debugf("watch: failed to add watch for new directory %s: %v", path, err)
			}
		}
		return
	}
	if !w.cfg.Admit(path, info.Size()) {
		return
	}

	lang, _ := w.cfg.LanguageFor(path)
	var eventType EventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = EventAdd
	case event.Op&fsnotify.Write != 0:
		eventType = EventModify
	case event.Op&fsnotify.Rename != 0:
		eventType = EventRename
	default:
		return
	}

	content := ""
	if eventType != EventDelete {
		if source, err := os.ReadFile(path); err == nil {
			content = string(source)
		}
	}
	w.queue(path, ChangeEvent{Type: eventType, Path: path, Content: content, Language: lang})
}

func (w *Watcher) queue(path string, event ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events[path] = event
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	events := w.events
	w.events = make(map[string]ChangeEvent)
	w.mu.Unlock()

	if w.OnChange == nil {
		return
	}
	for _, event := range events {
		w.OnChange(event)
	}
}
