// Package watcher reports, with debouncing, which watched source files
// changed on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/hilite/internal/log"
)

// Watcher monitors a set of files and sends the changed subset after each
// quiet period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	onChange  chan []string
	done      chan struct{}
	stopOnce  sync.Once

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]int
}

// Config holds watcher configuration options.
type Config struct {
	Debounce time.Duration
}

// DefaultConfig returns the debounce used by the viewer.
func DefaultConfig() Config {
	return Config{Debounce: 250 * time.Millisecond}
}

// New creates a watcher with nothing registered.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		debounce:  cfg.Debounce,
		onChange:  make(chan []string, 1),
		done:      make(chan struct{}),
		files:     make(map[string]struct{}),
		dirs:      make(map[string]int),
	}, nil
}

// Add starts watching path. Its directory is watched so that editors which
// replace the file by rename are still seen.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; ok {
		return nil
	}

	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	w.dirs[dir]++
	w.files[abs] = struct{}{}
	log.Debug(log.CatWatcher, "watching file", "path", abs)
	return nil
}

// Remove stops watching path. Unknown paths are ignored.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[abs]; !ok {
		return nil
	}
	delete(w.files, abs)

	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if err := w.fsWatcher.Remove(dir); err != nil {
		return fmt.Errorf("unwatching directory %s: %w", dir, err)
	}
	return nil
}

// Watched lists the registered files in sorted order.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Start begins processing events. The returned channel receives the sorted
// absolute paths that changed during each debounce window.
func (w *Watcher) Start() <-chan []string {
	go w.loop()
	return w.onChange
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]struct{})
	)

	arm := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
		} else {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		}
		timerC = timer.C
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			path, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			pending[path] = struct{}{}
			arm()

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			select {
			case w.onChange <- batch:
				log.Debug(log.CatWatcher, "files changed", "count", len(batch))
				pending = make(map[string]struct{})
			default:
				// Receiver is behind; keep the batch and try again later.
				arm()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "fsnotify error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	_, ok := w.files[abs]
	w.mu.Unlock()
	return abs, ok
}
