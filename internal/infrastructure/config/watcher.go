package config

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file has to stay unchanged before it is reported
const debounce = 100 * time.Millisecond

// Watcher reports changed profile and script files under the watched
// directories. Editors often write a file in several steps, so bursts
// are collapsed into one event.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dirs
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops watching and closes both channels
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	// a file is reported once it stayed quiet for the debounce window
	pending := make(map[string]time.Time)
	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !IsReloadable(event.Name) {
				continue
			}
			pending[event.Name] = time.Now().Add(debounce)
			timer.Reset(time.Until(earliest(pending)))
			fire = timer.C
		case <-fire:
			fire = nil
			for _, name := range settled(pending, time.Now()) {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(time.Until(earliest(pending)))
				fire = timer.C
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

func earliest(pending map[string]time.Time) time.Time {
	var first time.Time
	for _, t := range pending {
		if first.IsZero() || t.Before(first) {
			first = t
		}
	}
	return first
}

// settled removes and returns the files whose deadline passed, sorted
func settled(pending map[string]time.Time, now time.Time) []string {
	var due []string
	for name, t := range pending {
		if !t.After(now) {
			due = append(due, name)
		}
	}
	sort.Strings(due)
	for _, name := range due {
		delete(pending, name)
	}
	return due
}

// IsReloadable reports whether a changed file can be applied while running
func IsReloadable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
