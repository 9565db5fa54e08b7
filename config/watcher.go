package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/retroachievements/legacy-redirector/redirector"
)

// DefaultDebounce is the quiet period after the last change before a
// rules file is reloaded.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a rules file whenever it changes. Each successful load
// produces a new immutable table; a file that fails to load is reported
// and the previous table stays in use.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	reload   func(*redirector.Table)
	onError  func(error)
	debounce time.Duration
}

// NewWatcher watches path. reload receives each new table; onError, when
// not nil, receives load and watch errors.
func NewWatcher(path string, reload func(*redirector.Table), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	// Editors replace files by rename, so the directory is watched.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		reload:   reload,
		onError:  onError,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce overrides DefaultDebounce. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run processes file events until ctx is done. It closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op == fsnotify.Chmod {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)

		case <-fire:
			fire = nil

			table, err := LoadRules(w.path)
			if err != nil {
				w.report(err)
				continue
			}

			w.reload(table)
		}
	}
}

func (w *Watcher) report(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
