package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type watcher struct {
	path     string
	debounce time.Duration
	onChange func(Config)
	onError  func(error)

	fs   *fsnotify.Watcher
	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// Watcher reloads a settings file whenever it changes on disk.
type Watcher interface {
	// Close stops watching. Safe to call more than once.
	Close() error
}

var _ Watcher = &watcher{}

// WatcherBuilderOption is a functional option for configuring a Watcher.
type WatcherBuilderOption func(*watcher)

// WithOnChange sets the callback receiving every successfully reloaded Config.
func WithOnChange(fn func(Config)) WatcherBuilderOption {
	return func(w *watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback receiving reload and watch errors.
// Without it errors are logged.
func WithOnError(fn func(error)) WatcherBuilderOption {
	return func(w *watcher) {
		w.onError = fn
	}
}

// WithDebounce sets how long the watcher waits after the last write before reloading.
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		w.debounce = d
	}
}

// NewWatcher starts watching path. The parent directory is watched rather than the file so
// editors that replace the file on save are still observed.
//
// Parameters:
//   - path: the settings file
//   - options: watcher options
//
// Returns:
//   - Watcher: the running watcher
//   - error: error if the underlying file watcher cannot be created
func NewWatcher(path string, options ...WatcherBuilderOption) (Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w := &watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(w)
	}
	if w.onError == nil {
		w.onError = func(err error) {
			log.Printf("[Config] %v", err)
		}
	}

	w.fs, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.fs.Add(filepath.Dir(abs)); err != nil {
		w.fs.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("watch %s: %w", w.path, err))
		case <-fire:
			fire = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.onError(err)
				continue
			}
			log.Printf("[Config] reloaded %s", w.path)
			if w.onChange != nil {
				w.onChange(cfg)
			}
		}
	}
}

func (w *watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}
