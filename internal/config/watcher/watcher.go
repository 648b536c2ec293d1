// Package watcher reloads the configuration file when it changes on disk.
//
// The file's directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over the
// original are seen as a change.
package watcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dshills/quill/internal/config"
)

// ErrWatcherClosed is returned by operations on a closed watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// DefaultDebounce is how long the file must be quiet before a reload.
const DefaultDebounce = 100 * time.Millisecond

// LoadFunc reads a configuration file.
type LoadFunc func(path string) (*config.Config, error)

// Watcher delivers a freshly loaded configuration after each change.
type Watcher struct {
	mu sync.Mutex

	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration
	load     LoadFunc
	log      zerolog.Logger

	updates chan *config.Config
	errors  chan error

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLoader replaces config.Load.
func WithLoader(fn LoadFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New starts watching the configuration file at path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		load:     config.Load,
		log:      log.Logger.With().Str("component", "config-watcher").Logger(),
		updates:  make(chan *config.Config, 1),
		errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers each successfully reloaded configuration. Only the
// latest undelivered one is kept.
func (w *Watcher) Updates() <-chan *config.Config {
	return w.updates
}

// Errors delivers reload and watch failures. Only the latest undelivered
// one is kept.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching. Closing twice returns ErrWatcherClosed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !relevant(ev) {
				continue
			}
			w.log.Debug().Str("op", ev.Op.String()).Msg("config changed")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
			offer(w.errors, err)

		case <-fire:
			fire = nil
			c, err := w.load(w.path)
			if err != nil {
				w.log.Warn().Err(err).Msg("reload failed")
				offer(w.errors, err)
				continue
			}
			w.log.Info().Str("path", w.path).Msg("config reloaded")
			offer(w.updates, c)
		}
	}
}

// relevant reports whether ev leaves new content at the watched path.
func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

// offer sends v, replacing an undelivered value. There is one sender.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
