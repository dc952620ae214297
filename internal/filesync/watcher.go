package filesync

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/ropecore/internal/engine/rope"
	"github.com/dshills/ropecore/internal/logging"
)

// DefaultDebounce is the default settle time after the last write event.
const DefaultDebounce = 100 * time.Millisecond

// Reloader receives documents re-read from disk.
// *engine.Engine satisfies it.
type Reloader interface {
	Rope() rope.Rope
	SetRope(r rope.Rope)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle time after the last write event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnReload registers a callback invoked after each applied reload.
func WithOnReload(fn func(r rope.Rope)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher reloads a file into a Reloader whenever it changes on disk.
type Watcher struct {
	mu sync.Mutex

	path     string
	target   Reloader
	debounce time.Duration
	logger   *logging.Logger
	onReload func(rope.Rope)

	fsw *fsnotify.Watcher

	reloads  atomic.Int64
	failures atomic.Int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Watch starts watching path and feeding changes to target.
func Watch(path string, target Reloader, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     absPath,
		target:   target,
		debounce: DefaultDebounce,
		logger:   logging.Nop(),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("filesync").WithField("path", absPath)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	w.closedWg.Add(1)
	go w.processLoop()

	w.logger.Debug("watching")
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of reloads applied to the target.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

// Errors returns the number of watch or read errors seen.
func (w *Watcher) Errors() int64 {
	return w.failures.Load()
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}

// processLoop handles fsnotify events until Close.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

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
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
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
			w.failures.Add(1)
			w.logger.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// relevant reports whether ev may have changed the watched file's content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

// reload re-reads the file and hands it to the target if it differs.
// It reports whether the target was updated.
func (w *Watcher) reload() bool {
	r, err := Load(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.failures.Add(1)
			w.logger.Warn("reload failed: %v", err)
		}
		return false
	}

	if r.Equals(w.target.Rope()) {
		w.logger.Debug("reload skipped, content unchanged")
		return false
	}

	w.target.SetRope(r)
	w.reloads.Add(1)
	w.logger.Info("reloaded %d bytes from disk", r.Len())
	if w.onReload != nil {
		w.onReload(r)
	}
	return true
}
