package contextsource

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/inkwell/internal/logging"
	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/ports"
	"github.com/fsnotify/fsnotify"
)

var _ ports.ContextSource = (*Watched)(nil)

// reloadOps are the events on the context file that trigger a reload.
const reloadOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watched is a context source that reloads its file whenever it changes.
//
// The value lives in a single-writer cell: the watch goroutine is the only
// writer, the lock is held only to swap or copy the top-level map, and reads
// never wait for disk I/O or parsing.
type Watched struct {
	path     string
	format   Format
	logger   *slog.Logger
	onReload func(error)

	mu    sync.RWMutex
	value domain.Value

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// WatchOption configures a Watched source.
type WatchOption func(*Watched)

// WithLogger sets the logger used for reload notices and failures.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(w *Watched) {
		w.logger = logger
	}
}

// WithReloadHook registers fn to be called after every reload attempt, from the
// watch goroutine, with the reload error (nil on success).
func WithReloadHook(fn func(error)) WatchOption {
	return func(w *Watched) {
		w.onReload = fn
	}
}

// NewWatched loads path and starts watching its parent directory.
// Initial load failures are returned; later ones are only logged.
func NewWatched(path string, format Format, opts ...WatchOption) (*Watched, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, domain.NewError(domain.KindIo, "resolve context path", path, err)
	}

	w := &Watched{
		path:   filepath.Clean(absPath),
		format: format,
		logger: logging.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "contextsource", "path", w.path)

	value, err := Load(w.path, format)
	if err != nil {
		return nil, err
	}
	w.value = value

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, domain.NewError(domain.KindIo, "create watcher", w.path, err)
	}
	// Editors often replace files through a rename, so the directory is watched
	// rather than the file itself. fsnotify watches are not recursive.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return nil, domain.NewError(domain.KindIo, "watch context directory", filepath.Dir(w.path), err)
	}
	w.watcher = watcher

	go w.handleEvents()

	w.logger.Debug("watching context file")
	return w, nil
}

// Current implements ports.ContextSource.
func (w *Watched) Current() domain.Value {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.value.Clone()
}

// Close stops the watcher and waits for the event goroutine to exit.
// It is safe to call more than once.
func (w *Watched) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.watcher.Close()
		<-w.done
	})
	return w.closeErr
}

func (w *Watched) handleEvents() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Op.Has(reloadOps) {
				continue
			}
			w.logger.Debug("context file event", "op", event.Op.String())
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("context watcher error", "err", err)
		}
	}
}

// reload parses outside the lock and swaps the value only on success.
func (w *Watched) reload() {
	value, err := Load(w.path, w.format)
	if err != nil {
		w.logger.Error("context reload failed, keeping previous value", "err", err)
	} else {
		w.mu.Lock()
		prev := w.value
		w.value = value
		w.mu.Unlock()

		changes := domain.Diff(prev, value)
		w.logger.Info("context reloaded",
			"added", changes.Added, "changed", changes.Changed, "removed", changes.Removed)
	}

	if w.onReload != nil {
		w.onReload(err)
	}
}
