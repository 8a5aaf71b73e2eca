// Package watch reloads the dataset when the source CSV changes on disk.
// Reloading the source is the only event that may rebuild the percentile
// map, so the watcher is the single writer path outside process start.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// debounceDelay coalesces the bursts of write events editors and atomic
// renames produce into a single reload.
const debounceDelay = 500 * time.Millisecond

// Watcher triggers a reload callback when the watched file changes.
type Watcher struct {
	path    string
	reload  func(context.Context) error
	logger  logging.Logger
	fsw     *fsnotify.Watcher
	done    chan struct{}
	stopped chan struct{}
}

// New constructs a Watcher for path that invokes reload after each change.
func New(path string, reload func(context.Context) error, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	// Watch the directory, not the file: atomic save strategies replace the
	// file and would silently detach a file-level watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to watch dataset directory").
			WithDetail("path=" + path)
	}
	return &Watcher{
		path:    path,
		reload:  reload,
		logger:  logger.Named("watch"),
		fsw:     fsw,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}, nil
}

// Start runs the watch loop in a background goroutine until Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	var timer *time.Timer
	var fire <-chan time.Time
	target := filepath.Clean(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Info("dataset file changed, reloading", logging.String("path", w.path))
			if err := w.reload(ctx); err != nil {
				// Keep serving the previous dataset; a broken write must not
				// take the service down.
				w.logger.Error("dataset reload failed", logging.Err(err))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logging.Err(err))
		}
	}
}

// Close stops the watch loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	<-w.stopped
	return err
}
