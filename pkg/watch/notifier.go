// Package watch shortens the resource cache's poll period with filesystem
// notifications.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/decker502/assetcache/pkg/logging"
	"github.com/decker502/assetcache/pkg/resource"
	"github.com/fsnotify/fsnotify"
)

var _ resource.ChangeNotifier = (*Notifier)(nil)

// Notifier records that a watched file was written, created, renamed or
// removed. It never reloads anything itself: the cache still decides
// staleness by comparing stamps on its own thread.
//
// Directories are watched rather than files, so editors that save by
// renaming a temp file over the original are still seen.
type Notifier struct {
	fsWatcher *fsnotify.Watcher
	logger    *log.Logger
	cancel    context.CancelFunc
	done      chan struct{}

	mu    sync.Mutex
	dirs  map[string]bool
	files map[string]bool

	changed atomic.Bool
	events  atomic.Int64
}

// NewNotifier starts a watcher goroutine. Close stops it.
func NewNotifier(logger *log.Logger) (*Notifier, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		fsWatcher: fsWatcher,
		logger:    logging.Component(logger, "Watch"),
		cancel:    cancel,
		done:      make(chan struct{}),
		dirs:      make(map[string]bool),
		files:     make(map[string]bool),
	}
	go n.processEvents(ctx)
	return n, nil
}

// Watch adds path's directory to the watch set and path to the files that
// count as a change.
func (n *Notifier) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.files[abs] = true
	if n.dirs[dir] {
		return nil
	}
	if err := n.fsWatcher.Add(dir); err != nil {
		return err
	}
	n.dirs[dir] = true
	n.logger.Debug("Watching directory", "dir", dir)
	return nil
}

// Changed implements resource.ChangeNotifier.
func (n *Notifier) Changed() bool {
	return n.changed.Swap(false)
}

// Events returns how many relevant events have been seen.
func (n *Notifier) Events() int64 {
	return n.events.Load()
}

// Close stops the watcher goroutine.
func (n *Notifier) Close() error {
	n.cancel()
	err := n.fsWatcher.Close()
	<-n.done
	return err
}

func (n *Notifier) processEvents(ctx context.Context) {
	defer close(n.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-n.fsWatcher.Events:
			if !ok {
				return
			}
			if !n.relevant(event) {
				continue
			}
			n.events.Add(1)
			n.changed.Store(true)
			n.logger.Debug("File changed", "path", event.Name, "op", event.Op.String())
		case err, ok := <-n.fsWatcher.Errors:
			if !ok {
				return
			}
			n.logger.Warn("File system error", "err", err)
		}
	}
}

func (n *Notifier) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.files[abs]
}
