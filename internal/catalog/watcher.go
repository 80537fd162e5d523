package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the catalog when files in the questions directory
// change and swaps the new snapshot into the store. Bursts of events
// (editors write several times per save) are debounced.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dir      string
	store    *Store
	logger   *zap.Logger
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewWatcher(dir string, store *Store, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		fsw:      fsw,
		dir:      dir,
		store:    store,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start runs the watch loop in a goroutine until Stop is called or the
// context is canceled.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop shuts the watcher down and waits for the loop to exit.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			w.reload(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	cat, err := Load(ctx, w.dir, w.logger)
	if err != nil {
		w.logger.Error("catalog reload failed, keeping previous snapshot", zap.Error(err))
		return
	}
	w.store.Swap(cat)
	w.logger.Info("catalog reloaded", zap.Int("questionnaires", len(cat)))
}
