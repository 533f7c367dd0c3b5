package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of file events into one notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to one key's file.
type Watcher struct {
	fsw      *fsnotify.Watcher
	target   string
	onChange func()
	debounce time.Duration
	log      *zap.Logger

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Watch calls onChange after the file backing key is written, replaced or
// removed. The directory is watched rather than the file so atomic renames
// are seen. Call Close to stop.
func (s *Store) Watch(key string, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating settings directory: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(s.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	w := &Watcher{
		fsw:      fsw,
		target:   filepath.Clean(s.Path(key)),
		onChange: onChange,
		debounce: debounce,
		log:      s.log.With(zap.String("key", key)),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()
	pending := false

	for {
		select {
		case <-w.stop:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				pending = true
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("settings watcher error", zap.Error(err))

		case <-ticker.C:
			if pending {
				pending = false
				w.onChange()
			}
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		<-w.done
	})
	return err
}
