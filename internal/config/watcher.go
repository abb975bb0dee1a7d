package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadQuiet coalesces the editor write/rename bursts that accompany a
// single logical save.
const reloadQuiet = 100 * time.Millisecond

// Watcher reloads the configuration file when it changes on disk and
// hands each valid new configuration to a callback. Invalid edits are
// logged and skipped; the previous configuration stays in effect.
type Watcher struct {
	path     string
	onReload func(Config)
	log      zerolog.Logger

	fw *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	done    chan struct{}
}

// NewWatcher starts watching the given config file. The callback runs on
// the watcher's goroutine after each successful reload.
func NewWatcher(path string, onReload func(Config), log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace files on save, and watching
	// the path directly loses the watch after the first rename.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		onReload: onReload,
		log:      log.With().Str("component", "config-watcher").Logger(),
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// loop consumes fsnotify events until Close.
func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		}
	}
}

// matches reports whether a change event concerns the watched file.
func (w *Watcher) matches(name string) bool {
	a, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	b, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return a == b
}

// scheduleReload arms the quiet-period timer, replacing any pending one.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadQuiet, w.reload)
}

// reload parses the file and hands a valid result to the callback.
func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = nil
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("ignoring invalid config reload")
		return
	}
	w.log.Info().Str("path", w.path).Msg("configuration reloaded")
	w.onReload(cfg)
}

// Close stops the watcher. Close is idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.done
	return err
}
