package asset

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/partscope/internal/logger"
)

// Watcher observes a loaded asset file and invokes the callback when it
// is rewritten, so the viewer can re-arm its load gate. CAD exporters
// replace the file rather than appending, so create and write events
// both count; rapid event bursts are coalesced.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	settle time.Duration
	done   chan struct{}
}

// DefaultSettle is how long the file must stay quiet before the change
// callback fires.
const DefaultSettle = 200 * time.Millisecond

// Watch starts watching path. A non-positive settle falls back to
// DefaultSettle. The callback runs on the watcher goroutine; it should
// only flip a flag for the tick thread to consume.
func Watch(path string, settle time.Duration, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors and exporters often replace the file,
	// which unregisters a direct file watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	if settle <= 0 {
		settle = DefaultSettle
	}
	w := &Watcher{fsw: fsw, path: path, settle: settle, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func()) {
	var pending *time.Timer

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(w.settle, onChange)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("asset watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() {
	close(w.done)
	w.fsw.Close()
}
