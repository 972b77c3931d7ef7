package load

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to one data file. It watches the parent
// directory so that editors which replace the file on save are seen too.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
	done chan struct{}
}

// Watch calls changed with path after every write, create or rename that
// touches it. changed runs on the watcher's goroutine.
func Watch(path string, changed func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w := &Watcher{w: fw, path: abs, done: make(chan struct{})}
	go w.run(changed)
	return w, nil
}

func (w *Watcher) run(changed func(string)) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				slog.Debug("data file changed", "path", w.path, "op", event.Op.String())
				changed(w.path)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "path", w.path, "err", err)
		}
	}
}

// Close stops watching and waits for the goroutine to exit.
func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
