// Package watch delivers reload events for a single dataset file. The
// generator rewrites the file in place (or replaces it atomically), so
// writes are debounced and renames/creates of the same name count as
// changes too.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one dataset file using fsnotify. Each completed burst of
// writes produces one value on Changes; the value is the file path.
type Watcher struct {
	File    string
	Changes <-chan string // Read-only external channel

	changes chan string // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given dataset file.
func NewWatcher(file string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan string, 4)
	w := &Watcher{
		File:    file,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic replace (write temp + rename) is still seen.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: editors and the generator both write in bursts.
	const debounce = 100 * time.Millisecond
	var pendingAt time.Time
	pending := false
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				// Stop is waiting on done; never block on a full channel here.
				if pending {
					select {
					case w.changes <- w.File:
					default:
					}
				}
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.File) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pendingAt = time.Now()
				pending = true
			}

		case <-ticker.C:
			if pending && time.Since(pendingAt) >= debounce {
				pending = false
				w.changes <- w.File
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}
