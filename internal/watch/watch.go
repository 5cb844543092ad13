// Package watch reports changes to the dataset files on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"nathanbeddoewebdev/demodash/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Quiet is how long a watched file must stay unchanged before its change
// is reported.
const Quiet = 250 * time.Millisecond

// Watcher emits the path of a watched file once it has been written,
// created, renamed or removed and then left alone for the quiet period.
// A burst of events for one file yields a single path. Directories are
// watched rather than files so that editors replacing a file by rename
// are still seen.
type Watcher struct {
	fs     *fsnotify.Watcher
	files  map[string]string // absolute path -> path as given
	quiet  time.Duration
	events chan string
	errors chan error
	quit   chan struct{}
	done   chan struct{}
	log    logger.Logger
}

// New watches paths. Each distinct parent directory is watched once.
func New(paths []string, log logger.Logger) (*Watcher, error) {
	return newWatcher(paths, log, Quiet)
}

func newWatcher(paths []string, log logger.Logger, quiet time.Duration) (*Watcher, error) {
	if log == nil {
		log = logger.Nop{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		fs:     fw,
		files:  make(map[string]string, len(paths)),
		quiet:  quiet,
		events: make(chan string, 16),
		errors: make(chan error, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		log:    log,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: %w", err)
		}
		w.files[abs] = filepath.Clean(p)

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch: failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	go w.run()
	return w, nil
}

// Events returns the channel of changed paths. It is closed by Close.
func (w *Watcher) Events() <-chan string { return w.events }

// Errors returns watcher errors. It is closed by Close.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops watching and waits for the event loop to exit.
func (w *Watcher) Close() error {
	close(w.quit)
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.errors)
	defer close(w.events)

	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	var pending []string
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			path, ok := w.handle(ev)
			if !ok {
				continue
			}
			w.log.Debug("data file changed", "path", path, "op", ev.Op.String())
			if !slices.Contains(pending, path) {
				pending = append(pending, path)
			}
			timer.Reset(w.quiet)

		case <-timer.C:
			for _, path := range pending {
				select {
				case w.events <- path:
				case <-w.quit:
					return
				}
			}
			pending = pending[:0]

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", "error", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// handle maps a raw event to a watched path. Chmod-only events and
// files that are not watched are ignored.
func (w *Watcher) handle(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return "", false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return "", false
	}
	path, ok := w.files[abs]
	return path, ok
}
