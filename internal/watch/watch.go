// Package watch notifies a caller when a single source file changes on
// disk, debounced so a burst of writes from an editor's save (truncate,
// then write, then chmod) produces one notification rather than several.
// It is grounded on original_source's use of notify-rs: fsnotify is the
// Go ecosystem's analog of that crate.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long File waits after the last filesystem event before
// notifying, to collapse a burst of events from one logical save into one
// notification.
const Debounce = time.Second

// File watches path and sends on Changed every time the file's contents
// settle after one or more write events. Call Close when done.
type File struct {
	watcher *fsnotify.Watcher
	Changed chan struct{}
	errs    chan error
	done    chan struct{}
}

// New starts watching path.
func New(path string) (*File, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	f := &File{
		watcher: w,
		Changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go f.run()
	return f, nil
}

// Errs reports errors from the underlying fsnotify watcher.
func (f *File) Errs() <-chan error { return f.errs }

func (f *File) run() {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(Debounce)
			}
			fire = timer.C
		case <-fire:
			select {
			case f.Changed <- struct{}{}:
			default:
			}
			fire = nil
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			select {
			case f.errs <- err:
			default:
			}
		case <-f.done:
			return
		}
	}
}

// Close stops the watch.
func (f *File) Close() error {
	close(f.done)
	return f.watcher.Close()
}
