// Package watch delivers file-change hints for watched log directories.
//
// The notifier never touches engine state: its goroutine only forwards
// changed paths onto a channel, and the foreground loop that owns the
// engine decides what to reload. Missed events are harmless because the
// engine's poll trigger re-checks every source on a fixed cadence.
package watch

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is the recommended cadence for the poll trigger that
// backs up the event-driven path.
const DefaultPollInterval = 250 // milliseconds

// Notifier watches directories for file changes. Watches are reference
// counted per directory so several sources in the same folder share one
// underlying watch.
type Notifier struct {
	watcher *fsnotify.Watcher
	events  chan string

	mu   sync.Mutex
	dirs map[string]int // directory -> watch refcount

	closeOnce sync.Once
	done      chan struct{}
}

// NewNotifier creates a notifier and starts its forwarding loop.
func NewNotifier() (*Notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	n := &Notifier{
		watcher: w,
		events:  make(chan string, 64),
		dirs:    make(map[string]int),
		done:    make(chan struct{}),
	}
	go n.loop()
	return n, nil
}

// Events is the channel of changed file paths. The consumer marshals these
// into its own context; nothing is mutated from here.
func (n *Notifier) Events() <-chan string {
	return n.events
}

// Watch registers interest in a directory, adding the underlying watch only
// for the first interested source. Callers that get an error degrade to
// poll-only detection.
func (n *Notifier) Watch(dir string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.dirs[dir] > 0 {
		n.dirs[dir]++
		return nil
	}
	if err := n.watcher.Add(dir); err != nil {
		return err
	}
	n.dirs[dir] = 1
	return nil
}

// Unwatch drops one reference to a directory and removes the underlying
// watch when no source is interested anymore.
func (n *Notifier) Unwatch(dir string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	count, ok := n.dirs[dir]
	if !ok {
		return
	}
	if count > 1 {
		n.dirs[dir] = count - 1
		return
	}
	delete(n.dirs, dir)
	n.watcher.Remove(dir)
}

// Watching reports whether a directory currently has an active watch.
func (n *Notifier) Watching(dir string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dirs[dir] > 0
}

// Close stops the notifier and closes the events channel.
func (n *Notifier) Close() error {
	var err error
	n.closeOnce.Do(func() {
		close(n.done)
		err = n.watcher.Close()
	})
	return err
}

func (n *Notifier) loop() {
	defer close(n.events)
	for {
		select {
		case <-n.done:
			return
		case ev, ok := <-n.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			select {
			case n.events <- ev.Name:
			default:
				// Channel full: drop the hint. The poll trigger will
				// pick up whatever this event was about.
			}
		case _, ok := <-n.watcher.Errors:
			if !ok {
				return
			}
			// Watcher errors degrade to poll-only detection; nothing to do.
		}
	}
}
