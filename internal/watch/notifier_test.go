package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRefCounting(t *testing.T) {
	n, err := NewNotifier()
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}
	defer n.Close()

	dir := t.TempDir()

	// Two sources in the same directory share one watch.
	if err := n.Watch(dir); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := n.Watch(dir); err != nil {
		t.Fatalf("second Watch: %v", err)
	}

	n.Unwatch(dir)
	if !n.Watching(dir) {
		t.Error("directory unwatched while a source still needs it")
	}
	n.Unwatch(dir)
	if n.Watching(dir) {
		t.Error("directory still watched after last source left")
	}
	n.Unwatch(dir) // extra unwatch is a no-op
}

func TestWatchMissingDirectory(t *testing.T) {
	n, err := NewNotifier()
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}
	defer n.Close()

	if err := n.Watch(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestEventsDelivered(t *testing.T) {
	n, err := NewNotifier()
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}
	defer n.Close()

	dir := t.TempDir()
	if err := n.Watch(dir); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-n.Events():
			if got == path {
				return
			}
			// Other churn in the temp dir; keep waiting.
		case <-deadline:
			t.Fatal("no change event delivered for the watched directory")
		}
	}
}

func TestCloseEndsEventStream(t *testing.T) {
	n, err := NewNotifier()
	if err != nil {
		t.Fatalf("NewNotifier: %v", err)
	}
	n.Close()
	n.Close() // double close is safe

	select {
	case _, ok := <-n.Events():
		if ok {
			t.Error("expected events channel to be closed")
		}
	case <-time.After(2 * time.Second):
		t.Error("events channel not closed after Close")
	}
}
