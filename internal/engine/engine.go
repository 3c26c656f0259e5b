// Package engine owns the log synchronization core: open sources, their
// buffers, the active search session, and cross-source time alignment.
//
// All state is owned by a single foreground context (the UI event loop).
// Background watchers never call in here directly; they only hand paths to
// that loop, which then invokes HandleFileEvent.
package engine

import (
	"time"

	"github.com/TimelordUK/mview/internal/source"
	"github.com/TimelordUK/mview/pkg/logformat"
)

// SourceID is the opaque handle the rendering layer holds for a log source.
type SourceID int

// EventKind mirrors source.ReloadKind at the engine boundary.
type EventKind int

const (
	EventAppended EventKind = iota
	EventFullRefresh
)

// Event tells observers how a source's buffer changed.
type Event struct {
	Source   SourceID
	Kind     EventKind
	NewLines int
}

// Engine tracks every open log source and the active search session.
type Engine struct {
	parser  *logformat.TimestampParser
	sources map[SourceID]*source.LogSource
	order   []SourceID // source index order for search and sync
	nextID  SourceID

	session *SearchSession
}

// New creates an engine. A nil parser falls back to the default rule set.
func New(parser *logformat.TimestampParser) *Engine {
	if parser == nil {
		parser = logformat.NewTimestampParser()
	}
	return &Engine{
		parser:  parser,
		sources: make(map[SourceID]*source.LogSource),
	}
}

// OpenSource begins tracking the rollover chain rooted at path and performs
// the initial full reload. A missing file is not an error; the source just
// starts empty and fills in once the file appears.
func (e *Engine) OpenSource(path string) (SourceID, Event) {
	id := e.nextID
	e.nextID++

	src := source.NewLogSource(path, e.parser)
	res := src.Reload(false)

	e.sources[id] = src
	e.order = append(e.order, id)
	e.rescanSession()

	return id, toEvent(id, res)
}

// CloseSource stops tracking a source and releases its buffer.
func (e *Engine) CloseSource(id SourceID) {
	if _, ok := e.sources[id]; !ok {
		return
	}
	delete(e.sources, id)
	for i, other := range e.order {
		if other == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.rescanSession()
}

// SourceIDs returns the open sources in source-index order.
func (e *Engine) SourceIDs() []SourceID {
	ids := make([]SourceID, len(e.order))
	copy(ids, e.order)
	return ids
}

// Provider exposes a source's buffer as a read-only line provider for the
// rendering layer. Returns nil for unknown ids.
func (e *Engine) Provider(id SourceID) source.LineProvider {
	src, ok := e.sources[id]
	if !ok {
		return nil
	}
	return src
}

// LineCount returns the buffered line count for a source.
func (e *Engine) LineCount(id SourceID) int {
	if src, ok := e.sources[id]; ok {
		return src.LineCount()
	}
	return 0
}

// Lines returns a range of lines from a source.
func (e *Engine) Lines(id SourceID, start, count int) []source.Line {
	if src, ok := e.sources[id]; ok {
		return src.GetLines(start, count)
	}
	return nil
}

// Timestamp returns the cached timestamp for a line of a source.
func (e *Engine) Timestamp(id SourceID, line int) (time.Time, bool) {
	if src, ok := e.sources[id]; ok {
		return src.Timestamp(line)
	}
	return time.Time{}, false
}

// Chain returns the source's rollover chain as of its last reload.
func (e *Engine) Chain(id SourceID) []string {
	if src, ok := e.sources[id]; ok {
		return src.Chain()
	}
	return nil
}

// Reload refreshes one source and keeps the search session consistent.
func (e *Engine) Reload(id SourceID, appendOnly bool) (Event, bool) {
	src, ok := e.sources[id]
	if !ok {
		return Event{}, false
	}
	res := src.Reload(appendOnly)
	if res.Kind == source.ReloadFullRefresh || res.NewLines > 0 {
		e.rescanSession()
	}
	return toEvent(id, res), true
}

// HandleFileEvent maps a changed path to the sources whose chain contains
// it and triggers an append-only reload on each. Events with no effect are
// dropped.
func (e *Engine) HandleFileEvent(path string) []Event {
	var events []Event
	for _, id := range e.order {
		if !e.sources[id].Owns(path) {
			continue
		}
		ev, _ := e.Reload(id, true)
		if ev.Kind == EventFullRefresh || ev.NewLines > 0 {
			events = append(events, ev)
		}
	}
	return events
}

// Poll re-checks every open source. It is the safety net for rotations and
// writes the directory watcher missed: the underlying file-set and size
// comparison makes it a cheap no-op when nothing changed.
func (e *Engine) Poll() []Event {
	var events []Event
	for _, id := range e.order {
		ev, _ := e.Reload(id, true)
		if ev.Kind == EventFullRefresh || ev.NewLines > 0 {
			events = append(events, ev)
		}
	}
	return events
}

func toEvent(id SourceID, res source.ReloadResult) Event {
	kind := EventAppended
	if res.Kind == source.ReloadFullRefresh {
		kind = EventFullRefresh
	}
	return Event{Source: id, Kind: kind, NewLines: res.NewLines}
}
