package engine

import "time"

// alignTolerance is the early-exit window for time alignment. Stopping at
// the first line within two seconds of the reference trades exact nearest-
// match accuracy for responsiveness on large buffers; the approximation is
// deliberate.
const alignTolerance = 2 * time.Second

// syncWindow is how many lines below the reference line are scanned for an
// extractable timestamp when syncing from a scroll position.
const syncWindow = 20

// SyncTarget is the aligned line for one other source.
type SyncTarget struct {
	Source SourceID
	Line   int
}

type timestamper interface {
	LineCount() int
	Timestamp(index int) (time.Time, bool)
}

// Align returns the index of the line in src whose timestamp is closest to
// ref, scanning in order and stopping early once a line lands within the
// tolerance window. Sources without any extractable timestamp align to
// line 0. Align never mutates source state.
func Align(ref time.Time, src timestamper) int {
	bestIdx := 0
	bestDiff := time.Duration(1<<63 - 1)

	for i := 0; i < src.LineCount(); i++ {
		ts, ok := src.Timestamp(i)
		if !ok {
			continue
		}
		diff := ts.Sub(ref)
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestIdx = i
			if diff < alignTolerance {
				break
			}
		}
	}
	return bestIdx
}

// ReferenceTime finds the first extractable timestamp at or shortly after
// the given line of a source.
func (e *Engine) ReferenceTime(id SourceID, line int) (time.Time, bool) {
	src, ok := e.sources[id]
	if !ok {
		return time.Time{}, false
	}
	if line < 0 {
		line = 0
	}
	end := line + syncWindow
	if end > src.LineCount() {
		end = src.LineCount()
	}
	for i := line; i < end; i++ {
		if ts, ok := src.Timestamp(i); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// SyncFrom maps the time observed at the given line of the reference source
// to the best-matching line in every other open source. It reports false
// when no timestamp can be extracted near the reference line.
func (e *Engine) SyncFrom(id SourceID, line int) ([]SyncTarget, bool) {
	ref, ok := e.ReferenceTime(id, line)
	if !ok {
		return nil, false
	}

	var targets []SyncTarget
	for _, other := range e.order {
		if other == id {
			continue
		}
		targets = append(targets, SyncTarget{
			Source: other,
			Line:   Align(ref, e.sources[other]),
		})
	}
	return targets, true
}
