package source

import (
	"strings"

	"github.com/TimelordUK/mview/pkg/logformat"
)

// LevelDetectFunc classifies a line's severity for filtering.
type LevelDetectFunc func(line string) logformat.Level

// FilteredProvider wraps a LineProvider and filters by log level and/or a
// text substring. With no filter active it passes straight through.
type FilteredProvider struct {
	source   LineProvider
	detector LevelDetectFunc

	levelFilter map[logformat.Level]bool
	textFilter  string

	// Cached original line numbers that pass the filter.
	filteredIndices []int
	dirty           bool
}

// NewFilteredProvider creates a filtered provider
func NewFilteredProvider(src LineProvider, detector LevelDetectFunc) *FilteredProvider {
	return &FilteredProvider{
		source:      src,
		detector:    detector,
		levelFilter: make(map[logformat.Level]bool),
		dirty:       true,
	}
}

// SetLevelAndAbove sets filter to show this level and all higher severity
func (f *FilteredProvider) SetLevelAndAbove(level logformat.Level) {
	f.levelFilter = make(map[logformat.Level]bool)
	all := []logformat.Level{
		logformat.LevelTrace, logformat.LevelDebug, logformat.LevelInfo,
		logformat.LevelWarn, logformat.LevelError, logformat.LevelFatal,
	}
	for _, l := range all {
		if l >= level {
			f.levelFilter[l] = true
		}
	}
	f.dirty = true
}

// ClearFilter removes all level filters
func (f *FilteredProvider) ClearFilter() {
	f.levelFilter = make(map[logformat.Level]bool)
	f.dirty = true
}

// SetTextFilter sets the text substring filter
func (f *FilteredProvider) SetTextFilter(text string) {
	f.textFilter = text
	f.dirty = true
}

// MarkDirty marks the filter index as needing rebuild after the underlying
// source changed.
func (f *FilteredProvider) MarkDirty() {
	f.dirty = true
}

// IsFiltered returns true if any filter is active
func (f *FilteredProvider) IsFiltered() bool {
	return len(f.levelFilter) > 0 || f.textFilter != ""
}

func (f *FilteredProvider) rebuildIndex() {
	if !f.dirty {
		return
	}
	f.filteredIndices = nil

	if !f.IsFiltered() {
		f.dirty = false
		return
	}

	total := f.source.LineCount()
	for i := 0; i < total; i++ {
		line, ok := f.source.GetLine(i)
		if !ok {
			continue
		}
		if f.textFilter != "" && !strings.Contains(line.Text, f.textFilter) {
			continue
		}
		if len(f.levelFilter) > 0 {
			if f.detector == nil || !f.levelFilter[f.detector(line.Text)] {
				continue
			}
		}
		f.filteredIndices = append(f.filteredIndices, i)
	}
	f.dirty = false
}

// LineCount returns total number of lines passing the filter.
func (f *FilteredProvider) LineCount() int {
	f.rebuildIndex()
	if !f.IsFiltered() {
		return f.source.LineCount()
	}
	return len(f.filteredIndices)
}

// GetLine returns line at filtered index, carrying its original index.
func (f *FilteredProvider) GetLine(index int) (Line, bool) {
	f.rebuildIndex()
	if !f.IsFiltered() {
		return f.source.GetLine(index)
	}
	if index < 0 || index >= len(f.filteredIndices) {
		return Line{}, false
	}
	return f.source.GetLine(f.filteredIndices[index])
}

// GetLines returns a range of filtered lines.
func (f *FilteredProvider) GetLines(start, count int) []Line {
	f.rebuildIndex()
	if !f.IsFiltered() {
		return f.source.GetLines(start, count)
	}
	var lines []Line
	for i := start; i < start+count && i < len(f.filteredIndices); i++ {
		if i < 0 {
			continue
		}
		if line, ok := f.GetLine(i); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// OriginalLineNumber returns the original line number for a filtered index.
func (f *FilteredProvider) OriginalLineNumber(filteredIndex int) int {
	f.rebuildIndex()
	if !f.IsFiltered() {
		return filteredIndex
	}
	if filteredIndex < 0 || filteredIndex >= len(f.filteredIndices) {
		return -1
	}
	return f.filteredIndices[filteredIndex]
}

// FilteredIndexFor returns the filtered index showing the given original
// line, or the nearest following one. Returns -1 when nothing qualifies.
func (f *FilteredProvider) FilteredIndexFor(originalLine int) int {
	f.rebuildIndex()
	if !f.IsFiltered() {
		return originalLine
	}
	for i, orig := range f.filteredIndices {
		if orig >= originalLine {
			return i
		}
	}
	return -1
}
