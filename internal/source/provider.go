package source

// Line is a single buffered log line.
type Line struct {
	Text string
	// OriginalIndex is the line's index in its owning source's buffer.
	// Filtered views preserve it so jumps and marks keep working.
	OriginalIndex int
}

// LineProvider is the core abstraction for accessing lines.
// The viewport only interacts with this interface.
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLine returns line at index (0-based)
	GetLine(index int) (Line, bool)

	// GetLines returns a range of lines, clamped to the buffer
	GetLines(start, count int) []Line
}

// ReloadKind tells observers how a reload changed the buffer.
type ReloadKind int

const (
	// ReloadAppended means only new lines were added at the end.
	ReloadAppended ReloadKind = iota
	// ReloadFullRefresh means the whole buffer was rebuilt; cached line
	// offsets from before the reload are no longer meaningful.
	ReloadFullRefresh
)

// ReloadResult describes the outcome of a LogSource reload.
type ReloadResult struct {
	Kind     ReloadKind
	NewLines int
}
