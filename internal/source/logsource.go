package source

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/TimelordUK/mview/internal/fsio"
	"github.com/TimelordUK/mview/internal/rollover"
	"github.com/TimelordUK/mview/pkg/logformat"
)

// LogSource owns one logical log stream: its rollover chain and the
// concatenation, in chain order, of every fragment's lines as of the last
// reload. All mutation happens through Reload; readers see a consistent
// buffer between reloads.
type LogSource struct {
	basePath string // path as given at open time
	normBase string // live-file path of the chain

	chain []string
	sizes map[string]int64 // fragment sizes at last read

	lines  []string
	ts     []tsSlot // lazy timestamp cache, aligned with lines
	parser *logformat.TimestampParser
}

type tsSlot struct {
	t    time.Time
	ok   bool
	done bool
}

// NewLogSource creates an unloaded source for the chain rooted at path.
// Call Reload(false) to populate the buffer.
func NewLogSource(path string, parser *logformat.TimestampParser) *LogSource {
	if parser == nil {
		parser = logformat.NewTimestampParser()
	}
	return &LogSource{
		basePath: path,
		normBase: rollover.Base(path),
		parser:   parser,
	}
}

// BasePath returns the path the source was opened with.
func (s *LogSource) BasePath() string {
	return s.basePath
}

// Chain returns the rollover chain as of the last reload.
func (s *LogSource) Chain() []string {
	return s.chain
}

// Owns reports whether a changed file path belongs to this source's stream.
// It matches the base path, any current chain member, and freshly rotated
// fragments that are not in the chain yet.
func (s *LogSource) Owns(path string) bool {
	if path == s.basePath || path == s.normBase {
		return true
	}
	if rollover.Contains(s.chain, path) {
		return true
	}
	return rollover.Base(path) == s.normBase
}

// Reload re-resolves the rollover chain and refreshes the line buffer.
//
// If the chain's file set changed, or appendOnly is false, the buffer is
// rebuilt from scratch and a full refresh is signalled. Otherwise only the
// suffix beyond the previously known length is appended. Transient I/O
// failures are recovered locally: unreadable fragments are skipped and the
// caller never sees an error.
func (s *LogSource) Reload(appendOnly bool) ReloadResult {
	chain := rollover.Resolve(s.basePath)
	sameSet := rollover.SameSet(chain, s.chain)

	if sameSet && appendOnly {
		// Cheap no-op when nothing grew since the last read.
		if sizes, ok := statSizes(chain); ok && sizesEqual(sizes, s.sizes) {
			return ReloadResult{Kind: ReloadAppended}
		}
	}

	lines, sizes := readChain(chain)

	if !sameSet || !appendOnly || len(lines) < len(s.lines) {
		s.chain = chain
		s.sizes = sizes
		s.lines = lines
		s.ts = make([]tsSlot, len(lines))
		return ReloadResult{Kind: ReloadFullRefresh, NewLines: len(lines)}
	}

	delta := len(lines) - len(s.lines)
	s.chain = chain
	s.sizes = sizes
	s.lines = lines
	s.ts = append(s.ts, make([]tsSlot, delta)...)
	return ReloadResult{Kind: ReloadAppended, NewLines: delta}
}

// LineCount returns total number of buffered lines.
func (s *LogSource) LineCount() int {
	return len(s.lines)
}

// GetLine returns line at index.
func (s *LogSource) GetLine(index int) (Line, bool) {
	if index < 0 || index >= len(s.lines) {
		return Line{}, false
	}
	return Line{Text: s.lines[index], OriginalIndex: index}, true
}

// GetLines returns a range of lines, clamped to the buffer.
func (s *LogSource) GetLines(start, count int) []Line {
	if start < 0 {
		start = 0
	}
	if start >= len(s.lines) || count <= 0 {
		return nil
	}
	if start+count > len(s.lines) {
		count = len(s.lines) - start
	}
	lines := make([]Line, count)
	for i := 0; i < count; i++ {
		lines[i] = Line{Text: s.lines[start+i], OriginalIndex: start + i}
	}
	return lines
}

// Timestamp returns the extracted timestamp for a line, computing and
// caching it on first access. Lines without a parseable timestamp report ok
// as false and are never re-parsed.
func (s *LogSource) Timestamp(index int) (time.Time, bool) {
	if index < 0 || index >= len(s.lines) {
		return time.Time{}, false
	}
	slot := &s.ts[index]
	if !slot.done {
		slot.t, slot.ok = s.parser.Extract(s.lines[index])
		slot.done = true
	}
	return slot.t, slot.ok
}

// readChain reads every readable fragment in chain order and returns the
// concatenated lines plus the sizes observed, keyed by path.
func readChain(chain []string) ([]string, map[string]int64) {
	var lines []string
	sizes := make(map[string]int64, len(chain))

	for _, path := range chain {
		f, err := fsio.OpenMapped(path)
		if err != nil {
			// Permission error or mid-rotation vanish; skip the fragment.
			continue
		}
		data, err := f.ReadRange(0, f.Size())
		if err == nil {
			sizes[path] = f.Size()
			lines = append(lines, splitLines(data)...)
		}
		f.Close()
	}
	return lines, sizes
}

// splitLines splits raw bytes into newline-stripped, lossily decoded lines.
// A trailing terminator does not produce a phantom empty line.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	parts := strings.Split(string(data), "\n")
	lines := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		lines[i] = strings.ToValidUTF8(p, "�")
	}
	return lines
}

func statSizes(chain []string) (map[string]int64, bool) {
	sizes := make(map[string]int64, len(chain))
	for _, path := range chain {
		info, err := os.Stat(path)
		if err != nil {
			return nil, false
		}
		sizes[path] = info.Size()
	}
	return sizes, true
}

func sizesEqual(a, b map[string]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for path, size := range a {
		if b[path] != size {
			return false
		}
	}
	return true
}
