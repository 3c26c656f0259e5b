package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TimelordUK/mview/pkg/logformat"
)

func testSource(t *testing.T, content string) *LogSource {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	src := NewLogSource(path, nil)
	src.Reload(false)
	return src
}

func testDetector() LevelDetectFunc {
	d := logformat.NewLevelDetector(logformat.LevelPatterns{
		Info:  []string{"INFO"},
		Warn:  []string{"WARN"},
		Error: []string{"ERROR"},
	})
	return d.Detect
}

func TestFilteredPassthrough(t *testing.T) {
	src := testSource(t, "a\nb\nc\n")
	f := NewFilteredProvider(src, testDetector())

	if f.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", f.LineCount())
	}
	line, ok := f.GetLine(1)
	if !ok || line.Text != "b" || line.OriginalIndex != 1 {
		t.Errorf("GetLine(1) = %+v/%v", line, ok)
	}
}

func TestLevelFilter(t *testing.T) {
	src := testSource(t, "INFO one\nERROR two\nWARN three\nplain\nERROR five\n")
	f := NewFilteredProvider(src, testDetector())

	f.SetLevelAndAbove(logformat.LevelError)
	if f.LineCount() != 2 {
		t.Fatalf("LineCount = %d, want 2", f.LineCount())
	}
	first, _ := f.GetLine(0)
	if first.OriginalIndex != 1 {
		t.Errorf("first filtered line original index = %d, want 1", first.OriginalIndex)
	}
	if got := f.OriginalLineNumber(1); got != 4 {
		t.Errorf("OriginalLineNumber(1) = %d, want 4", got)
	}
	if got := f.FilteredIndexFor(4); got != 1 {
		t.Errorf("FilteredIndexFor(4) = %d, want 1", got)
	}
	// Nearest following match when the exact line is filtered out.
	if got := f.FilteredIndexFor(2); got != 1 {
		t.Errorf("FilteredIndexFor(2) = %d, want 1", got)
	}

	f.ClearFilter()
	if f.LineCount() != 5 {
		t.Errorf("after clear LineCount = %d, want 5", f.LineCount())
	}
}

func TestTextFilter(t *testing.T) {
	src := testSource(t, "request ok\nrequest failed\nidle\n")
	f := NewFilteredProvider(src, testDetector())

	f.SetTextFilter("request")
	if f.LineCount() != 2 {
		t.Errorf("LineCount = %d, want 2", f.LineCount())
	}
	lines := f.GetLines(0, 10)
	if len(lines) != 2 || lines[1].Text != "request failed" {
		t.Errorf("GetLines = %+v", lines)
	}

	f.SetTextFilter("")
	if f.LineCount() != 3 {
		t.Errorf("after clearing text filter LineCount = %d, want 3", f.LineCount())
	}
}

func TestMarkDirtyPicksUpNewLines(t *testing.T) {
	src := testSource(t, "ERROR a\n")
	f := NewFilteredProvider(src, testDetector())
	f.SetLevelAndAbove(logformat.LevelError)
	if f.LineCount() != 1 {
		t.Fatalf("LineCount = %d, want 1", f.LineCount())
	}

	appendFile(t, src.BasePath(), "ERROR b\n")
	src.Reload(true)
	f.MarkDirty()

	if f.LineCount() != 2 {
		t.Errorf("after reload LineCount = %d, want 2", f.LineCount())
	}
}
