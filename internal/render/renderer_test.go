package render

import (
	"regexp"
	"strings"
	"testing"

	"github.com/TimelordUK/mview/internal/config"
	"github.com/TimelordUK/mview/internal/source"
)

func TestLogLevelRendererPreservesText(t *testing.T) {
	r := NewLogLevelRenderer(config.DefaultConfig())

	lines := []string{
		"2024-01-15 10:30:45 INFO started",
		"plain line without level or time",
		"ERROR something broke",
	}
	for _, text := range lines {
		out := r.Render(source.Line{Text: text})
		for _, word := range strings.Fields(text) {
			if !strings.Contains(out, word) {
				t.Errorf("rendered output lost %q from %q", word, text)
			}
		}
	}
}

func TestLogLevelRendererHighlightTakesPriority(t *testing.T) {
	r := NewLogLevelRenderer(config.DefaultConfig())
	r.SetHighlight(regexp.MustCompile(`(?i)broke`))

	out := r.Render(source.Line{Text: "ERROR something broke"})
	if !strings.Contains(out, "broke") {
		t.Errorf("match text missing from output %q", out)
	}
}

func TestPlainRendererPassthrough(t *testing.T) {
	r := NewPlainRenderer()
	if got := r.Render(source.Line{Text: "hello"}); got != "hello" {
		t.Errorf("plain render = %q, want passthrough", got)
	}
}

func TestIsSyntaxHighlightable(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"config.json", true},
		{"main.go", true},
		{"Makefile", true},
		{"service.log", false},
		{"syslog", false},
	}
	for _, tt := range tests {
		if got := IsSyntaxHighlightable(tt.path); got != tt.want {
			t.Errorf("IsSyntaxHighlightable(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
