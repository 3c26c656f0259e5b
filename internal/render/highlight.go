package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MatchSpans returns the [start, end) byte ranges of every pattern match in
// text. A nil pattern yields no spans.
func MatchSpans(text string, re *regexp.Regexp) [][]int {
	if re == nil {
		return nil
	}
	return re.FindAllStringIndex(text, -1)
}

// HighlightMatches renders text with base styling, overriding every pattern
// match span with the match style. It is a pure transform over one line and
// shares the engine's compiled pattern without touching its state.
func HighlightMatches(text string, re *regexp.Regexp, base, match lipgloss.Style) string {
	spans := MatchSpans(text, re)
	if len(spans) == 0 {
		return base.Render(text)
	}

	var b strings.Builder
	prev := 0
	for _, span := range spans {
		if span[0] > prev {
			b.WriteString(base.Render(text[prev:span[0]]))
		}
		if span[1] > span[0] {
			b.WriteString(match.Render(text[span[0]:span[1]]))
		}
		prev = span[1]
	}
	if prev < len(text) {
		b.WriteString(base.Render(text[prev:]))
	}
	return b.String()
}
