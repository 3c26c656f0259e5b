package render

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/TimelordUK/mview/internal/config"
	"github.com/TimelordUK/mview/internal/source"
	"github.com/TimelordUK/mview/pkg/logformat"
)

// Renderer applies styling to lines
type Renderer interface {
	Render(line source.Line) string
	SetHighlight(re *regexp.Regexp)
}

// LogLevelRenderer colors lines based on log level and overlays active
// search matches
type LogLevelRenderer struct {
	detector  *logformat.LevelDetector
	parser    *logformat.TimestampParser
	styles    map[logformat.Level]lipgloss.Style
	tsStyle   lipgloss.Style
	highlight *regexp.Regexp
	matchSty  lipgloss.Style
}

// NewLogLevelRenderer creates a renderer with config
func NewLogLevelRenderer(cfg *config.Config) *LogLevelRenderer {
	detector := logformat.NewLevelDetector(logformat.LevelPatterns{
		Trace: cfg.LogLevels.TracePatterns,
		Debug: cfg.LogLevels.DebugPatterns,
		Info:  cfg.LogLevels.InfoPatterns,
		Warn:  cfg.LogLevels.WarnPatterns,
		Error: cfg.LogLevels.ErrorPatterns,
		Fatal: cfg.LogLevels.FatalPatterns,
	})

	styles := map[logformat.Level]lipgloss.Style{
		logformat.LevelUnknown: lipgloss.NewStyle(),
		logformat.LevelTrace:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Trace)),
		logformat.LevelDebug:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Debug)),
		logformat.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Info)),
		logformat.LevelWarn:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Warn)),
		logformat.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Error)),
		logformat.LevelFatal:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Levels.Fatal)),
	}

	matchSty := lipgloss.NewStyle().
		Foreground(lipgloss.Color(cfg.Theme.SearchMatch)).
		Reverse(true)

	return &LogLevelRenderer{
		detector: detector,
		parser:   logformat.NewTimestampParser(),
		styles:   styles,
		tsStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Timestamp)),
		matchSty: matchSty,
	}
}

// SetHighlight sets the pattern whose matches are emphasized. Pass nil to
// clear highlighting.
func (r *LogLevelRenderer) SetHighlight(re *regexp.Regexp) {
	r.highlight = re
}

// Render applies log level styling to a line. The timestamp substring gets
// its own color unless a search is active; match emphasis wins there.
func (r *LogLevelRenderer) Render(line source.Line) string {
	level := r.detector.Detect(line.Text)
	style := r.styles[level]

	if r.highlight != nil {
		return HighlightMatches(line.Text, r.highlight, style, r.matchSty)
	}

	if start, end, ok := r.parser.Locate(line.Text); ok {
		return style.Render(line.Text[:start]) +
			r.tsStyle.Render(line.Text[start:end]) +
			style.Render(line.Text[end:])
	}
	return style.Render(line.Text)
}

// PlainRenderer renders without level styling
type PlainRenderer struct {
	highlight *regexp.Regexp
	matchSty  lipgloss.Style
}

// NewPlainRenderer creates a plain renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{
		matchSty: lipgloss.NewStyle().Reverse(true),
	}
}

// SetHighlight sets the pattern whose matches are emphasized
func (r *PlainRenderer) SetHighlight(re *regexp.Regexp) {
	r.highlight = re
}

// Render returns the line text with only search matches styled
func (r *PlainRenderer) Render(line source.Line) string {
	if r.highlight == nil {
		return line.Text
	}
	return HighlightMatches(line.Text, r.highlight, lipgloss.NewStyle(), r.matchSty)
}
