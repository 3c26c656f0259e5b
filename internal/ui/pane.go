package ui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/TimelordUK/mview/internal/config"
	"github.com/TimelordUK/mview/internal/engine"
	"github.com/TimelordUK/mview/internal/render"
	"github.com/TimelordUK/mview/internal/source"
	"github.com/TimelordUK/mview/internal/view"
	"github.com/TimelordUK/mview/pkg/logformat"
)

// Pane binds one engine source to its own viewport, filter and renderer.
type Pane struct {
	ID   engine.SourceID
	Path string

	Filtered *source.FilteredProvider
	Viewport *view.Viewport

	detector *logformat.LevelDetector
	level    logformat.Level
}

// NewPane opens a pane over an already-registered engine source.
func NewPane(id engine.SourceID, path string, eng *engine.Engine, cfg *config.Config) *Pane {
	detector := logformat.NewLevelDetector(logformat.LevelPatterns{
		Trace: cfg.LogLevels.TracePatterns,
		Debug: cfg.LogLevels.DebugPatterns,
		Info:  cfg.LogLevels.InfoPatterns,
		Warn:  cfg.LogLevels.WarnPatterns,
		Error: cfg.LogLevels.ErrorPatterns,
		Fatal: cfg.LogLevels.FatalPatterns,
	})

	filtered := source.NewFilteredProvider(eng.Provider(id), detector.Detect)

	vp := view.NewViewport(80, 24)
	vp.SetProvider(filtered)
	vp.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	if render.IsSyntaxHighlightable(path) {
		vp.SetRenderer(render.NewSyntaxRenderer(path))
	} else {
		vp.SetRenderer(render.NewLogLevelRenderer(cfg))
	}

	return &Pane{
		ID:       id,
		Path:     path,
		Filtered: filtered,
		Viewport: vp,
		detector: detector,
		level:    logformat.LevelUnknown,
	}
}

// Title returns the pane's display name.
func (p *Pane) Title() string {
	return filepath.Base(p.Path)
}

// CycleLevelFilter steps through unfiltered -> warn+ -> error+ -> unfiltered.
func (p *Pane) CycleLevelFilter() {
	switch p.level {
	case logformat.LevelUnknown:
		p.level = logformat.LevelWarn
		p.Filtered.SetLevelAndAbove(logformat.LevelWarn)
	case logformat.LevelWarn:
		p.level = logformat.LevelError
		p.Filtered.SetLevelAndAbove(logformat.LevelError)
	default:
		p.level = logformat.LevelUnknown
		p.Filtered.ClearFilter()
	}
}

// FilterLabel names the active level filter for the status bar.
func (p *Pane) FilterLabel() string {
	if p.level == logformat.LevelUnknown {
		return ""
	}
	return fmt.Sprintf("[%s+]", p.level)
}

// ApplyEvent refreshes the pane after the engine reloaded its source.
func (p *Pane) ApplyEvent(ev engine.Event, follow bool) {
	p.Filtered.MarkDirty()
	if ev.Kind == engine.EventFullRefresh {
		p.Viewport.ClearHighlight()
		p.Viewport.GotoTop()
	}
	if follow {
		p.Viewport.GotoBottom()
	}
}

// JumpToOriginal centers the viewport on an original line index, mapping
// through the filter when one is active.
func (p *Pane) JumpToOriginal(originalLine int) {
	target := originalLine
	if p.Filtered.IsFiltered() {
		target = p.Filtered.FilteredIndexFor(originalLine)
	}
	p.Viewport.SetHighlightedLine(originalLine)
	p.Viewport.CenterOn(target)
}

// View renders the pane with a border reflecting focus state.
func (p *Pane) View(width, height int, active bool, cfg *config.Config) string {
	// Border eats two columns and two rows.
	innerW, innerH := width-2, height-2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	p.Viewport.SetSize(innerW, innerH)

	borderColor := cfg.Theme.PaneBorder
	if active {
		borderColor = cfg.Theme.ActiveBorder
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(innerW).
		Height(innerH)

	return style.Render(p.Viewport.Render())
}
