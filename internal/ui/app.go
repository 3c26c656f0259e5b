package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/TimelordUK/mview/internal/config"
	"github.com/TimelordUK/mview/internal/engine"
	"github.com/TimelordUK/mview/internal/watch"
	"github.com/TimelordUK/mview/pkg/logformat"
)

// MaxPanes caps the grid at 2x2.
const MaxPanes = 4

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

// fileEventMsg carries one changed path from the notifier goroutine into
// the update loop, which owns all engine state.
type fileEventMsg struct {
	path string
}

// pollTickMsg drives the periodic reload sweep.
type pollTickMsg time.Time

// Model is the main application model
type Model struct {
	cfg      *config.Config
	eng      *engine.Engine
	notifier *watch.Notifier // nil when file watching is unavailable

	panes  []*Pane
	active int

	mode        Mode
	searchInput textinput.Model

	follow   bool
	showHelp bool
	status   string

	pollInterval time.Duration

	width  int
	height int
}

// NewModel opens the given files and builds the pane grid. Files that do
// not exist yet still get a pane; they fill in when data arrives.
func NewModel(paths []string, cfg *config.Config) (*Model, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to view")
	}
	if len(paths) > MaxPanes {
		paths = paths[:MaxPanes]
	}

	eng := engine.New(logformat.NewTimestampParser())

	ti := textinput.New()
	ti.Placeholder = "regex..."
	ti.CharLimit = 256

	m := &Model{
		cfg:          cfg,
		eng:          eng,
		searchInput:  ti,
		follow:       cfg.Display.Follow,
		pollInterval: time.Duration(cfg.Watch.PollIntervalMs) * time.Millisecond,
	}

	notifier, err := watch.NewNotifier()
	if err == nil {
		m.notifier = notifier
	} else {
		m.status = "file watching unavailable, polling only"
	}

	for _, path := range paths {
		id, _ := eng.OpenSource(path)
		m.panes = append(m.panes, NewPane(id, path, eng, cfg))
		if m.notifier != nil {
			if werr := m.notifier.Watch(filepath.Dir(path)); werr != nil {
				m.status = "watch failed for " + filepath.Dir(path) + ", polling only"
			}
		}
	}

	return m, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pollTick()}
	if m.notifier != nil {
		cmds = append(cmds, m.waitForFileEvent())
	}
	return tea.Batch(cmds...)
}

// waitForFileEvent blocks on the notifier channel; the returned message
// re-arms the command so the stream keeps flowing.
func (m *Model) waitForFileEvent() tea.Cmd {
	events := m.notifier.Events()
	return func() tea.Msg {
		path, ok := <-events
		if !ok {
			return nil
		}
		return fileEventMsg{path: path}
	}
}

func (m *Model) pollTick() tea.Cmd {
	return tea.Tick(m.pollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fileEventMsg:
		m.applyEvents(m.eng.HandleFileEvent(msg.path))
		return m, m.waitForFileEvent()

	case pollTickMsg:
		m.applyEvents(m.eng.Poll())
		return m, m.pollTick()
	}

	return m, nil
}

// applyEvents pushes engine reload outcomes into the affected panes.
func (m *Model) applyEvents(events []engine.Event) {
	for _, ev := range events {
		for _, p := range m.panes {
			if p.ID == ev.Source {
				p.ApplyEvent(ev, m.follow)
			}
		}
	}
	if len(events) > 0 {
		m.refreshHighlight()
	}
}

// refreshHighlight re-points every pane renderer at the live session
// pattern, or clears it when no search is active.
func (m *Model) refreshHighlight() {
	session := m.eng.Session()
	for _, p := range m.panes {
		if session != nil {
			p.Viewport.Renderer().SetHighlight(session.Pattern)
		} else {
			p.Viewport.Renderer().SetHighlight(nil)
		}
	}
}

func (m *Model) activePane() *Pane {
	return m.panes[m.active]
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeSearch {
		return m.handleSearchKey(msg)
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		if idx < len(m.panes) {
			m.active = idx
		}

	case "tab":
		m.active = (m.active + 1) % len(m.panes)

	case "j", "down":
		m.follow = false
		m.activePane().Viewport.ScrollDown(1)
	case "k", "up":
		m.follow = false
		m.activePane().Viewport.ScrollUp(1)

	case "d", "ctrl+d", "pgdown", " ":
		m.follow = false
		m.activePane().Viewport.PageDown()
	case "u", "ctrl+u", "pgup":
		m.follow = false
		m.activePane().Viewport.PageUp()

	case "g", "home":
		m.follow = false
		m.activePane().Viewport.GotoTop()
	case "G", "end":
		m.activePane().Viewport.GotoBottom()

	case "f":
		m.follow = !m.follow
		if m.follow {
			for _, p := range m.panes {
				p.Viewport.GotoBottom()
			}
		}

	case "F":
		m.activePane().CycleLevelFilter()

	case "l":
		m.cfg.Display.ShowLineNumbers = !m.cfg.Display.ShowLineNumbers
		for _, p := range m.panes {
			p.Viewport.SetShowLineNumbers(m.cfg.Display.ShowLineNumbers)
		}

	case "/":
		m.mode = ModeSearch
		m.searchInput.SetValue("")
		m.searchInput.Focus()
		return m, textinput.Blink

	case "n":
		if match, ok := m.eng.NextMatch(); ok {
			m.jumpToMatch(match)
		}
	case "N":
		if match, ok := m.eng.PrevMatch(); ok {
			m.jumpToMatch(match)
		}

	case "s":
		m.syncFromActive()

	case "esc":
		m.eng.ClearSearch()
		m.refreshHighlight()
		for _, p := range m.panes {
			p.Viewport.ClearHighlight()
		}
		m.status = ""

	case "?":
		m.showHelp = true
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = ModeNormal
		m.searchInput.Blur()
		m.runSearch(m.searchInput.Value())
		return m, nil

	case "esc":
		m.mode = ModeNormal
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) runSearch(pattern string) {
	if pattern == "" {
		m.eng.ClearSearch()
		m.refreshHighlight()
		m.status = ""
		return
	}

	count, err := m.eng.Search(pattern)
	if err != nil {
		m.status = err.Error()
		return
	}

	m.refreshHighlight()
	if count == 0 {
		m.status = fmt.Sprintf("no matches for %q", pattern)
		return
	}

	m.status = fmt.Sprintf("%d matches", count)
	if match, ok := m.eng.CurrentMatch(); ok {
		m.jumpToMatch(match)
	}
}

// jumpToMatch focuses the pane owning the match and centers it.
func (m *Model) jumpToMatch(match engine.Match) {
	m.follow = false
	for i, p := range m.panes {
		if p.ID == match.Source {
			m.active = i
			p.JumpToOriginal(match.Line)
			return
		}
	}
}

// syncFromActive aligns every other pane to the timestamp nearest the
// active pane's top line.
func (m *Model) syncFromActive() {
	p := m.activePane()

	refLine := p.Viewport.CurrentLine()
	if p.Filtered.IsFiltered() {
		refLine = p.Filtered.OriginalLineNumber(refLine)
	}

	targets, ok := m.eng.SyncFrom(p.ID, refLine)
	if !ok {
		m.status = "no timestamp near current line"
		return
	}

	m.follow = false
	for _, target := range targets {
		for _, other := range m.panes {
			if other.ID == target.Source {
				other.JumpToOriginal(target.Line)
			}
		}
	}
	m.status = "panes synchronized"
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	// Two rows reserved for status and help hints.
	gridH := m.height - 2

	var grid string
	switch len(m.panes) {
	case 1:
		grid = m.panes[0].View(m.width, gridH, true, m.cfg)
	case 2:
		w := m.width / 2
		grid = lipgloss.JoinHorizontal(lipgloss.Top,
			m.panes[0].View(w, gridH, m.active == 0, m.cfg),
			m.panes[1].View(m.width-w, gridH, m.active == 1, m.cfg))
	default:
		w := m.width / 2
		h := gridH / 2
		top := lipgloss.JoinHorizontal(lipgloss.Top,
			m.panes[0].View(w, h, m.active == 0, m.cfg),
			m.panes[1].View(m.width-w, h, m.active == 1, m.cfg))

		bottomPanes := []string{m.panes[2].View(w, gridH-h, m.active == 2, m.cfg)}
		if len(m.panes) > 3 {
			bottomPanes = append(bottomPanes, m.panes[3].View(m.width-w, gridH-h, m.active == 3, m.cfg))
		}
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, bottomPanes...)
		grid = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	var builder strings.Builder
	builder.WriteString(grid)
	builder.WriteString("\n")
	builder.WriteString(m.statusBar())
	builder.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Theme.LineNumbers))
	builder.WriteString(helpStyle.Render("1-4/tab:pane  j/k:scroll  /:search  n/N:match  s:sync  f:follow  F:filter  ?:help  q:quit"))

	return builder.String()
}

func (m *Model) statusBar() string {
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.cfg.Theme.StatusBarText)).
		Width(m.width)

	if m.mode == ModeSearch {
		return statusStyle.Render("/" + m.searchInput.View())
	}

	p := m.activePane()
	lineInfo := fmt.Sprintf("L%d/%d", p.Viewport.CurrentLine()+1, p.Filtered.LineCount())
	percent := fmt.Sprintf("%.0f%%", p.Viewport.PercentScrolled())

	flags := ""
	if m.follow {
		flags += " [follow]"
	}
	if label := p.FilterLabel(); label != "" {
		flags += " " + label
	}

	extra := ""
	if m.status != "" {
		extra = "  " + m.status
	}

	return statusStyle.Render(fmt.Sprintf(" %s  %s  %s%s%s",
		p.Title(), lineInfo, percent, flags, extra))
}

// Close releases the notifier and every open source.
func (m *Model) Close() error {
	if m.notifier != nil {
		return m.notifier.Close()
	}
	return nil
}
