package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) helpView() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.cfg.Theme.ActiveBorder))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.cfg.Theme.SearchMatch))

	type binding struct {
		keys string
		desc string
	}

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Panes", []binding{
			{"1-4", "focus pane"},
			{"tab", "cycle focus"},
		}},
		{"Navigation", []binding{
			{"j/k", "scroll down/up"},
			{"d/u, space", "page down/up"},
			{"g/G", "top/bottom"},
		}},
		{"Search", []binding{
			{"/", "regex search across all panes"},
			{"n/N", "next/previous match"},
			{"esc", "clear search"},
		}},
		{"Logs", []binding{
			{"s", "sync panes to active pane's timestamp"},
			{"f", "toggle follow mode"},
			{"F", "cycle level filter (warn+, error+)"},
			{"l", "toggle line numbers"},
		}},
		{"General", []binding{
			{"?", "this help"},
			{"q", "quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("mview - synchronized log viewer"))
	b.WriteString("\n\n")
	for _, section := range sections {
		b.WriteString(titleStyle.Render(section.title))
		b.WriteString("\n")
		for _, bind := range section.bindings {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(bind.keys))
			b.WriteString(strings.Repeat(" ", 14-len(bind.keys)))
			b.WriteString(bind.desc)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("press any key to close")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
