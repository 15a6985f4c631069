package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

// Styles holds the lipgloss styles computed from a theme.
type Styles struct {
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style

	Header    lipgloss.Style
	PaneTitle lipgloss.Style
	Text      lipgloss.Style
	Secondary lipgloss.Style
	Muted     lipgloss.Style
	Info      lipgloss.Style
	Error     lipgloss.Style
	Selection lipgloss.Style
	Accent    lipgloss.Style

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserBlock      lipgloss.Style
	Source         lipgloss.Style

	PlanSection   lipgloss.Style
	PlanObjective lipgloss.Style
}

// applyStyle applies a theme.Style to a lipgloss.Style builder.
func applyStyle(s lipgloss.Style, ts theme.Style) lipgloss.Style {
	if ts.Fg != "" {
		s = s.Foreground(lipgloss.Color(ts.Fg))
	}
	if ts.Bg != "" {
		s = s.Background(lipgloss.Color(ts.Bg))
	}
	if ts.Bold {
		s = s.Bold(true)
	}
	if ts.Italic {
		s = s.Italic(true)
	}
	if ts.Underline {
		s = s.Underline(true)
	}
	return s
}

func newStyles(t theme.Theme) Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		ActiveBorder: plain.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.GetBorderActive())).
			Padding(0, 1),
		InactiveBorder: plain.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.GetBorderInactive())).
			Padding(0, 1),

		Header: plain.
			Background(lipgloss.Color(t.GetAccent())).
			Foreground(lipgloss.Color(t.Selection.Fg)).
			Bold(true).
			Padding(0, 1),
		PaneTitle: applyStyle(plain, t.Title),
		Text:      applyStyle(plain, t.TextPrimary),
		Secondary: applyStyle(plain, t.TextSecondary),
		Muted:     applyStyle(plain, t.TextMuted),
		Info:      applyStyle(plain, t.Info),
		Error:     applyStyle(plain, t.Error),
		Selection: applyStyle(plain, t.Selection),
		Accent:    plain.Foreground(lipgloss.Color(t.GetAccent())),

		UserLabel:      applyStyle(plain, t.UserLabel),
		AssistantLabel: applyStyle(plain, t.AssistantLabel),
		UserBlock:      applyStyle(plain, t.UserBlock).Padding(0, 1),
		Source:         applyStyle(plain, t.Source),

		PlanSection:   applyStyle(plain, t.PlanSection),
		PlanObjective: applyStyle(plain, t.PlanObjective),
	}
}

// boxed renders content inside a bordered pane of exactly width x height
// cells.
func boxed(s lipgloss.Style, width, height int, content string) string {
	innerW := max(1, width-s.GetHorizontalFrameSize())
	innerH := max(1, height-s.GetVerticalFrameSize())
	body := lipgloss.NewStyle().
		Width(innerW).
		MaxWidth(innerW).
		Height(innerH).
		MaxHeight(innerH).
		Render(content)
	return s.Render(body)
}
