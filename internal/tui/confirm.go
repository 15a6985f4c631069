package tui

import (
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

// ConfirmResult is the outcome of a confirmation prompt.
type ConfirmResult int

const (
	ConfirmYes ConfirmResult = iota
	ConfirmNo
	ConfirmCancelled
)

// ConfirmOptions configures Confirm.
type ConfirmOptions struct {
	Prompt  string
	Default bool // preselect the affirmative button
	Theme   theme.Theme
}

// Confirm asks a yes/no question inline and blocks until it is answered.
func Confirm(opts ConfirmOptions) (ConfirmResult, error) {
	p := tea.NewProgram(newConfirmModel(opts), termSizeOpts()...)
	final, err := p.Run()
	if err != nil {
		return ConfirmCancelled, err
	}
	return final.(confirmModel).result, nil
}

type confirmKeyMap struct {
	Toggle key.Binding
	Submit key.Binding
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

type confirmModel struct {
	prompt      string
	affirmative string
	negative    string
	selection   bool
	result      ConfirmResult
	done        bool
	keys        confirmKeyMap

	promptStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	idleStyle     lipgloss.Style
}

func newConfirmModel(opts ConfirmOptions) confirmModel {
	t := opts.Theme
	plain := lipgloss.NewStyle()
	return confirmModel{
		prompt:      opts.Prompt,
		affirmative: i18n.T("confirm.yes", "Yes"),
		negative:    i18n.T("confirm.no", "No"),
		selection:   opts.Default,
		result:      ConfirmCancelled,
		keys: confirmKeyMap{
			Toggle: key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab", "shift+tab")),
			Submit: key.NewBinding(key.WithKeys("enter")),
			Yes:    key.NewBinding(key.WithKeys("y", "Y")),
			No:     key.NewBinding(key.WithKeys("n", "N")),
			Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
		},
		promptStyle: applyStyle(plain, t.TextPrimary).Bold(true),
		selectedStyle: plain.
			Bold(true).
			Foreground(lipgloss.Color(t.Selection.Fg)).
			Background(lipgloss.Color(t.GetAccent())).
			Padding(0, 2),
		idleStyle: applyStyle(plain, t.TextMuted).Padding(0, 2),
	}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	kp, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(kp, m.keys.Cancel):
		m.result = ConfirmCancelled
	case key.Matches(kp, m.keys.Yes):
		m.result = ConfirmYes
	case key.Matches(kp, m.keys.No):
		m.result = ConfirmNo
	case key.Matches(kp, m.keys.Submit):
		m.result = ConfirmNo
		if m.selection {
			m.result = ConfirmYes
		}
	case key.Matches(kp, m.keys.Toggle):
		m.selection = !m.selection
		return m, nil
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	aff, neg := m.idleStyle, m.selectedStyle
	if m.selection {
		aff, neg = m.selectedStyle, m.idleStyle
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, aff.Render(m.affirmative), "  ", neg.Render(m.negative))
	return tea.NewView(fmt.Sprintf("\n%s\n\n%s\n", m.promptStyle.Render(m.prompt), buttons))
}
