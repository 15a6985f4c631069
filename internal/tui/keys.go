package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/rootmind/go-rootmind/internal/i18n"
)

// keyMap defines the global key bindings.
type keyMap struct {
	NextPane   key.Binding
	PrevPane   key.Binding
	Submit     key.Binding
	TogglePlan key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", i18n.T("tui.help.nextPane", "next pane")),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", i18n.T("tui.help.prevPane", "previous pane")),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("tui.help.submit", "select / send")),
		),
		TogglePlan: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", i18n.T("tui.help.togglePlan", "toggle plan")),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", i18n.T("tui.help.help", "help")),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", i18n.T("tui.help.quit", "quit")),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Submit, k.TogglePlan, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Submit},
		{k.TogglePlan, k.Help, k.Quit},
	}
}
