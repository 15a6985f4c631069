package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

const pickerListPercent = 35

// LanguagePickerModel lists the UI languages with a preview of the
// translated strings.
type LanguagePickerModel struct {
	items    []i18n.LangInfo
	cursor   int
	preview  viewport.Model
	styles   Styles
	width    int
	height   int
	ready    bool
	selected string // "" if cancelled
}

// NewLanguagePickerModel creates the picker with the cursor on activeTag.
func NewLanguagePickerModel(activeTag string, t theme.Theme) LanguagePickerModel {
	items := i18n.AvailableLanguages(activeTag)
	cursor := 0
	for i, l := range items {
		if l.Active {
			cursor = i
		}
	}
	return LanguagePickerModel{
		items:  items,
		cursor: cursor,
		styles: newStyles(t),
	}
}

func (m LanguagePickerModel) Init() tea.Cmd {
	return nil
}

func (m LanguagePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.preview = viewport.New()
			m.ready = true
		}
		listWidth := m.width * pickerListPercent / 100
		m.preview.SetWidth(max(1, m.width-listWidth-4))
		m.preview.SetHeight(max(1, m.height-4))
		m.updatePreview()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.updatePreview()
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.updatePreview()
			}
		case "enter":
			if len(m.items) > 0 {
				m.selected = m.items[m.cursor].Tag
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *LanguagePickerModel) updatePreview() {
	if !m.ready || len(m.items) == 0 {
		return
	}
	strs := i18n.PreviewStrings(m.items[m.cursor].Tag)

	var b strings.Builder
	b.WriteString("\n")
	for _, kv := range i18n.PreviewKeys() {
		label := m.styles.Muted.Render(fmt.Sprintf("  %-20s", kv[0]))
		b.WriteString(label + m.styles.Text.Bold(true).Render(strs[kv[0]]) + "\n")
	}
	m.preview.SetContent(b.String())
}

func (m LanguagePickerModel) View() tea.View {
	if !m.ready {
		v := tea.NewView(i18n.T("common.loading", "Loading..."))
		v.AltScreen = true
		return v
	}

	listWidth := m.width * pickerListPercent / 100
	previewWidth := max(1, m.width-listWidth-1)
	paneHeight := max(3, m.height-2)

	listPane := boxed(m.styles.ActiveBorder, listWidth, paneHeight,
		m.styles.PaneTitle.Render(i18n.T("language.title", "Languages"))+"\n"+m.renderList())
	previewPane := boxed(m.styles.InactiveBorder, previewWidth, paneHeight,
		m.styles.PaneTitle.Render(i18n.T("language.preview", "Preview"))+"\n"+m.preview.View())

	footer := m.styles.Muted.Render(i18n.T("language.help", "↑/↓: navigate • enter: select • q/esc: cancel"))
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, " ", previewPane) + "\n" + footer
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

func (m LanguagePickerModel) renderList() string {
	var b strings.Builder
	for i, item := range m.items {
		prefix := "  "
		nameStyle := m.styles.Text
		if i == m.cursor {
			prefix = "▸ "
			nameStyle = m.styles.Accent.Bold(true)
		}

		name := item.Name
		if item.Active {
			name += " *"
		}
		line := prefix + nameStyle.Render(name)

		if i == m.cursor {
			desc := item.Tag
			if item.EnglishName != item.Name {
				desc += " · " + item.EnglishName
			}
			line += "\n    " + m.styles.Muted.Render(desc)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// Selected returns the chosen tag, or "" if the picker was cancelled.
func (m LanguagePickerModel) Selected() string { return m.selected }

// RunLanguagePicker runs the picker and returns the selected tag, or "" if
// the user cancelled.
func RunLanguagePicker(activeTag string, t theme.Theme) (string, error) {
	p := tea.NewProgram(NewLanguagePickerModel(activeTag, t), termSizeOpts()...)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	result, ok := final.(LanguagePickerModel)
	if !ok {
		return "", nil
	}
	return result.selected, nil
}
