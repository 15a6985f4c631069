package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

// ThemeDisplay handles theme visualization in the terminal.
type ThemeDisplay struct {
	w      io.Writer
	theme  theme.Theme
	active string
}

// NewThemeDisplay creates a new theme display formatter. active is the name
// of the configured theme.
func NewThemeDisplay(w io.Writer, t theme.Theme, active string) *ThemeDisplay {
	return &ThemeDisplay{w: w, theme: t, active: active}
}

// themeEntry is one color of the theme with a sample.
type themeEntry struct {
	Name       string
	Style      theme.Style
	Category   string
	SampleText string
}

// Show displays the theme with styled samples.
func (d *ThemeDisplay) Show() error {
	t := d.theme

	entries := []themeEntry{
		{Name: "Accent", Style: theme.Style{Fg: t.GetAccent()}, Category: "Accent", SampleText: "▌Accent"},
		{Name: "BorderActive", Style: theme.Style{Fg: t.GetBorderActive()}, Category: "Accent", SampleText: "▌Active Border"},
		{Name: "BorderInactive", Style: theme.Style{Fg: t.GetBorderInactive()}, Category: "Accent", SampleText: "│ Inactive Border"},

		{Name: "TextPrimary", Style: t.TextPrimary, Category: "Text", SampleText: "Primary Text"},
		{Name: "TextSecondary", Style: t.TextSecondary, Category: "Text", SampleText: "Secondary info text"},
		{Name: "TextMuted", Style: t.TextMuted, Category: "Text", SampleText: "Muted help text"},

		{Name: "Title", Style: t.Title, Category: "Status", SampleText: "Upload PDF"},
		{Name: "Info", Style: t.Info, Category: "Status", SampleText: "Chunks indexed: 12"},
		{Name: "Error", Style: t.Error, Category: "Status", SampleText: "request failed: 500"},
		{Name: "Selection", Style: t.Selection, Category: "Status", SampleText: " thermodynamics.pdf "},

		{Name: "UserLabel", Style: t.UserLabel, Category: "Chat", SampleText: "You"},
		{Name: "UserBlock", Style: t.UserBlock, Category: "Chat", SampleText: " What is entropy? "},
		{Name: "AssistantLabel", Style: t.AssistantLabel, Category: "Chat", SampleText: "RootMind"},
		{Name: "Source", Style: t.Source, Category: "Chat", SampleText: "p. 4 · p. 7"},

		{Name: "PlanSection", Style: t.PlanSection, Category: "Plan", SampleText: "1. Chapter 1"},
		{Name: "PlanObjective", Style: t.PlanObjective, Category: "Plan", SampleText: "Define entropy"},
	}

	themesDir, _ := theme.ThemesDir()
	fmt.Fprintf(d.w, "Active Theme: %s\n", d.active)
	if t.Description != "" {
		fmt.Fprintf(d.w, "Description:  %s\n", t.Description)
	}
	fmt.Fprintf(d.w, "Markdown:     %s\n", t.GetMarkdown())
	fmt.Fprintf(d.w, "Themes Dir:   %s\n\n", themesDir)

	categoryStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.GetAccent()))
	nameStyle := lipgloss.NewStyle().Width(20)
	colorStyle := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color(t.TextMuted.Fg))

	currentCategory := ""
	for _, entry := range entries {
		if entry.Category != currentCategory {
			if currentCategory != "" {
				fmt.Fprintln(d.w)
			}
			fmt.Fprintf(d.w, "%s\n", categoryStyle.Render(entry.Category))
			fmt.Fprintf(d.w, "%s\n", strings.Repeat("─", len(entry.Category)+2))
			currentCategory = entry.Category
		}

		hex := entry.Style.Fg
		if entry.Style.Bg != "" {
			hex = entry.Style.Bg
		}
		fmt.Fprintf(d.w, "  %s %s %s\n",
			nameStyle.Render(entry.Name),
			colorStyle.Render(hex),
			sampleStyle(entry.Style).Render(entry.SampleText),
		)
	}

	fmt.Fprintln(d.w)
	return nil
}

func sampleStyle(s theme.Style) lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Fg != "" {
		st = st.Foreground(lipgloss.Color(s.Fg))
	}
	if s.Bg != "" {
		st = st.Background(lipgloss.Color(s.Bg))
	}
	return st.Bold(s.Bold).Italic(s.Italic).Underline(s.Underline)
}

// ShowJSON displays the theme as JSON.
func (d *ThemeDisplay) ShowJSON() error {
	enc := json.NewEncoder(d.w)
	enc.SetIndent("", "  ")
	return enc.Encode(d.theme)
}

// ListThemes displays all available themes, marking active.
func ListThemes(w io.Writer, active string) error {
	fmt.Fprintln(w, "Available Themes:")
	fmt.Fprintln(w)

	for _, t := range theme.ListAvailable() {
		marker := "  "
		if t.Name == active {
			marker = "* "
		}
		source := "built-in"
		if !t.Embedded {
			source = "user"
		}
		fmt.Fprintf(w, "%s%-12s  %-10s  %s\n", marker, t.Name, "("+source+")", t.Description)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Active theme marked with *")
	fmt.Fprintln(w, "Use 'rootmind theme set <name>' to change theme")
	return nil
}

// ListThemesJSON writes the available themes as JSON.
func ListThemesJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(theme.ListAvailable())
}
