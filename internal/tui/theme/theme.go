// Package theme provides theming support for the TUI.
package theme

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rootmind/go-rootmind/internal/config"
)

//go:embed themes/*.json
var embeddedThemes embed.FS

// Style defines colors and text attributes for a UI element.
type Style struct {
	Fg        string `json:"fg,omitempty"`
	Bg        string `json:"bg,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Theme defines all styles used in the TUI.
type Theme struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	// Markdown style for assistant answers: "dark", "light", "notty" or a
	// path to a glamour JSON style.
	Markdown string `json:"markdown,omitempty"`

	Accent         string `json:"accent,omitempty"`
	BorderActive   string `json:"border_active,omitempty"`
	BorderInactive string `json:"border_inactive,omitempty"`

	TextPrimary   Style `json:"text_primary,omitempty"`
	TextSecondary Style `json:"text_secondary,omitempty"`
	TextMuted     Style `json:"text_muted,omitempty"`

	Title     Style `json:"title,omitempty"`
	Info      Style `json:"info,omitempty"`
	Error     Style `json:"error,omitempty"`
	Selection Style `json:"selection,omitempty"`

	UserLabel      Style `json:"user_label,omitempty"`
	AssistantLabel Style `json:"assistant_label,omitempty"`
	UserBlock      Style `json:"user_block,omitempty"`
	Source         Style `json:"source,omitempty"`

	PlanSection   Style `json:"plan_section,omitempty"`
	PlanObjective Style `json:"plan_objective,omitempty"`
}

// ThemeMeta holds metadata about an available theme.
type ThemeMeta struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path,omitempty"` // empty for embedded
	Embedded    bool   `json:"embedded"`
}

// DefaultTheme returns the embedded dark theme.
func DefaultTheme() Theme {
	t, _ := LoadEmbedded("dark")
	return t
}

// LoadEmbedded loads a built-in theme.
func LoadEmbedded(name string) (Theme, error) {
	data, err := embeddedThemes.ReadFile("themes/" + name + ".json")
	if err != nil {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	return t, nil
}

// ListEmbedded returns the names of the built-in themes.
func ListEmbedded() []string {
	entries, err := embeddedThemes.ReadDir("themes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok && !e.IsDir() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ThemesDir returns ~/.rootmind/themes.
func ThemesDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// ListAvailable returns the built-in themes followed by user themes.
func ListAvailable() []ThemeMeta {
	var out []ThemeMeta
	for _, name := range ListEmbedded() {
		t, err := LoadEmbedded(name)
		if err != nil {
			continue
		}
		out = append(out, ThemeMeta{Name: name, Description: t.Description, Embedded: true})
	}

	dir, err := ThemesDir()
	if err != nil {
		return out
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		desc := "User theme"
		if t, err := readFile(path); err == nil && t.Description != "" {
			desc = t.Description
		}
		out = append(out, ThemeMeta{Name: name, Description: desc, Path: path})
	}
	return out
}

func readFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	t := DefaultTheme() // unset fields keep the dark values
	if err := json.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// LoadByName loads a user theme, falling back to the built-in one.
func LoadByName(name string) (Theme, error) {
	if dir, err := ThemesDir(); err == nil {
		path := filepath.Join(dir, name+".json")
		if _, statErr := os.Stat(path); statErr == nil {
			t, err := readFile(path)
			if err != nil {
				return DefaultTheme(), err
			}
			t.Name = name
			return t, nil
		}
	}
	return LoadEmbedded(name)
}

// Exists reports whether a theme with that name can be loaded.
func Exists(name string) bool {
	_, err := LoadByName(name)
	return err == nil
}

// GetAccent returns the accent color, with fallback.
func (t Theme) GetAccent() string {
	if t.Accent != "" {
		return t.Accent
	}
	return "#2E9E6B"
}

// GetBorderActive returns the focused border color.
func (t Theme) GetBorderActive() string {
	if t.BorderActive != "" {
		return t.BorderActive
	}
	return t.GetAccent()
}

// GetBorderInactive returns the unfocused border color.
func (t Theme) GetBorderInactive() string {
	if t.BorderInactive != "" {
		return t.BorderInactive
	}
	return "#444444"
}

// GetMarkdown returns the glamour style, with fallback.
func (t Theme) GetMarkdown() string {
	if t.Markdown != "" {
		return t.Markdown
	}
	return "dark"
}
