package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rootmind/go-rootmind/internal/config"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/tui"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

var languageCmd = &cobra.Command{
	Use:   "language [lang]",
	Short: "Get or set the display language",
	Long: `Get or set the display language. Use a BCP 47 tag (e.g. en, es).

Without an argument on a terminal, opens a picker with a preview of each
language. Otherwise prints the current language.

Examples:
  rootmind language          # pick interactively
  rootmind language es       # switch to Spanish
  rootmind language --list   # list available languages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLanguage,
}

var languageList bool

func init() {
	languageCmd.Flags().BoolVar(&languageList, "list", false, "list available languages")
}

func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runLanguage(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	current := i18n.ResolveLocale(cfg.Language)

	if languageList {
		for _, l := range i18n.AvailableLanguages(current) {
			marker := " "
			if l.Active {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-6s %s (%s)\n", marker, l.Tag, l.Name, l.EnglishName)
		}
		return nil
	}

	var lang string
	switch {
	case len(args) == 1:
		lang = args[0]
	case isTTY():
		t, err := theme.LoadByName(cfg.Theme)
		if err != nil {
			t = theme.DefaultTheme()
		}
		selected, err := tui.RunLanguagePicker(current, t)
		if err != nil {
			return err
		}
		if selected == "" {
			return nil
		}
		lang = selected
	default:
		fmt.Fprintf(out, "Current language: %s\n", current)
		return nil
	}

	fileCfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	fileCfg.Language = lang
	if err := config.Save(fileCfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "Language set to: %s\n", lang)
	return nil
}
