package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/cli"
	"github.com/rootmind/go-rootmind/internal/config"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show and manage TUI themes",
	Long: `Show and manage TUI themes.

The theme controls the colors of the panes, chat messages and study plan.
Built-in themes are dark and light; user themes are read from
~/.rootmind/themes/<name>.json and inherit unset colors from dark.

Examples:
  rootmind theme             # Show the active theme
  rootmind theme list        # List all themes
  rootmind theme show light  # Show the light theme
  rootmind theme set light   # Switch to light`,
	Args: cobra.NoArgs,
	RunE: runThemeShow,
}

var themeShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a theme with styled samples",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runThemeShow,
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available themes",
	Long:  `List all built-in and user themes. The active theme is marked with *.`,
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Set the active theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runThemeSet,
}

func init() {
	themeCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON")
	themeCmd.AddCommand(themeShowCmd, themeListCmd, themeSetCmd)
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	name := cfg.Theme
	if len(args) > 0 {
		name = args[0]
	}
	t, err := theme.LoadByName(name)
	if err != nil {
		return fmt.Errorf("theme %q not found", name)
	}

	display := cli.NewThemeDisplay(cmd.OutOrStdout(), t, name)
	if outputJSON {
		return display.ShowJSON()
	}
	return display.Show()
}

func runThemeList(cmd *cobra.Command, args []string) error {
	if outputJSON {
		return cli.ListThemesJSON(cmd.OutOrStdout())
	}
	return cli.ListThemes(cmd.OutOrStdout(), cfg.Theme)
}

func runThemeSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	if !theme.Exists(name) {
		return fmt.Errorf("theme %q not found; see 'rootmind theme list'", name)
	}

	fileCfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	fileCfg.Theme = name
	if err := config.Save(fileCfg); err != nil {
		return fmt.Errorf("failed to set theme: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme set to: %s\n", name)
	return nil
}
