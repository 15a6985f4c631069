package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/config"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/tui"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the configuration",
	Long: `Show or edit ~/.rootmind/config.json.

Environment variables override the file:
  ` + config.EnvAPIURL + `   backend base URL
  ` + config.EnvAPIKey + `   bearer token
  ` + config.EnvTimeout + `   per-request timeout

Examples:
  rootmind config                        # effective configuration
  rootmind config get api_url
  rootmind config set api_url http://10.0.0.5:8000
  rootmind config set timeout 3m
  rootmind config reset --yes
  rootmind config path`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cfg.Redacted().Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Set and save one configuration value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.Keys,
	RunE:      runConfigSet,
}

var configResetYes bool

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default configuration",
	Long: `Overwrite ~/.rootmind/config.json with the defaults. Asks first on a
terminal unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigReset,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	configResetCmd.Flags().BoolVarP(&configResetYes, "yes", "y", false, "do not ask for confirmation")
	configCmd.AddCommand(configGetCmd, configSetCmd, configResetCmd, configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := cfg.Redacted()
	out := cmd.OutOrStdout()
	if outputJSON {
		return writeJSON(out, shown)
	}
	for _, k := range config.Keys {
		v, _ := shown.Get(k)
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(out, "%-10s %s\n", k, v)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	fileCfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := fileCfg.Set(key, value); err != nil {
		return err
	}
	if errs := fileCfg.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return errors.Join(joined...)
	}
	if key == "theme" && !theme.Exists(value) {
		return fmt.Errorf("theme %q not found; see 'rootmind theme list'", value)
	}

	if err := config.Save(fileCfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s set\n", key)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	if !configResetYes {
		if !isTTY() {
			return errors.New("refusing to reset without a terminal; pass --yes")
		}
		t, err := theme.LoadByName(cfg.Theme)
		if err != nil {
			t = theme.DefaultTheme()
		}
		res, err := tui.Confirm(tui.ConfirmOptions{
			Prompt: i18n.T("config.resetPrompt", "Reset the configuration to the defaults?"),
			Theme:  t,
		})
		if err != nil {
			return err
		}
		if res != tui.ConfirmYes {
			return nil
		}
	}
	if err := config.Save(config.Default()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset")
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
