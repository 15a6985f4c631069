package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/tui"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file.pdf]",
	Short: "Launch the interactive TUI",
	Long: `Study a document in a two-column terminal interface.

Left column: file picker and the collapsible study plan
Right column: chat about the uploaded document

Pick a PDF and press enter to upload it. Chat is enabled once the
document is indexed and its study plan generated. Uploading another PDF
replaces the document; the conversation is kept.

Keys: tab/shift+tab switch panes, enter selects or sends, ctrl+p toggles
the plan, ? shows help, ctrl+c quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	var initial string
	if len(args) == 1 {
		if initial, err = checkPDF(args[0]); err != nil {
			return err
		}
	}

	startDir := cfg.StartDir
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if initial != "" {
		startDir = filepath.Dir(initial)
	}

	t, err := theme.LoadByName(cfg.Theme)
	if err != nil {
		tuilog.Log.Warn("theme unavailable, using default", "theme", cfg.Theme, "error", err)
		t = theme.DefaultTheme()
	}

	tuilog.Log.Info("starting TUI", "start_dir", startDir, "initial", initial)
	err = run(func(ctx context.Context) error {
		return tui.Run(ctx, tui.Options{
			Client:      client,
			Theme:       t,
			StartDir:    startDir,
			InitialPath: initial,
		})
	})
	tuilog.Log.Info("TUI exited", "error", err)
	return err
}

// checkPDF resolves path and makes sure it is a readable .pdf file.
func checkPDF(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	if !strings.EqualFold(filepath.Ext(abs), ".pdf") {
		return "", fmt.Errorf("%s is not a PDF", path)
	}
	return abs, nil
}
