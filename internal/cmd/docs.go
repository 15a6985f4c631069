package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var (
	docsOutputDir        string
	docsEnableAutoGenTag bool
	docsHugo             bool
)

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate documentation for rootmind",
	Hidden: true,
	Long: `Generate documentation for all rootmind commands.

Subcommands:
  markdown  Generate plain markdown (default)
  man       Generate man pages

The timestamp footer is off by default so regenerated files stay stable.

Examples:
  rootmind docs                       # Markdown in ./docs/
  rootmind docs markdown --hugo -o site/content/cli
  rootmind docs man -o /usr/local/share/man/man1`,
	RunE: runDocsMarkdown,
}

var docsMarkdownCmd = &cobra.Command{
	Use:   "markdown",
	Short: "Generate markdown documentation",
	RunE:  runDocsMarkdown,
}

var docsManCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man pages",
	RunE:  runDocsMan,
}

func init() {
	docsCmd.PersistentFlags().StringVarP(&docsOutputDir, "output", "o", "./docs", "output directory")
	docsCmd.PersistentFlags().BoolVar(&docsEnableAutoGenTag, "enableAutoGenTag", false, "add the generation timestamp footer")
	docsMarkdownCmd.Flags().BoolVar(&docsHugo, "hugo", false, "add Hugo front matter")
	docsCmd.AddCommand(docsMarkdownCmd, docsManCmd)
}

func runDocsMarkdown(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(docsOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	rootCmd.DisableAutoGenTag = !docsEnableAutoGenTag

	if docsHugo {
		prepender := func(filename string) string {
			name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
			return fmt.Sprintf("---\ntitle: %q\n---\n\n", strings.ReplaceAll(name, "_", " "))
		}
		linkHandler := func(name string) string { return name }
		if err := doc.GenMarkdownTreeCustom(rootCmd, docsOutputDir, prepender, linkHandler); err != nil {
			return fmt.Errorf("generate markdown: %w", err)
		}
	} else if err := doc.GenMarkdownTree(rootCmd, docsOutputDir); err != nil {
		return fmt.Errorf("generate markdown: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d markdown files in %s\n", countFiles(docsOutputDir, ".md"), docsOutputDir)
	return nil
}

func runDocsMan(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(docsOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	rootCmd.DisableAutoGenTag = !docsEnableAutoGenTag

	header := &doc.GenManHeader{Title: "ROOTMIND", Section: "1"}
	if err := doc.GenManTree(rootCmd, header, docsOutputDir); err != nil {
		return fmt.Errorf("generate man pages: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d man pages in %s\n", countFiles(docsOutputDir, ".1"), docsOutputDir)
	return nil
}

func countFiles(dir, ext string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var count int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			count++
		}
	}
	return count
}
