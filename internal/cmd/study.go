package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/cli"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// Study command flags
var (
	askDocument  string
	planDocument string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF and print its study plan",
	Long: `Upload a PDF to the backend, generate its study metadata and print
the title, the study plan and the indexing diagnostics.

The document id printed at the end can be passed to 'ask --document'.

Examples:
  rootmind upload notes.pdf
  rootmind upload notes.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Ask a question about the uploaded document",
	Long: `Ask a single question and print the answer with its page references.

Without --document the backend answers about the most recently uploaded
document.

Examples:
  rootmind ask "What is entropy?"
  rootmind ask --document doc-1234 What is entropy`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var chatCmd = &cobra.Command{
	Use:   "chat <file.pdf>",
	Short: "Upload a PDF and chat about it line by line",
	Long: `Upload a PDF, print its study plan and read questions from standard
input until "exit", "quit" or end of input.

Type ":plan" to print the study plan again.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the current study plan",
	Long: `Print the title and study plan the backend holds for a document,
without generating them again.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the backend",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	uploadCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "document id returned by upload")
	askCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	planCmd.Flags().StringVarP(&planDocument, "document", "d", "", "document id returned by upload")
	planCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	healthCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
}

// uploadDocument runs a whole upload attempt with a spinner on w and returns
// the resulting session.
func uploadDocument(ctx context.Context, client study.Client, path string, w io.Writer) (study.Snapshot, error) {
	bar := cli.Spinner(w, cli.PhaseLabel(study.PhaseIngest))
	ready, err := study.NewUploader().Run(ctx, client, path, func(p study.UploadPhase) {
		bar.Describe(color.CyanString(cli.PhaseLabel(p)))
	})
	_ = bar.Finish()
	if err != nil {
		var uf *study.UploadFailure
		if errors.As(err, &uf) {
			tuilog.Log.Warn("upload failed", "step", uf.Step, "error", err)
		}
		return study.Snapshot{}, err
	}
	return study.NewCoordinator(cli.ReadyInfo).Apply(ready), nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	path, err := checkPDF(args[0])
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	return run(func(ctx context.Context) error {
		snap, err := uploadDocument(ctx, client, path, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		p := cli.NewPrinter(cmd.OutOrStdout())
		if outputJSON {
			return p.JSON(snap)
		}
		p.Ready(snap)
		return nil
	})
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	question := strings.Join(args, " ")

	// The document is addressed explicitly, so the session counts as ready.
	snap := study.Snapshot{Ready: true, DocumentID: askDocument}
	chat := study.NewChat(study.WithFallbackAnswer(i18n.T("chat.noAnswer", "No answer")))

	return run(func(ctx context.Context) error {
		bar := cli.Spinner(cmd.ErrOrStderr(), " "+i18n.T("chat.thinking", "Thinking…"))
		msg, err := chat.Ask(ctx, client, question, snap)
		_ = bar.Finish()
		if err != nil {
			return err
		}
		p := cli.NewPrinter(cmd.OutOrStdout())
		if outputJSON {
			return p.JSON(msg)
		}
		p.Answer(msg)
		return nil
	})
}

func runChat(cmd *cobra.Command, args []string) error {
	path, err := checkPDF(args[0])
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	return run(func(ctx context.Context) error {
		snap, err := uploadDocument(ctx, client, path, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		p := cli.NewPrinter(out)
		p.Ready(snap)
		return chatLoop(ctx, client, snap, cmd.InOrStdin(), out, cmd.ErrOrStderr())
	})
}

// chatLoop reads questions from in until exit, answering each against snap.
// A failed question is reported and the loop continues.
func chatLoop(ctx context.Context, client study.Client, snap study.Snapshot, in io.Reader, out, status io.Writer) error {
	p := cli.NewPrinter(out)
	chat := study.NewChat(study.WithFallbackAnswer(i18n.T("chat.noAnswer", "No answer")))
	prompt := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.HiBlackString(i18n.T("chat.replHint", `Ask about the document. Type "exit" to quit.`)))

	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(out, "› ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case ":plan":
			p.Plan(snap.StudyPlan)
			continue
		}

		bar := cli.Spinner(status, " "+i18n.T("chat.thinking", "Thinking…"))
		msg, err := chat.Ask(ctx, client, line, snap)
		_ = bar.Finish()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Error(err)
			continue
		}
		p.Answer(msg)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return run(func(ctx context.Context) error {
		meta, err := client.CurrentStudyMetadata(ctx, planDocument)
		if err != nil {
			return err
		}
		p := cli.NewPrinter(cmd.OutOrStdout())
		if outputJSON {
			return p.JSON(meta)
		}
		if meta.Title != "" {
			color.New(color.FgGreen, color.Bold).Fprintln(cmd.OutOrStdout(), meta.Title)
		}
		p.Plan(meta.StudyPlan)
		return nil
	})
}

func runHealth(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	return run(func(ctx context.Context) error {
		h, err := client.Health(ctx)
		if err != nil {
			return err
		}
		p := cli.NewPrinter(cmd.OutOrStdout())
		if outputJSON {
			return p.JSON(h)
		}
		p.Health(client.BaseURL(), h)
		return nil
	})
}
