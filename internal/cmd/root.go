// Package cmd provides the CLI commands for rootmind.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/config"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// global flags
var (
	logPath     string
	verbose     bool
	apiURL      string
	timeout     time.Duration
	langFlag    string
	metricsAddr string
	outputJSON  bool
)

// cfg is the effective configuration: file, then environment, then flags.
var cfg config.Config

// rootCmd is the root command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "rootmind [file.pdf]",
	Short: "Study a PDF with an AI assistant",
	Long: `rootmind uploads a PDF to a study backend, shows the study plan derived
from it and answers questions about it.

Running without a subcommand launches the interactive TUI. Passing a PDF
starts uploading it right away.

Commands:
  tui         Launch the interactive TUI (default)
  upload      Upload a PDF and print its study plan
  ask         Ask a single question
  chat        Upload a PDF and chat about it line by line
  plan        Print the current study plan
  health      Check the backend
  dev-server  Run a local stub backend
  config      Show or edit the configuration

Examples:
  rootmind                          # Launch TUI
  rootmind notes.pdf                # Launch TUI and upload notes.pdf
  rootmind upload notes.pdf         # Upload and print the plan
  rootmind ask "What is entropy?"   # Ask about the last document
  rootmind dev-server &             # Stub backend on :8000`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = tuilog.Log.Close()
	},
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&logPath, "log", "", "write debug log to file")
	pf.StringVar(&apiURL, "api-url", "", "backend base URL (overrides config and "+config.EnvAPIURL+")")
	pf.DurationVar(&timeout, "timeout", 0, "per-request timeout (overrides config and "+config.EnvTimeout+")")
	pf.StringVar(&langFlag, "lang", "", "UI language (e.g. en, es)")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(devServerCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(languageCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(docsCmd)
}

// setup loads configuration, language and logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if apiURL != "" {
		loaded.APIURL = apiURL
	}
	if timeout > 0 {
		loaded.Timeout = timeout.String()
	}
	if langFlag != "" {
		loaded.Language = langFlag
	}
	cfg = loaded

	i18n.Init(i18n.ResolveLocale(cfg.Language))

	if logPath != "" {
		opts := tuilog.DefaultOptions
		if verbose {
			opts.Level = tuilog.LevelDebug
		}
		if err := tuilog.InitWithOptions(logPath, opts); err != nil {
			return fmt.Errorf("open log: %w", err)
		}
	}
	tuilog.Log.Info("command started", "command", cmd.CommandPath(), "api_url", cfg.APIURL, "lang", i18n.Language())
	return nil
}

// newClient builds the API client from the effective configuration.
func newClient() (*api.Client, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}
	return api.New(cfg.APIURL,
		api.WithTimeout(cfg.TimeoutDuration()),
		api.WithAPIKey(cfg.APIKey),
	), nil
}

// run executes fn under a context cancelled on SIGINT/SIGTERM. When
// --metrics-addr is set, the metrics listener runs alongside fn and stops
// with it.
func run(fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metricsRouter(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			tuilog.Log.Info("metrics listening", "addr", metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-done:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer close(done)
		return fn(gctx)
	})
	return g.Wait()
}

func metricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	return r
}
