package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rootmind/go-rootmind/internal/config"
	"github.com/rootmind/go-rootmind/internal/devserver"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// Dev server flags
var (
	devHost      string
	devPort      int
	devToken     string
	devChunkSize int
	devQuiet     bool
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run a local stub backend",
	Long: `Run a stand-in for the study backend on localhost.

The dev server speaks the same HTTP API as the real backend with canned
content: uploads are chunked by size, the study plan has one section per
few pages and answers cite the first pages. Use it to try the TUI and
the commands without the real service.

Prometheus metrics are served at /metrics.

Examples:
  rootmind dev-server                   # listen on localhost:8000
  rootmind dev-server -p 0              # pick a free port
  rootmind dev-server --token secret    # require a bearer token
  rootmind dev-server ls                # list running dev servers`,
	Args: cobra.NoArgs,
	RunE: runDevServer,
}

var devServerLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List running dev servers",
	Args:  cobra.NoArgs,
	RunE:  runDevServerLs,
}

func init() {
	defaults := devserver.DefaultConfig()
	f := devServerCmd.Flags()
	f.StringVar(&devHost, "host", defaults.Host, "host to bind")
	f.IntVarP(&devPort, "port", "p", defaults.Port, "port to listen on (0 picks a free port)")
	f.StringVar(&devToken, "token", "", "require this bearer token on API routes")
	f.IntVar(&devChunkSize, "chunk-size", defaults.ChunkSize, "bytes per reported chunk")
	f.BoolVarP(&devQuiet, "quiet", "q", false, "disable request logging")

	devServerLsCmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	devServerCmd.AddCommand(devServerLsCmd)
}

func runDevServer(cmd *cobra.Command, args []string) error {
	if devPort != 0 {
		if existing := config.FindDevServerByPort(devPort); existing != nil {
			return fmt.Errorf("a dev server is already running on port %d (pid %d)", devPort, existing.PID)
		}
	}

	dc := devserver.DefaultConfig()
	dc.Host = devHost
	dc.Port = devPort
	dc.Token = devToken
	dc.ChunkSize = devChunkSize
	dc.Quiet = devQuiet
	srv := devserver.New(dc)

	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	entry := config.DevServer{PID: os.Getpid(), Host: devHost, Port: srv.Port(), StartedAt: time.Now()}
	if err := config.RegisterDevServer(entry); err != nil {
		tuilog.Log.Warn("register dev server", "error", err)
	}
	defer func() {
		if err := config.UnregisterDevServer(entry.PID); err != nil {
			tuilog.Log.Warn("unregister dev server", "error", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Dev server listening on"), entry.URL())
	if devToken != "" {
		fmt.Fprintln(cmd.OutOrStdout(), color.HiBlackString("Bearer token required; set "+config.EnvAPIKey+" for the client."))
	}
	tuilog.Log.Info("dev server started", "addr", srv.Addr(), "auth", devToken != "")

	return run(func(ctx context.Context) error {
		return srv.Serve(ctx, ln)
	})
}

func runDevServerLs(cmd *cobra.Command, args []string) error {
	servers, err := config.ListDevServers()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if outputJSON {
		type row struct {
			config.DevServer
			URL string `json:"url"`
		}
		rows := make([]row, 0, len(servers))
		for _, s := range servers {
			rows = append(rows, row{DevServer: s, URL: s.URL()})
		}
		return writeJSON(out, rows)
	}
	if len(servers) == 0 {
		fmt.Fprintln(out, "No dev servers running.")
		return nil
	}
	for _, s := range servers {
		fmt.Fprintf(out, "%-28s pid %-7d up %s\n", s.URL(), s.PID, time.Since(s.StartedAt).Round(time.Second))
	}
	return nil
}
