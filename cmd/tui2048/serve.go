package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeWatch  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the 2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game, starting at the setup screen.
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.tui2048/host_key

With --watch every session is also published to a spectator feed:
  GET /sessions             - running games as JSON
  GET /ws?session=<id>      - live board snapshots over a WebSocket

Examples:
  tui2048 serve                           # Listen on :23234 with auto-generated key
  tui2048 serve --ssh :2222               # Listen on port 2222
  tui2048 serve --host-key ./my_host_key  # Use specific host key
  tui2048 serve --watch :8080             # Also serve the spectator feed

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config, 30m)")
	serveCmd.Flags().StringVar(&flagServeWatch, "watch", "", "Serve a spectator feed on this address (e.g. :8080)")
}

func runServe(_ *cobra.Command, _ []string) {
	srvCfg := appCfg.Server
	if flagSSHAddr != "" {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}
	if flagServeWatch != "" {
		srvCfg.WatchAddr = flagServeWatch
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var hub *web.Hub
	if srvCfg.WatchAddr != "" {
		hub = web.NewHub(logger)
		go func() {
			if err := hub.Serve(ctx, srvCfg.WatchAddr); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     srvCfg.SSHAddr,
		HostKeyPath: srvCfg.HostKeyPath,
		IdleTimeout: srvCfg.IdleTimeout,
		Game:        appCfg.Game,
	}, store, hub, logger)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Starting 2048 SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
}
