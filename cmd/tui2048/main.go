// tui2048 is the 2048 sliding-tile puzzle for the terminal.
//
// Usage:
//
//	tui2048 play             - Play in this terminal
//	tui2048 serve            - Start SSH server for remote play
//	tui2048 scores [size]    - Show high scores for a board size
//	tui2048 replay <file>    - Print a recorded game move by move
//	tui2048 tilt             - Tilt a scripted board and print each step
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.tui2048, ./configs, built-in)
//	--seed <value>      - Set RNG seed for reproducible games
//	--db <path>         - Set database path (default: ~/.tui2048/scores.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Set by the root command before any subcommand runs.
	appCfg config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tui2048",
	Short: "2048 in your terminal",
	Long: `tui2048 is the 2048 sliding-tile puzzle for the terminal.

Slide the tiles with the arrow keys; equal tiles merge and add their
value to your score. Reach 2048 to win, run out of moves to lose.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  scores   - View high scores
  replay   - Print a recorded game
  tilt     - Tilt a scripted board (for debugging the rules)

Examples:
  tui2048 play
  tui2048 play --size 5 --difficulty hard
  tui2048 serve --ssh :2222 --watch :8080
  tui2048 scores 4 --tui
  tui2048 tilt --tiles "2@0,0 2@1,0" --moves L`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(tiltCmd)
}

// setup loads the config and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}

	appCfg = cfg
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tui2048",
		Level:           level,
	})
	return nil
}

// openStore opens the scores database. Games still work without it, so
// failures are only logged.
func openStore() *storage.Store {
	store, err := storage.Open(appCfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", appCfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
