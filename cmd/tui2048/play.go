package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/platform/web"
	"github.com/vovakirdan/tui-2048/internal/replay"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagSize       int
	flagDifficulty string
	flagRecord     string
	flagAutoRecord bool
	flagWatch      string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game in this terminal.

Without --size a setup screen lets you pick the board size and difficulty.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  R                - Restart (after game over)
  Esc/B            - Back to setup (after game over)
  Ctrl+S           - Save a screenshot
  ?                - Toggle help
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - 5% of new tiles are 4s
  normal - 10% of new tiles are 4s
  hard   - 25% of new tiles are 4s

Examples:
  tui2048 play
  tui2048 play --size 5
  tui2048 play --difficulty hard --record ./game.jsonl.zst
  tui2048 play --watch :8080`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagSize, "size", 0, "Board size (skips the setup screen)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Record the game to this file")
	playCmd.Flags().BoolVar(&flagAutoRecord, "autorecord", false, "Record the game into storage.record_dir")
	playCmd.Flags().StringVar(&flagWatch, "watch", "", "Serve a spectator feed on this address (e.g. :8080)")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if err := play(cmd); err != nil {
		fail("%v", err)
	}
}

// play returns instead of exiting so the store and recording are closed.
func play(cmd *cobra.Command) error {
	gameCfg := appCfg.Game
	if flagSize > 0 {
		gameCfg.Size = flagSize
	}
	if err := config.ApplyPreset(&gameCfg, config.DifficultyPreset(flagDifficulty)); err != nil {
		return err
	}
	checked := appCfg
	checked.Game = gameCfg
	if err := checked.Validate(); err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	rt := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	var feed tui.Feed
	if flagWatch != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := web.NewHub(logger)
		go func() {
			if err := hub.Serve(ctx, flagWatch); err != nil {
				logger.Error("spectator feed stopped", "error", err)
			}
		}()

		id := hub.NewSession(currentUser())
		defer hub.EndSession(id)
		feed = func(snap t2048.Snapshot) { hub.Publish(id, snap) }
		logger.Info("spectate with", "url", fmt.Sprintf("ws://%s/ws?session=%s", flagWatch, id))
	}

	// Esc after a game over returns to setup, even when --size skipped it
	// the first time.
	needSetup := !cmd.Flags().Changed("size")
	for round := 0; ; round++ {
		if needSetup {
			chosen, ok, err := tui.RunSetup(gameCfg, rt, tui.BestLookup(store))
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			gameCfg = chosen
		}
		needSetup = true

		back, err := playGame(gameCfg, store, rt, feed, round == 0)
		if err != nil || !back {
			return err
		}
	}
}

// playGame runs one game until the player quits or goes back to setup. An
// explicit --record file only captures the first game; --autorecord starts a
// new file for every game.
func playGame(gameCfg config.GameConfig, store *storage.Store, rt core.RuntimeConfig, feed tui.Feed, first bool) (back bool, err error) {
	var opts []t2048.GameOption
	modelOpts := []tui.ModelOption{
		tui.WithScreenshotDir(config.ExpandHome("~/.tui2048/screenshots")),
	}

	var rec *replay.Writer
	switch {
	case first:
		rec, err = openRecording()
	case flagAutoRecord:
		rec, err = replay.NewRecording(config.ExpandHome(appCfg.Storage.RecordDir))
	}
	if err != nil {
		return false, err
	}
	if rec != nil {
		defer func() {
			if err := rec.Close(); err != nil {
				logger.Error("recording incomplete", "error", err)
			}
		}()
		opts = append(opts, t2048.WithRecorder(rec))
		modelOpts = append(modelOpts, tui.WithRecording(rec.Path()))
	}

	game := tui.NewGame(gameCfg, store, feed, opts...)
	back, err = tui.Run(game, store, rt, modelOpts...)
	if err != nil {
		return false, err
	}

	if rec != nil {
		fmt.Printf("Game recorded to %s\n", rec.Path())
	}
	return back, nil
}

// openRecording starts the recording requested by --record or --autorecord.
func openRecording() (*replay.Writer, error) {
	switch {
	case flagRecord != "":
		return replay.Create(config.ExpandHome(flagRecord))
	case flagAutoRecord:
		return replay.NewRecording(config.ExpandHome(appCfg.Storage.RecordDir))
	}
	return nil, nil
}

func currentUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
