package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/replay"
)

var flagReplayFinal bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a recorded game move by move",
	Long: `Replay a recording made with 'play --record' or 'play --autorecord'
and print the board after every move. The replay fails if the rules no
longer produce the recorded moves.

Examples:
  tui2048 replay ./game.jsonl.zst
  tui2048 replay ./game.jsonl.zst --final`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayFinal, "final", false, "Only print the final board")
}

func runReplay(_ *cobra.Command, args []string) {
	path := config.ExpandHome(args[0])
	events, err := replay.Read(path)
	if err != nil {
		fail("%v", err)
	}
	start, err := replay.Start(events)
	if err != nil {
		fail("%v", err)
	}
	logger.Debug("replaying", "file", path, "events", len(events), "id", start.ID)

	board := t2048.NewBoard(start.Size)
	moves, games := 0, 0
	err = replay.Apply(board, events, func(e replay.Event) {
		switch e.Type {
		case replay.EventStart:
			games++
			if !flagReplayFinal {
				fmt.Printf("game %d (%dx%d, seed %d)\n", games, e.Size, e.Size, e.Seed)
			}
		case replay.EventTilt:
			moves++
			if !flagReplayFinal {
				fmt.Printf("move %d: %s\n%v\n", moves, e.Side, board)
			}
		}
	})
	if err != nil {
		fail("%v", err)
	}

	if flagReplayFinal {
		fmt.Println(board)
	}
	fmt.Printf("%d moves, score %d, max tile %d, game over: %v\n", moves, board.Score(), board.MaxTile(), board.GameOver())
}
