package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	flagTiltSize  int
	flagTiltTiles string
	flagTiltMoves string
)

var tiltCmd = &cobra.Command{
	Use:   "tilt",
	Short: "Tilt a scripted board and print each step",
	Long: `Build a board from --tiles, apply the moves in --moves and print the
board after each one. Useful for checking the merge rules by hand.

Tiles are value@col,row with (0,0) at the lower-left corner, separated by
spaces or semicolons. Moves are letters U, D, L and R.

Examples:
  tui2048 tilt --tiles "2@0,0 2@1,0" --moves L
  tui2048 tilt --size 3 --tiles "2@0,0;2@0,1;4@0,2" --moves UU`,
	Args: cobra.NoArgs,
	Run:  runTilt,
}

func init() {
	tiltCmd.Flags().IntVar(&flagTiltSize, "size", 4, "Board size")
	tiltCmd.Flags().StringVar(&flagTiltTiles, "tiles", "", "Starting tiles, e.g. \"2@0,0 4@1,0\"")
	tiltCmd.Flags().StringVar(&flagTiltMoves, "moves", "", "Moves to apply, e.g. LLUD")
}

func runTilt(_ *cobra.Command, _ []string) {
	if flagTiltSize < 1 {
		fail("invalid board size %d", flagTiltSize)
	}
	board := t2048.NewBoard(flagTiltSize)

	fields := strings.FieldsFunc(flagTiltTiles, func(r rune) bool {
		return r == ' ' || r == ';'
	})
	for _, field := range fields {
		tile, err := t2048.ParseTile(field)
		if err != nil {
			fail("%v", err)
		}
		if tile.Col() < 0 || tile.Col() >= flagTiltSize || tile.Row() < 0 || tile.Row() >= flagTiltSize {
			fail("tile %v is off the board", tile)
		}
		if prev := board.Tile(tile.Col(), tile.Row()); prev != nil {
			fail("tile %v overlaps %v", tile, prev)
		}
		board.AddTile(tile)
	}

	moves, err := t2048.ParseMoves(flagTiltMoves)
	if err != nil {
		fail("%v", err)
	}

	fmt.Println(board)
	for _, side := range moves {
		changed := board.Tilt(side)
		fmt.Printf("%c changed=%v game_over=%v\n%v\n", side.Letter(), changed, board.GameOver(), board)
	}
}
