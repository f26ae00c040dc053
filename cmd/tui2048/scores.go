package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresTUI   bool
	flagScoresClear bool
	flagScoresLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [size]",
	Short: "Show high scores for a board size",
	Long: `Display the top high scores for a board size (default from config).
The size may be written as "4" or "4x4".

Examples:
  tui2048 scores
  tui2048 scores 5
  tui2048 scores --tui
  tui2048 scores 3x3 --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores for the board size")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

// parseSize accepts "4" or "4x4".
func parseSize(s string) (int, error) {
	first, second, square := strings.Cut(strings.ToLower(s), "x")
	n, err := strconv.Atoi(first)
	if err != nil || n < 2 || (square && second != first) {
		return 0, fmt.Errorf("invalid board size %q", s)
	}
	return n, nil
}

func runScores(_ *cobra.Command, args []string) {
	size := appCfg.Game.Size
	if len(args) == 1 {
		n, err := parseSize(args[0])
		if err != nil {
			fail("%v", err)
		}
		size = n
	}
	gameID := t2048.GameID(size)

	store, err := storage.Open(appCfg.Storage.DBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(gameID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared scores for %dx%d\n", size, size)
		return
	}

	if flagScoresTUI {
		if err := tui.RunScoreboard(store, gameID, 80, 24); err != nil {
			fail("%v", err)
		}
		return
	}

	if err := printScores(store, gameID, size); err != nil {
		fail("%v", err)
	}
}

func printScores(store *storage.Store, gameID string, size int) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - 2048 %dx%d\n", size, size)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tui2048 play --size %d' to set the first high score!\n", size)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "Rank", "Score", "Tile", "Moves", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "----", "-----", "----", "-----", "----")
	for i, entry := range scores {
		tile := strconv.Itoa(entry.MaxTile)
		if entry.Won {
			tile += "*"
		}
		fmt.Printf("  %-4d  %-10d  %-8s  %-6d  %s\n", i+1, entry.Score, tile, entry.Moves, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Games: %d  Wins: %d  Average: %.0f\n", stats.HighScore, stats.GamesCount, stats.Wins, stats.AvgScore)
	return nil
}
