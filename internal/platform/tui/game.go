package tui

import (
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Feed receives a snapshot after every change to a board.
type Feed func(t2048.Snapshot)

// NewGame builds a game whose best score starts at the stored high score for
// its board size. If feed is not nil it is called on every board change.
func NewGame(cfg config.GameConfig, store *storage.Store, feed Feed, opts ...t2048.GameOption) *t2048.Game {
	if store != nil {
		if best, err := store.HighScore(t2048.GameID(cfg.Size)); err == nil {
			opts = append(opts, t2048.WithBest(best))
		}
	}

	var game *t2048.Game
	if feed != nil {
		opts = append(opts, t2048.WithBoardObserver(func() {
			feed(game.Snapshot())
		}))
	}
	game = t2048.New(cfg, opts...)
	return game
}

// BestLookup returns a high score lookup by board size for the setup screen.
func BestLookup(store *storage.Store) func(size int) int {
	if store == nil {
		return nil
	}
	return func(size int) int {
		best, err := store.HighScore(t2048.GameID(size))
		if err != nil {
			return 0
		}
		return best
	}
}
