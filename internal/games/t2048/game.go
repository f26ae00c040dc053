// Package t2048 implements the 2048 sliding-tile puzzle: an N×N board whose
// tiles slide toward one edge on each move, merging equal neighbours.
package t2048

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// Recorder receives every event needed to replay a game.
type Recorder interface {
	RecordStart(size int, seed int64) error
	RecordSpawn(t *Tile) error
	RecordTilt(side Side, changed bool) error
}

// Game drives a Board: it places random tiles, maps input to tilts and
// renders the result.
type Game struct {
	cfg      config.GameConfig
	board    *Board
	rng      *rand.Rand
	runtime  core.RuntimeConfig
	recorder Recorder
	recErr   error
	moves    int

	boardOpts []Option // Only used by New

	// Screen dimensions
	screenW  int
	screenH  int
	tooSmall bool
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithRecorder reports spawns and tilts to r.
func WithRecorder(r Recorder) GameOption {
	return func(g *Game) {
		g.recorder = r
	}
}

// WithBest starts the game with a best score loaded from storage.
func WithBest(score int) GameOption {
	return func(g *Game) {
		g.boardOpts = append(g.boardOpts, WithMaxScore(score))
	}
}

// WithBoardObserver is called after every change to the board.
func WithBoardObserver(fn func()) GameOption {
	return func(g *Game) {
		g.boardOpts = append(g.boardOpts, WithObserver(fn))
	}
}

// New creates a game. Call Reset before the first Step.
func New(cfg config.GameConfig, opts ...GameOption) *Game {
	g := &Game{cfg: cfg}
	for _, opt := range opts {
		opt(g)
	}
	g.board = NewBoard(cfg.Size, g.boardOpts...)
	g.boardOpts = nil
	return g
}

// GameID returns the score-table identifier for a board size.
func GameID(size int) string {
	return fmt.Sprintf("2048-%dx%d", size, size)
}

// ID returns the score-table identifier, which includes the board size.
func (g *Game) ID() string {
	return GameID(g.cfg.Size)
}

// Title returns the display name.
func (g *Game) Title() string {
	return "2048"
}

// Board returns the underlying board. Callers must treat it as read-only.
func (g *Game) Board() *Board {
	return g.board
}

// Moves returns the number of tilts that changed the board this game.
func (g *Game) Moves() int {
	return g.moves
}

// RecordErr returns the first error reported by the recorder, if any.
func (g *Game) RecordErr() error {
	return g.recErr
}

// Reset clears the board and places the starting tiles.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.runtime = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.moves = 0
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	g.board.Clear()
	g.record(func(r Recorder) error { return r.RecordStart(g.cfg.Size, cfg.Seed) })

	for i := 0; i < g.cfg.StartTiles; i++ {
		g.spawnTile()
	}
}

// Resize updates the screen dimensions used by Render.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Step applies one frame of input.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionRestart) && g.board.GameOver() {
		cfg := g.runtime
		cfg.Seed = g.rng.Int63()
		g.Reset(cfg)
		return core.StepResult{State: g.State(), Changed: true}
	}

	if g.board.GameOver() {
		return core.StepResult{State: g.State()}
	}

	var side Side
	switch {
	case in.Has(core.ActionUp):
		side = Up
	case in.Has(core.ActionDown):
		side = Down
	case in.Has(core.ActionLeft):
		side = Left
	case in.Has(core.ActionRight):
		side = Right
	default:
		return core.StepResult{State: g.State()}
	}

	changed := g.Move(side)
	return core.StepResult{State: g.State(), Changed: changed}
}

// Move tilts the board toward side and, if anything changed, places a new
// random tile.
func (g *Game) Move(side Side) bool {
	changed := g.board.Tilt(side)
	g.record(func(r Recorder) error { return r.RecordTilt(side, changed) })
	if !changed {
		return false
	}

	g.moves++
	if !g.board.GameOver() {
		g.spawnTile()
	}
	return true
}

// spawnTile places a 2 (or a 4, with probability Spawn4) in a random empty cell.
func (g *Game) spawnTile() {
	empty := g.board.EmptyCells()
	if len(empty) == 0 {
		return
	}

	cell := empty[g.rng.Intn(len(empty))]
	value := 2
	if g.rng.Float64() < g.cfg.Spawn4 {
		value = 4
	}

	tile := NewTile(value, cell.Col, cell.Row)
	g.board.AddTile(tile)
	g.record(func(r Recorder) error { return r.RecordSpawn(tile) })
}

func (g *Game) record(fn func(Recorder) error) {
	if g.recorder == nil || g.recErr != nil {
		return
	}
	g.recErr = fn(g.recorder)
}

// checkScreenSize checks if the screen is large enough for the board.
func (g *Game) checkScreenSize() {
	w, h := boardDimensions(g.cfg.Size)
	g.tooSmall = g.screenW < w+2 || g.screenH < h+hudHeight+2
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.board.Score(),
		Best:     g.board.MaxScore(),
		GameOver: g.board.GameOver(),
		Won:      g.board.Won(),
	}
}
