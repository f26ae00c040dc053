package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateWon      GameStateType = "won"
	StateGameOver GameStateType = "game_over"
)

// Snapshot captures the observable game state. It is a plain value, safe
// to hand to other goroutines.
type Snapshot struct {
	Size     int           `json:"size"`
	Cells    [][]int       `json:"cells"` // Top row first, 0 for empty
	Score    int           `json:"score"`
	MaxScore int           `json:"max_score"`
	MaxTile  int           `json:"max_tile"`
	Moves    int           `json:"moves"`
	State    GameStateType `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	b := g.board
	state := StatePlaying
	switch {
	case b.Won():
		state = StateWon
	case b.GameOver():
		state = StateGameOver
	}

	return Snapshot{
		Size:     b.Size(),
		Cells:    b.Cells(),
		Score:    b.Score(),
		MaxScore: b.MaxScore(),
		MaxTile:  b.MaxTile(),
		Moves:    g.moves,
		State:    state,
	}
}
