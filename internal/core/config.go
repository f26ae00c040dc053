package core

// RuntimeConfig contains configuration passed to the game at (re)start.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for deterministic tile placement; 0 picks one from the clock
}

// GameState is what a front end needs to know after each step.
type GameState struct {
	Score    int
	Best     int
	GameOver bool
	Won      bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State   GameState
	Changed bool // Whether the board changed this step
}
