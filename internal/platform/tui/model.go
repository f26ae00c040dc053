// Package tui provides the Bubble Tea front end for 2048, both for local
// play and for SSH sessions served through Wish.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// helpHeight is the number of rows reserved below the board for key help.
const helpHeight = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRecording stores the replay path alongside the saved score.
func WithRecording(path string) ModelOption {
	return func(m *Model) {
		m.recording = path
	}
}

// WithScreenshotDir sets where ctrl+s writes screenshots.
func WithScreenshotDir(dir string) ModelOption {
	return func(m *Model) {
		m.screenshotDir = dir
	}
}

// Model is the Bubble Tea model for one 2048 game.
type Model struct {
	game      *t2048.Game
	screen    *core.Screen
	store     *storage.Store
	config    core.RuntimeConfig
	keyMapper *KeyMapper
	help      help.Model

	recording     string
	screenshotDir string

	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether the result has been saved for the current game over
	saveErr    error
}

// NewModel creates a model around game and starts a fresh game.
func NewModel(game *t2048.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:      game,
		screen:    core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpHeight, 0)),
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	game.Reset(core.RuntimeConfig{ScreenW: m.screen.Width(), ScreenH: m.screen.Height(), Seed: cfg.Seed})
	return m
}

// Init implements tea.Model. The game is key driven, so there is no tick loop.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Back) && m.game.Board().GameOver():
		m.backToMenu = true
		return m, tea.Quit
	}

	frame := core.NewInputFrame()
	if m.keyMapper.MapKeyToFrame(msg, &frame) {
		m.quitting = true
		return m, tea.Quit
	}

	result := m.game.Step(frame)
	if frame.Has(core.ActionRestart) && result.Changed {
		m.scoreSaved = false
	}
	if result.State.GameOver {
		m.saveResult()
	}

	return m, nil
}

// handleResize keeps the game running; only the layout changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-helpHeight, 0))
	m.game.Resize(m.screen.Width(), m.screen.Height())
	m.help.Width = msg.Width
	return m, nil
}

// saveResult stores the finished game once.
func (m *Model) saveResult() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	snap := m.game.Snapshot()
	if m.store == nil || snap.Score == 0 {
		return
	}
	_, err := m.store.SaveResult(storage.Result{
		GameID:    m.game.ID(),
		Score:     snap.Score,
		MaxTile:   snap.MaxTile,
		Moves:     snap.Moves,
		Won:       snap.State == t2048.StateWon,
		Recording: m.recording,
	})
	if err != nil && m.saveErr == nil {
		m.saveErr = err
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}
	m.game.Render(m.screen)

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.screenshotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()+"\n"+m.game.Board().String()+"\n"), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
}

// IsQuitting returns true if the user asked to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user left a finished game for the menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// SaveErr returns the first error hit while saving a result.
func (m Model) SaveErr() error {
	return m.saveErr
}

// Run starts the Bubble Tea program for game and blocks until it exits.
// backToMenu reports whether the player left a finished game for the setup
// screen rather than quitting.
func Run(game *t2048.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) (backToMenu bool, err error) {
	model := NewModel(game, store, cfg, opts...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	if !ok {
		return false, nil
	}
	if m.SaveErr() != nil {
		return m.BackToMenu(), fmt.Errorf("tui: score not saved: %w", m.SaveErr())
	}
	return m.BackToMenu(), nil
}
