package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
)

// Board sizes offered by the setup screen.
var setupSizes = []int{3, 4, 5, 6, 8}

var setupDifficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

const (
	rowSize = iota
	rowDifficulty
	rowStart
	setupRows
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// SetupModel lets the player choose board size and difficulty before a game.
type SetupModel struct {
	base      config.GameConfig
	cursor    int
	sizeIdx   int
	diffIdx   int
	best      func(size int) int // High score lookup, may be nil
	width     int
	height    int
	keyMapper *KeyMapper
	choosing  bool
	quitting  bool
}

// NewSetupModel creates the setup screen starting from base.
func NewSetupModel(base config.GameConfig, width, height int, best func(size int) int) SetupModel {
	m := SetupModel{
		base:      base,
		cursor:    rowStart,
		diffIdx:   1,
		best:      best,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
	for i, size := range setupSizes {
		if size == base.Size {
			m.sizeIdx = i
		}
	}
	return m
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = (m.cursor + setupRows - 1) % setupRows
	case MenuActionDown:
		m.cursor = (m.cursor + 1) % setupRows
	case MenuActionLeft:
		m.cycle(-1)
	case MenuActionRight:
		m.cycle(1)
	case MenuActionSelect:
		if m.cursor == rowStart {
			m.choosing = false
			return m, tea.Quit
		}
		m.cycle(1)
	}
	return m, nil
}

func (m *SetupModel) cycle(delta int) {
	switch m.cursor {
	case rowSize:
		m.sizeIdx = (m.sizeIdx + delta + len(setupSizes)) % len(setupSizes)
	case rowDifficulty:
		m.diffIdx = (m.diffIdx + delta + len(setupDifficulties)) % len(setupDifficulties)
	}
}

// View renders the setup screen.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("2 0 4 8"), m.width))
	b.WriteString("\n\n")

	size := setupSizes[m.sizeIdx]
	rows := []string{
		fmt.Sprintf("Board:      < %dx%d >", size, size),
		fmt.Sprintf("Difficulty: < %s >", setupDifficulties[m.diffIdx]),
		"Start game",
	}
	for i, row := range rows {
		if i == m.cursor {
			row = selectedStyle.Render("> " + row + " ")
		} else {
			row = "  " + row + " "
		}
		b.WriteString(centerText(row, m.width))
		b.WriteString("\n")
	}

	if m.best != nil {
		b.WriteString("\n")
		b.WriteString(centerText(fmt.Sprintf("Best on %dx%d: %d", size, size, m.best(size)), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("↑↓: Move  |  ←→: Change  |  Enter: Select  |  Q: Quit"), m.width))

	return b.String()
}

// Selected returns the chosen game configuration, or false while still
// choosing or after the player quit.
func (m SetupModel) Selected() (config.GameConfig, bool) {
	if m.choosing || m.quitting {
		return config.GameConfig{}, false
	}
	cfg := m.base
	cfg.Size = setupSizes[m.sizeIdx]
	if cfg.StartTiles > cfg.Size*cfg.Size {
		cfg.StartTiles = cfg.Size * cfg.Size
	}
	//nolint:errcheck // Presets offered here are always known
	config.ApplyPreset(&cfg, setupDifficulties[m.diffIdx])
	return cfg, true
}

// IsQuitting returns true if the user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// RunSetup runs the setup screen on its own and returns the chosen config.
// ok is false if the player quit.
func RunSetup(base config.GameConfig, screen core.RuntimeConfig, best func(size int) int) (cfg config.GameConfig, ok bool, err error) {
	model := NewSetupModel(base, screen.ScreenW, screen.ScreenH, best)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return config.GameConfig{}, false, err
	}

	m, isSetup := finalModel.(SetupModel)
	if !isSetup {
		return config.GameConfig{}, false, nil
	}
	cfg, ok = m.Selected()
	return cfg, ok, nil
}
