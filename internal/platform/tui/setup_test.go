package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/config"
)

func press(t *testing.T, m SetupModel, msgs ...tea.KeyMsg) SetupModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(SetupModel)
	}
	return m
}

func TestSetupStartWithDefaults(t *testing.T) {
	base := config.GameConfig{Size: 4, StartTiles: 2, Spawn4: 0.3}
	m := NewSetupModel(base, 80, 24, nil)

	if _, ok := m.Selected(); ok {
		t.Fatal("nothing should be selected before Enter")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	cfg, ok := m.Selected()
	if !ok {
		t.Fatal("Enter on Start should select")
	}
	if cfg.Size != 4 || cfg.StartTiles != 2 {
		t.Errorf("Selected() = %+v, want size 4 and 2 start tiles", cfg)
	}
	if cfg.Spawn4 != 0.10 {
		t.Errorf("Spawn4 = %g, want the normal preset 0.10", cfg.Spawn4)
	}
}

func TestSetupChangeSizeAndDifficulty(t *testing.T) {
	base := config.GameConfig{Size: 4, StartTiles: 2}
	m := NewSetupModel(base, 80, 24, nil)

	up := tea.KeyMsg{Type: tea.KeyUp}
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	// Cursor starts on Start; two ups reach the size row.
	m = press(t, m, up, up, right, tea.KeyMsg{Type: tea.KeyDown}, left, tea.KeyMsg{Type: tea.KeyDown}, enter)

	cfg, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if cfg.Size != 5 {
		t.Errorf("Size = %d, want 5", cfg.Size)
	}
	if cfg.Spawn4 != 0.05 {
		t.Errorf("Spawn4 = %g, want the easy preset 0.05", cfg.Spawn4)
	}
}

func TestSetupClampsStartTiles(t *testing.T) {
	base := config.GameConfig{Size: 4, StartTiles: 12}
	m := NewSetupModel(base, 80, 24, nil)

	// Size row steps left from 4x4 to 3x3.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft},
		tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})

	cfg, ok := m.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if cfg.Size != 3 || cfg.StartTiles != 9 {
		t.Errorf("Selected() = %+v, want size 3 with 9 start tiles", cfg)
	}
}

func TestSetupQuit(t *testing.T) {
	m := NewSetupModel(config.GameConfig{Size: 4}, 80, 24, nil)
	m = press(t, m, runeKey('q'))

	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if _, ok := m.Selected(); ok {
		t.Error("quitting should not select")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestSetupViewShowsBest(t *testing.T) {
	best := func(size int) int { return size * 100 }
	m := NewSetupModel(config.GameConfig{Size: 5}, 80, 24, best)

	view := m.View()
	if !strings.Contains(view, "5x5") {
		t.Errorf("View() should show the board size:\n%s", view)
	}
	if !strings.Contains(view, "Best on 5x5: 500") {
		t.Errorf("View() should show the best score:\n%s", view)
	}
}
