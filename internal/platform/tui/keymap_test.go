package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-2048/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"w", runeKey('w'), core.ActionUp, false},
		{"j", runeKey('j'), core.ActionDown, false},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"l", runeKey('l'), core.ActionRight, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('x'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey() = (%v, %v), want (%v, %v)", action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToFrame(t *testing.T) {
	km := NewKeyMapper()

	frame := core.NewInputFrame()
	if km.MapKeyToFrame(tea.KeyMsg{Type: tea.KeyDown}, &frame) {
		t.Error("down should not quit")
	}
	if !frame.Has(core.ActionDown) {
		t.Error("frame should carry ActionDown")
	}

	frame = core.NewInputFrame()
	km.MapKeyToFrame(runeKey('x'), &frame)
	if !frame.Empty() {
		t.Errorf("unbound key set actions %+v", frame)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('s'), MenuActionDown},
		{runeKey('h'), MenuActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %d, want %d", tt.msg.String(), got, tt.want)
		}
	}
}
