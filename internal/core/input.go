package core

// Action is a semantic game action, decoupled from the keys that trigger it.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, K, Up arrow
	ActionDown           // S, J, Down arrow
	ActionLeft           // A, H, Left arrow
	ActionRight          // D, L, Right arrow
	ActionRestart        // R
	ActionQuit           // Q, Ctrl+C
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions triggered by one key event.
// The zero value is an empty frame.
type InputFrame struct {
	bits uint32
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set marks a as triggered. ActionNone is ignored.
func (f *InputFrame) Set(a Action) {
	if a <= ActionNone || int(a) >= len(actionNames) {
		return
	}
	f.bits |= 1 << a
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return a > ActionNone && f.bits&(1<<a) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool {
	return f.bits == 0
}

// Clear removes every action.
func (f *InputFrame) Clear() {
	f.bits = 0
}
