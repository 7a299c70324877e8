// Package input translates window-system key and mouse events into the byte
// strings the PTY expects (spec.md §4.6). Grounded on the teacher's
// internal/app/keybytes.go, generalized from bubbletea's tea.KeyMsg to a
// window-system-agnostic KeyEvent so the same translator serves any
// concrete WindowSystem collaborator (spec.md §6.2).
package input

// Key identifies a key independent of any particular window toolkit's
// keysym numbering.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // printable text, carried in KeyEvent.Runes
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// Modifier is a bitmask matching the X11 convention spec.md §4.6 references
// directly (Shift=1, Lock=2, Control=4) so "Ctrl+Shift" reads as 5.
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModLock
	ModControl
)

// KeyEvent is one key-press, with both the resolved Key and (for KeyRune)
// the string the window system's compose/lookup produced.
type KeyEvent struct {
	Key   Key
	Runes string
	Mods  Modifier
	// Sym is the physical key's base ASCII letter (lowercase), independent
	// of modifier composition — the window system's keycode_to_keysym
	// before lookup_string applies Shift/Ctrl. Only meaningful for letter
	// keys; used to recognize the Ctrl+Shift+C/V clipboard chords (spec.md
	// §4.6), since Runes for those chords is typically empty or a control
	// character, not 'c'/'v'.
	Sym byte
}

// MouseButton identifies the physical button or wheel direction of a
// ButtonPress event (spec.md §6.2 "buttons 1/4/5").
type MouseButton int

const (
	MouseLeft MouseButton = 1
	MouseWheelUp MouseButton = 4
	MouseWheelDown MouseButton = 5
)
