// Package render implements the dirty-cell repaint driver of spec.md §4.7
// behind a WindowSystem collaborator interface (spec.md §6.2), so the
// repaint algorithm itself never names a concrete toolkit.
//
// Grounded on javanhut-RavenTerminal's render/render.go, sharply trimmed:
// that file drives tabs, an AI side panel, a search overlay and five
// built-in UI themes on top of the terminal grid — none of which has a
// SPEC_FULL.md counterpart — down to the single-grid cell/cursor repaint
// loop this spec calls for.
package render

import "github.com/kowhai-term/kowhai/internal/grid"

// EventKind enumerates the window-system event variants spec.md §6.2 says
// the core consumes.
type EventKind int

const (
	EventKeyPress EventKind = iota
	EventButtonPress
	EventButtonRelease
	EventMotionNotify
	EventExpose
	EventVisibilityNotify
	EventFocusIn
	EventFocusOut
)

// Event is one poll_event() result. Fields not relevant to Kind are zero.
type Event struct {
	Kind   EventKind
	X, Y   int // MotionNotify/ButtonPress/ButtonRelease: cell or pixel coords, collaborator-defined
	Button int // ButtonPress/ButtonRelease: 1 (left), 4 (wheel up), 5 (wheel down)
	Width  int // Expose
	Height int // Expose
	Key    KeyCode
	Mods   int // KeyPress: X11-convention modifier bitmap (Shift=1, Lock=2, Control=4)
}

// KeyCode is an opaque window-system keycode; the collaborator's
// KeycodeToKeysym/LookupString resolve it further.
type KeyCode uint32

// Font is an opaque handle returned by LoadFont.
type Font interface{}

// Color is an opaque handle returned by XftColorAllocValue.
type Color interface{}

// WindowSystem is the window/graphics collaborator of spec.md §6.2. A
// concrete implementation (internal/glxwindow) backs this with GLFW/GL and
// an Xft-like glyph drawer; tests back it with a recording fake.
type WindowSystem interface {
	Open() error
	GetWindowAttributes() (w, h int)
	SetWindowName(name string)
	SelectInput(key, expose, focus, visibility, button, pointerMotion bool)
	DefineCursor(shape int)
	MapWindow()
	Flush()
	PollEvent() []Event
	LookupString(key KeyCode) string
	KeycodeToKeysym(key KeyCode) uint32
	LoadFont(spec string) (Font, error)
	ResizeBackBuffer(w, h int)
	DrawRect(x, y, w, h int, color Color)
	OutlineRect(x, y, w, h int, color Color)
	XftDrawString(text string, x, y int, font Font, color Color)
	XftColorAllocValue(c grid.Color) (Color, error)
	SwapBuffers(w, h int)
	Close() error
}

// Clipboard is spec.md §6.3: fallible, failures are logged and ignored by
// the caller (internal/app), never propagated as a fatal error.
type Clipboard interface {
	GetText() (string, error)
	SetText(string) error
}
