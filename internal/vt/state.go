// Package vt holds the cursor, mode flags, scrolling region, selection, and
// the escparser.Action dispatcher that drives the grid (spec.md §4.4/§4.5).
// Grounded on the teacher's internal/terminal package, generalized so the
// parser and the grid stay decoupled from dispatch (spec.md §9) instead of
// being welded into one Screen struct the way the teacher does it.
package vt

import "github.com/kowhai-term/kowhai/internal/grid"

// Cursor is the primary cursor position plus the single save slot used by
// SCP/RCP (CSI s / CSI u) (spec.md §3). ESC 7 and ESC 8 are not handled.
type Cursor struct {
	X, Y   int
	SavedX int
	SavedY int
}

// ModeFlags holds the boolean modes spec.md §3 tracks: the ANSI insert mode
// (IRM) and the DEC private modes.
type ModeFlags struct {
	IRM   bool
	OM    bool
	SCNM  bool
	CKM   bool
	TCEM  bool
	ALT   bool
	PASTE bool
	FOCUS bool
}

// ScrollRegion is an inclusive, 0-based row range.
type ScrollRegion struct {
	Top    int
	Bottom int
}

// CursorStyle names the shapes DECSCUSR can select.
type CursorStyle int

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorLine
)

// Terminal is the full mutable VT state a Dispatcher operates on: the grid,
// cursor, modes, scrolling region, current drawing attribute, and the
// collaborators (reply sink, bell) the dispatch table calls out to.
type Terminal struct {
	Grid   *grid.Grid
	Cursor Cursor
	Modes  ModeFlags
	Region ScrollRegion
	Attr   grid.Attribute

	DefaultFG grid.Color
	DefaultBG grid.Color
	// Palette holds the 8 configured ANSI colors (spec.md §6.5); codes
	// 8..15 (bright) reuse 0..7 per spec.md §4.4's SGR rule.
	Palette [8]grid.Color

	CursorStyle CursorStyle
	Selection   Selection

	Refresh bool

	// Reply, when non-nil, receives bytes the dispatcher writes back to the
	// PTY in response to DSR, DA and ESC Z.
	Reply func(p []byte)
	// Bell is invoked for C0 0x07; nil is a valid no-op.
	Bell func()
	// Title is set by OSC 0/2 (spec.md §4.10 supplement — accepted in the
	// core's §4.4 table as "OSC accepted and discarded", but window-title
	// plumbing is a fair supplement since the teacher's own OSC handler
	// does exactly this).
	Title string

	alt *altSnapshot
}

// NewTerminal builds a Terminal of the given size with modes and attribute
// at their power-on defaults: TCEM on, scrolling region the whole screen,
// default attribute, tab stops at every 8th column (via grid.New).
func NewTerminal(rows, cols int, defaultFG, defaultBG grid.Color, palette [8]grid.Color) *Terminal {
	t := &Terminal{
		Grid:      grid.New(rows, cols),
		Modes:     ModeFlags{TCEM: true},
		Region:    ScrollRegion{Top: 0, Bottom: rows - 1},
		Attr:      grid.DefaultAttribute(),
		DefaultFG: defaultFG,
		DefaultBG: defaultBG,
		Palette:   palette,
	}
	return t
}

// Resize replaces the grid dimensions and clamps the cursor and scrolling
// region to fit (spec.md §3 invariant: cursor coordinates always within the
// current grid dimensions).
func (t *Terminal) Resize(rows, cols int) {
	t.Grid.Resize(rows, cols)
	if t.Region.Bottom >= rows || t.Region.Bottom == 0 {
		t.Region.Bottom = rows - 1
	}
	if t.Region.Top > t.Region.Bottom {
		t.Region.Top = 0
	}
	t.clampCursor()
}

func (t *Terminal) clampCursor() {
	if t.Cursor.Y < 0 {
		t.Cursor.Y = 0
	}
	if t.Cursor.Y >= t.Grid.Rows() {
		t.Cursor.Y = t.Grid.Rows() - 1
	}
	if t.Cursor.X < 0 {
		t.Cursor.X = 0
	}
	if t.Cursor.X >= t.Grid.Cols() {
		t.Cursor.X = t.Grid.Cols() - 1
	}
}

func (t *Terminal) reply(p []byte) {
	if t.Reply != nil {
		t.Reply(p)
	}
}

func (t *Terminal) ring() {
	if t.Bell != nil {
		t.Bell()
	}
}

func (t *Terminal) blank() grid.Cell {
	return grid.BlankCell(t.Attr)
}
