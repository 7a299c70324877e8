package vt

import (
	"fmt"
	"log"

	"github.com/kowhai-term/kowhai/internal/escparser"
	"github.com/kowhai-term/kowhai/internal/grid"
)

// Dispatch consumes one escparser.Action and mutates the terminal
// accordingly (spec.md §4.4). Grounded on the teacher's dispatchCSI/
// processESC/processNormal switch, restructured around the parser's
// already-decoded Action instead of re-deriving state bytes from a raw
// buffer.
func (t *Terminal) Dispatch(a escparser.Action) {
	switch a.Kind {
	case escparser.KindPrint:
		t.print(a.Rune)
	case escparser.KindExecute:
		t.execute(a.Byte)
	case escparser.KindCsiDispatch:
		t.dispatchCSI(a)
	case escparser.KindEscDispatch:
		t.dispatchESC(a)
	case escparser.KindOscDispatch:
		// Accepted and discarded per spec.md §4.4, except the window-title
		// supplement in oscTitle (spec.md §4.10).
		t.oscTitle(a.Osc)
	}
}

// print writes one rune at the cursor and advances it. Per spec.md §4.5,
// writing at x == cols is clamped to cols-1 and x never advances past cols
// (no auto-wrap in this spec, mode 7 accepted and ignored). When IRM is set,
// the cell is inserted rather than overwritten, pushing the row right and
// discarding its rightmost cell (spec.md §9 "Insert-mode print": this spec
// picks discard-rightmost, consistent with grid.Insert's defined semantics).
func (t *Terminal) print(r rune) {
	x := t.Cursor.X
	if x >= t.Grid.Cols() {
		x = t.Grid.Cols() - 1
	}
	cell := grid.Cell{Char: r, Attr: t.Attr}
	if t.Modes.IRM {
		t.Grid.Insert(t.Cursor.Y, x, cell)
	} else {
		t.Grid.Set(t.Cursor.Y, x, cell)
	}
	if t.Cursor.X < t.Grid.Cols() {
		t.Cursor.X++
	}
	t.Refresh = true
}

// execute handles a C0 control byte (spec.md §4.6 lists BEL/BS in the input
// table; LF/CR/HT/VT/FF are the baseline C0 set every printable session
// needs and are grounded on the teacher's processNormal switch).
func (t *Terminal) execute(b byte) {
	switch b {
	case 0x07: // BEL
		t.ring()
	case 0x08: // BS
		if t.Cursor.X > 0 {
			t.Cursor.X--
		}
	case 0x09: // HT
		t.Cursor.X = t.Grid.NextTabStop(t.Cursor.X)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.lineFeed()
	case 0x0D: // CR
		t.Cursor.X = 0
	default:
		return
	}
	t.Refresh = true
}

// lineFeed moves the cursor down one row, scrolling the region if the
// cursor sits on its bottom edge (grounded on the teacher's lineFeed).
func (t *Terminal) lineFeed() {
	if t.Cursor.Y == t.Region.Bottom {
		t.Grid.ScrollDown(t.Region.Top, t.Region.Bottom, t.Region.Bottom, t.blank())
		return
	}
	if t.Cursor.Y < t.Grid.Rows()-1 {
		t.Cursor.Y++
	}
}

// reverseLineFeed moves the cursor up one row, scrolling if it sits on the
// region's top edge (ESC M).
func (t *Terminal) reverseLineFeed() {
	if t.Cursor.Y == t.Region.Top {
		t.Grid.ScrollUp(t.Region.Top, t.Region.Bottom, t.Region.Top, t.blank())
		return
	}
	if t.Cursor.Y > 0 {
		t.Cursor.Y--
	}
}

func (t *Terminal) oscTitle(osc []byte) {
	s := string(osc)
	if len(s) >= 2 && (s[0] == '0' || s[0] == '2') && s[1] == ';' {
		t.Title = s[2:]
	}
}

func (t *Terminal) dispatchCSI(a escparser.Action) {
	private := a.HasIntermediate('?')
	switch a.Byte {
	case 'A': // CUU
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.Y -= min(t.Cursor.Y, n)
	case 'B', 'e': // CUD
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.Y += n
	case 'C', 'a': // CUF
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.X += n
	case 'D': // CUB
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.X -= min(t.Cursor.X, n)
	case 'E': // CNL
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.Y += n
		t.Cursor.X = 0
	case 'F': // CPL
		n := max(int(a.Param(0, 1)), 1)
		t.Cursor.Y -= min(t.Cursor.Y, n)
		t.Cursor.X = 0
	case 'G', '`': // CHA
		t.Cursor.X = max(int(a.Param(0, 1)), 1) - 1
	case 'H', 'f': // CUP
		row := max(int(a.Param(0, 1)), 1)
		col := max(int(a.Param(1, 1)), 1)
		t.Cursor.Y = row - 1
		if t.Modes.OM {
			t.Cursor.Y += t.Region.Top
		}
		t.Cursor.X = col - 1
	case 'J': // ED
		t.eraseDisplay(int(a.Param(0, 0)))
	case 'K': // EL
		t.eraseLine(int(a.Param(0, 0)))
	case 'L': // IL
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n; i++ {
			t.Grid.ScrollUp(t.Region.Top, t.Region.Bottom, t.Cursor.Y, t.blank())
		}
	case 'M': // DL
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n; i++ {
			t.Grid.ScrollDown(t.Region.Top, t.Region.Bottom, t.Cursor.Y, t.blank())
		}
		t.Cursor.X = 0
	case 'P': // DCH
		n := max(int(a.Param(0, 1)), 1)
		t.Grid.Delete(t.Cursor.Y, t.Cursor.X, n, t.blank())
	case 'S': // SU
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n; i++ {
			t.Grid.ScrollUp(t.Region.Top, t.Region.Bottom, t.Region.Top, t.blank())
		}
	case 'T': // SD
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n; i++ {
			t.Grid.ScrollDown(t.Region.Top, t.Region.Bottom, t.Region.Bottom, t.blank())
		}
	case 'X': // ECH
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n && t.Cursor.X+i < t.Grid.Cols(); i++ {
			t.Grid.Set(t.Cursor.Y, t.Cursor.X+i, t.blank())
		}
	case 'Z': // CBT
		n := max(int(a.Param(0, 1)), 1)
		x := t.Cursor.X
		for i := 0; i < n; i++ {
			x = t.Grid.PrevTabStop(x)
		}
		if x < 0 {
			x = 0
		}
		t.Cursor.X = x
	case '@': // ICH
		n := max(int(a.Param(0, 1)), 1)
		for i := 0; i < n; i++ {
			t.Grid.Insert(t.Cursor.Y, t.Cursor.X, t.blank())
		}
	case 'd': // VPA
		t.Cursor.Y = max(int(a.Param(0, 1)), 1) - 1
	case 'g': // TBC
		switch a.Param(0, 0) {
		case 0:
			t.Grid.SetTabStop(t.Cursor.X, false)
		case 3:
			t.Grid.ClearAllTabStops()
		}
	case 'm': // SGR
		t.sgr(a.Params)
	case 'n': // DSR
		switch a.Param(0, 0) {
		case 5:
			t.reply([]byte("\x1b[0n"))
		case 6:
			y, x := t.Cursor.Y, t.Cursor.X
			if t.Modes.OM {
				y -= t.Region.Top
			}
			t.reply([]byte(fmt.Sprintf("\x1b[%d;%dR", y+1, x+1)))
		}
	case 'c': // DA
		switch a.Param(0, 0) {
		case 0:
			t.reply([]byte("\x1b[?6c"))
		case 14:
			t.reply([]byte("\x1b[>1;4000;33c"))
		}
	case 's': // SCP
		t.Cursor.SavedX, t.Cursor.SavedY = t.Cursor.X, t.Cursor.Y
	case 'u': // RCP
		t.Cursor.X, t.Cursor.Y = t.Cursor.SavedX, t.Cursor.SavedY
	case 'h':
		t.setModes(a.Params, private, true)
	case 'l':
		t.setModes(a.Params, private, false)
	case 'q': // DECSCUSR
		switch a.Param(0, 0) {
		case 2:
			t.CursorStyle = CursorBlock
		case 4:
			t.CursorStyle = CursorUnderline
		case 6:
			t.CursorStyle = CursorLine
		}
	case 'r': // DECSTBM
		t.Region.Top = int(a.Param(0, 1)) - 1
		t.Region.Bottom = int(a.Param(1, uint16(t.Grid.Rows()))) - 1
		t.Cursor.X, t.Cursor.Y = 0, 0
	default:
		log.Printf("vt: unhandled CSI final byte %q", a.Byte)
	}
	if t.Modes.OM {
		if t.Cursor.Y < t.Region.Top {
			t.Cursor.Y = t.Region.Top
		}
		if t.Cursor.Y > t.Region.Bottom {
			t.Cursor.Y = t.Region.Bottom
		}
	}
	// spec.md §8 property 4: cursor coordinates stay within the grid after
	// every CSI dispatch, even for commands (CUD, CUF, ...) whose table
	// entry only describes the unclamped arithmetic. (print is the exception
	// that may leave X == cols, per spec.md §4.5.)
	t.clampCursor()
	t.Refresh = true
}

func (t *Terminal) eraseDisplay(mode int) {
	rows, cols := t.Grid.Rows(), t.Grid.Cols()
	blank := t.blank()
	switch mode {
	case 0:
		t.Grid.FillRect(t.Cursor.Y, t.Cursor.X, t.Cursor.Y+1, cols, blank)
		t.Grid.FillRect(t.Cursor.Y+1, 0, rows, cols, blank)
	case 1:
		t.Grid.FillRect(0, 0, t.Cursor.Y, cols, blank)
		t.Grid.FillRect(t.Cursor.Y, 0, t.Cursor.Y+1, t.Cursor.X+1, blank)
	case 2, 3:
		t.Grid.FillRect(0, 0, rows, cols, blank)
	}
}

func (t *Terminal) eraseLine(mode int) {
	cols := t.Grid.Cols()
	blank := t.blank()
	switch mode {
	case 0:
		t.Grid.FillRect(t.Cursor.Y, t.Cursor.X, t.Cursor.Y+1, cols, blank)
	case 1:
		t.Grid.FillRect(t.Cursor.Y, 0, t.Cursor.Y+1, t.Cursor.X+1, blank)
	case 2:
		t.Grid.FillRect(t.Cursor.Y, 0, t.Cursor.Y+1, cols, blank)
	}
}

// setModes applies a CSI h/l mode list. Mode 4 (IRM) is a standard ANSI
// mode, set with plain "CSI 4 h" (no "?" private marker) — it is handled
// regardless of private, unlike the rest of the modes below, which are all
// DEC private modes and require the marker.
func (t *Terminal) setModes(params []uint16, private, on bool) {
	for _, code := range params {
		if code == 4 {
			t.Modes.IRM = on
			continue
		}
		if !private {
			continue
		}
		switch code {
		case 1:
			t.Modes.CKM = on
		case 5:
			t.Modes.SCNM = on
		case 6:
			t.Modes.OM = on
			t.Cursor.X, t.Cursor.Y = 0, 0
		case 7:
			// auto-wrap: accepted, no effect (spec.md §4.4).
		case 12:
			// cursor blink: accepted, no effect.
		case 25:
			t.Modes.TCEM = on
		case 1004:
			t.Modes.FOCUS = on
		case 1049:
			t.SetAltScreen(on)
		case 2004:
			t.Modes.PASTE = on
		}
	}
}

func (t *Terminal) dispatchESC(a escparser.Action) {
	switch a.Byte {
	case 'B':
		// ESC ( B selects ASCII: accepted, no effect.
	case 'M':
		t.reverseLineFeed()
	case 'D': // IND: plain y++, no scroll (spec.md §4.4 "ESC D index (y++)").
		t.Cursor.Y++
	case 'E': // NEL: y++, x = 0, no scroll (spec.md §4.4 "ESC E next-line").
		t.Cursor.Y++
		t.Cursor.X = 0
	case 'Z':
		t.reply([]byte("\x1b[?6c"))
	case 'H':
		t.Grid.SetTabStop(t.Cursor.X, true)
	case 'c':
		t.hardReset()
	case '8':
		if a.HasIntermediate('#') {
			t.decaln()
		}
	default:
		log.Printf("vt: unhandled ESC final byte %q", a.Byte)
	}
	t.clampCursor()
	t.Refresh = true
}

// hardReset implements ESC c (RIS): blank grid at default attribute,
// cursor home, default attribute, full dirty (spec.md §4.4).
func (t *Terminal) hardReset() {
	rows, cols := t.Grid.Rows(), t.Grid.Cols()
	t.Attr = grid.DefaultAttribute()
	t.Grid.FillRect(0, 0, rows, cols, grid.BlankCell(t.Attr))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			t.Grid.MarkDirty(y, x)
		}
	}
	t.Cursor = Cursor{}
	t.Region = ScrollRegion{Top: 0, Bottom: rows - 1}
	t.Modes = ModeFlags{TCEM: true}
	t.alt = nil
}

// decaln implements ESC #8 (DECALN): fill the entire grid with 'E'.
func (t *Terminal) decaln() {
	rows, cols := t.Grid.Rows(), t.Grid.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			t.Grid.Set(y, x, grid.Cell{Char: 'E', Attr: t.Attr})
		}
	}
}
