package render

import (
	"testing"

	"github.com/kowhai-term/kowhai/internal/grid"
	"github.com/kowhai-term/kowhai/internal/vt"
)

type drawCall struct {
	kind       string
	x, y, w, h int
}

type fakeWS struct {
	opened     bool
	font       Font
	draws      []drawCall
	swaps      int
	colorCalls int
}

func (f *fakeWS) Open() error                 { f.opened = true; return nil }
func (f *fakeWS) GetWindowAttributes() (int, int) { return 800, 600 }
func (f *fakeWS) SetWindowName(string)        {}
func (f *fakeWS) SelectInput(key, expose, focus, visibility, button, motion bool) {}
func (f *fakeWS) DefineCursor(int)            {}
func (f *fakeWS) MapWindow()                  {}
func (f *fakeWS) Flush()                      {}
func (f *fakeWS) PollEvent() []Event          { return nil }
func (f *fakeWS) LookupString(KeyCode) string { return "" }
func (f *fakeWS) KeycodeToKeysym(KeyCode) uint32 { return 0 }
func (f *fakeWS) LoadFont(spec string) (Font, error) {
	f.font = spec
	return f.font, nil
}
func (f *fakeWS) ResizeBackBuffer(w, h int) {}
func (f *fakeWS) DrawRect(x, y, w, h int, c Color) {
	f.draws = append(f.draws, drawCall{"rect", x, y, w, h})
}
func (f *fakeWS) OutlineRect(x, y, w, h int, c Color) {
	f.draws = append(f.draws, drawCall{"outline", x, y, w, h})
}
func (f *fakeWS) XftDrawString(text string, x, y int, font Font, c Color) {
	f.draws = append(f.draws, drawCall{"glyph:" + text, x, y, 0, 0})
}
func (f *fakeWS) XftColorAllocValue(c grid.Color) (Color, error) {
	f.colorCalls++
	return c, nil
}
func (f *fakeWS) SwapBuffers(w, h int) { f.swaps++ }
func (f *fakeWS) Close() error         { return nil }

func newTestRenderer(t *testing.T) (*Renderer, *fakeWS) {
	t.Helper()
	ws := &fakeWS{}
	r, err := NewRenderer(ws, "Test Font:style=Regular", 8, 16)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r, ws
}

func newTestTerminal() *vt.Terminal {
	var palette [8]grid.Color
	return vt.NewTerminal(3, 5, grid.Color{R: 0xd7, G: 0xe0, B: 0xda}, grid.Color{R: 0x0d, G: 0x16, B: 0x17}, palette)
}

func TestPaintOnlyDrawsDirtyCells(t *testing.T) {
	r, ws := newTestRenderer(t)
	term := newTestTerminal()

	term.Grid.Set(0, 0, grid.Cell{Char: 'A', Attr: term.Attr})
	r.Paint(term, true)

	glyphCount := 0
	for _, d := range ws.draws {
		if d.kind == "glyph:A" {
			glyphCount++
		}
	}
	if glyphCount != 1 {
		t.Fatalf("expected exactly one glyph draw for the dirty cell, got %d", glyphCount)
	}
	if ws.swaps != 1 {
		t.Fatalf("expected one SwapBuffers call, got %d", ws.swaps)
	}
	if term.Refresh {
		t.Fatalf("Paint should clear Refresh")
	}
}

func TestPaintRepaintsNothingOnIdleFrame(t *testing.T) {
	r, ws := newTestRenderer(t)
	term := newTestTerminal()
	term.Grid.Set(0, 0, grid.Cell{Char: 'A', Attr: term.Attr})
	r.Paint(term, true)

	// No cell is repainted; the only draw is the Block cursor at the origin,
	// which Paint draws on every pass while TCEM is on.
	ws.draws = nil
	r.Paint(term, true)
	cursor := drawCall{"rect", 0, 0, r.cellWidth, r.cellHeight}
	if len(ws.draws) != 1 || ws.draws[0] != cursor {
		t.Fatalf("expected only the cursor draw on an idle frame, got %v", ws.draws)
	}
}

func TestPaintMarksSelectionDirtyEveryPass(t *testing.T) {
	r, ws := newTestRenderer(t)
	term := newTestTerminal()
	term.Grid.Set(0, 1, grid.Cell{Char: 'B', Attr: term.Attr})
	r.Paint(term, true)

	term.Selection.Begin(1, 0)
	term.Selection.Extend(2, 0)
	term.Selection.Finish()

	ws.draws = nil
	r.Paint(term, true)
	found := false
	for _, d := range ws.draws {
		if d.kind == "glyph:B" {
			found = true
		}
	}
	if !found {
		t.Fatalf("selected cell should repaint even though its content is unchanged")
	}

	// Selection moves off the cell: next frame it should repaint once more
	// (to clear the highlight) then go idle.
	term.Selection.Clear()
	ws.draws = nil
	r.Paint(term, true)
	found = false
	for _, d := range ws.draws {
		if d.kind == "glyph:B" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected one more repaint of the cell after the selection left it, got %v", ws.draws)
	}
	// Once settled, only the cursor (drawn every pass while TCEM is on) is
	// drawn.
	ws.draws = nil
	r.Paint(term, true)
	cursor := drawCall{"rect", 0, 0, r.cellWidth, r.cellHeight}
	if len(ws.draws) != 1 || ws.draws[0] != cursor {
		t.Fatalf("expected the grid to go idle once the selection-vacated repaint settles, got %v", ws.draws)
	}
}

func TestDrawCursorOutlineWhenUnfocusedBlock(t *testing.T) {
	r, ws := newTestRenderer(t)
	term := newTestTerminal()

	ws.draws = nil
	r.Paint(term, false)
	sawOutline := false
	for _, d := range ws.draws {
		if d.kind == "outline" {
			sawOutline = true
		}
	}
	if !sawOutline {
		t.Fatalf("expected an outline-only cursor when unfocused, got %v", ws.draws)
	}
}

func TestCursorHiddenWhenTCEMOff(t *testing.T) {
	r, ws := newTestRenderer(t)
	term := newTestTerminal()
	term.Modes.TCEM = false

	ws.draws = nil
	r.Paint(term, true)

	cellRects := 0
	for _, d := range ws.draws {
		if d.kind == "rect" && d.x == 0 && d.y == 0 && d.w == r.cellWidth && d.h == r.cellHeight {
			cellRects++
		}
	}
	// Only the (0,0) background fill, no separate Block-cursor rect on top
	// of it.
	if cellRects != 1 {
		t.Fatalf("expected exactly one full-cell rect at the origin with TCEM off, got %d", cellRects)
	}
}
