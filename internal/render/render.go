package render

import (
	"log"

	"github.com/kowhai-term/kowhai/internal/grid"
	"github.com/kowhai-term/kowhai/internal/vt"
)

// Renderer drives the spec.md §4.7 dirty-cell repaint algorithm against a
// WindowSystem collaborator. It owns no grid/cursor state of its own —
// everything it paints is read fresh from the *vt.Terminal each frame.
type Renderer struct {
	ws   WindowSystem
	font Font

	cellWidth  int
	cellHeight int

	colorCache map[grid.Color]Color
}

// NewRenderer opens the window, loads fontSpec, selects every input event
// class and maps the window, painting cells of cellWidth×cellHeight pixels.
// It does not size the back buffer; Resize does that.
func NewRenderer(ws WindowSystem, fontSpec string, cellWidth, cellHeight int) (*Renderer, error) {
	if err := ws.Open(); err != nil {
		return nil, err
	}
	font, err := ws.LoadFont(fontSpec)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		ws:         ws,
		font:       font,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		colorCache: make(map[grid.Color]Color),
	}
	ws.SelectInput(true, true, true, true, true, true)
	ws.MapWindow()
	return r, nil
}

// color resolves a grid.Color to a window-system color handle, allocating
// (and caching) it on first use. Allocation failure is spec.md §7's
// "Allocation from window system" category: the failure is logged once per
// color and a nil handle is cached and returned for it, never fatal.
func (r *Renderer) color(c grid.Color) Color {
	if h, ok := r.colorCache[c]; ok {
		return h
	}
	h, err := r.ws.XftColorAllocValue(c)
	if err != nil {
		log.Printf("render: color allocation failed for %v: %v", c, err)
		r.colorCache[c] = nil
		return nil
	}
	r.colorCache[c] = h
	return h
}

// Paint runs one frame of spec.md §4.7 against term, then swaps buffers and
// clears term.Refresh. focused controls whether an unfocused Block cursor
// is drawn outline-only.
func (r *Renderer) Paint(term *vt.Terminal, focused bool) {
	g := term.Grid
	rows, cols := g.Rows(), g.Cols()

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			inSelection := term.Selection.Contains(x, y)
			if inSelection {
				// Selected cells are repainted every pass (spec.md §4.7).
				g.MarkDirty(y, x)
			}
			if !g.Dirty(y, x) {
				continue
			}
			cell := g.At(y, x)
			fg, bg := cell.Attr.Resolve(term.DefaultFG, term.DefaultBG, term.Modes.SCNM)
			if inSelection {
				fg, bg = bg, fg
			}
			px, py := x*r.cellWidth, y*r.cellHeight
			r.ws.DrawRect(px, py, r.cellWidth, r.cellHeight, r.color(bg))
			if cell.Char != ' ' {
				r.ws.XftDrawString(string(cell.Char), px, py, r.font, r.color(fg))
			}
		}
	}
	g.ClearDirty()
	// Selected cells stay dirty into the next frame, so a cell the selection
	// has just left is repainted once more without its highlight.
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if term.Selection.Contains(x, y) {
				g.MarkDirty(y, x)
			}
		}
	}

	if term.Modes.TCEM {
		r.drawCursor(term, focused)
	}

	w, h := cols*r.cellWidth, rows*r.cellHeight
	r.ws.SwapBuffers(w, h)
	term.Refresh = false
}

func (r *Renderer) drawCursor(term *vt.Terminal, focused bool) {
	px := term.Cursor.X * r.cellWidth
	py := term.Cursor.Y * r.cellHeight
	fg, _ := term.Attr.Resolve(term.DefaultFG, term.DefaultBG, term.Modes.SCNM)
	color := r.color(fg)

	switch term.CursorStyle {
	case vt.CursorUnderline:
		r.ws.DrawRect(px, py+r.cellHeight-2, r.cellWidth, 2, color)
	case vt.CursorLine:
		r.ws.DrawRect(px, py, 2, r.cellHeight, color)
	default: // vt.CursorBlock
		if focused {
			r.ws.DrawRect(px, py, r.cellWidth, r.cellHeight, color)
		} else {
			r.ws.OutlineRect(px, py, r.cellWidth, r.cellHeight, color)
		}
	}
}

// Resize tells the window system to reallocate its back buffer for a new
// rows×cols grid and marks nothing else — the caller resizes the Terminal
// separately, which marks the whole grid dirty on its own.
func (r *Renderer) Resize(rows, cols int) {
	r.ws.ResizeBackBuffer(cols*r.cellWidth, rows*r.cellHeight)
}

// Close releases the window-system handles (spec.md §5 "resource
// discipline").
func (r *Renderer) Close() error {
	return r.ws.Close()
}
