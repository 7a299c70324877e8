package vt

import "github.com/kowhai-term/kowhai/internal/grid"

// sgr applies a CSI ... m sequence to the current drawing attribute
// (spec.md §4.4 SGR rules). Grounded on the teacher's handleSGR, rewritten
// around grid.Attribute's FGIsDefault/BGIsDefault pair instead of the
// teacher's sentinel-int palette encoding.
func (t *Terminal) sgr(params []uint16) {
	if len(params) == 0 {
		params = []uint16{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			t.Attr = grid.DefaultAttribute()
		case p == 1, p == 3, p == 22:
			// bold/italic/bold-off: accepted and ignored (no text-style field
			// in this spec's Attribute — spec.md §3 only defines fg/bg).
		case p == 7:
			t.Attr.Reverse = true
		case p == 27:
			t.Attr.Reverse = false
		case p == 30, p == 31, p == 32, p == 33, p == 34, p == 35, p == 36, p == 37:
			t.Attr.FG = t.Palette[p-30]
			t.Attr.FGIsDefault = false
		case p == 39:
			t.Attr.FGIsDefault = true
		case p == 40, p == 41, p == 42, p == 43, p == 44, p == 45, p == 46, p == 47:
			t.Attr.BG = t.Palette[p-40]
			t.Attr.BGIsDefault = false
		case p == 49:
			t.Attr.BGIsDefault = true
		case p == 90, p == 91, p == 92, p == 93, p == 94, p == 95, p == 96, p == 97:
			t.Attr.FG = t.Palette[p-90]
			t.Attr.FGIsDefault = false
		case p == 100, p == 101, p == 102, p == 103, p == 104, p == 105, p == 106, p == 107:
			t.Attr.BG = t.Palette[p-100]
			t.Attr.BGIsDefault = false
		case p == 38:
			i = t.sgrExtendedColor(params, i, true)
		case p == 48:
			i = t.sgrExtendedColor(params, i, false)
		}
	}
}

// sgrExtendedColor handles "38;2;r;g;b" / "48;2;r;g;b" direct color and
// "38;5;idx" / "48;5;idx" palette forms (the latter accepted and ignored
// per spec.md §4.4). Returns the advanced parameter index — on the direct
// color form this must land on i+4 so a trailing ";1" is parsed as the next
// SGR parameter (bold, a no-op) rather than color data (spec.md §8 S6).
func (t *Terminal) sgrExtendedColor(params []uint16, i int, fg bool) int {
	if i+1 >= len(params) {
		return i
	}
	switch params[i+1] {
	case 2:
		if i+4 < len(params) {
			c := grid.Color{R: uint8(params[i+2]), G: uint8(params[i+3]), B: uint8(params[i+4])}
			if fg {
				t.Attr.FG = c
				t.Attr.FGIsDefault = false
			} else {
				t.Attr.BG = c
				t.Attr.BGIsDefault = false
			}
			return i + 4
		}
	case 5:
		if i+2 < len(params) {
			return i + 2
		}
	}
	return i + 1
}
