// Package grid implements the primary/alternate cell buffers, the dirty
// map, and tab stops of spec.md §3/§4.3 — the two-dimensional model the
// dispatcher mutates but never parses escape sequences itself.
package grid

// Color is a 24-bit RGB triple. Equality is componentwise, matching
// spec.md §3's requirement exactly (no alpha, no palette index retained).
//
// Grounded on phroun-purfecterm's Color type, trimmed to the plain RGB
// triple spec.md §3 calls for (this spec's palette resolution happens once,
// in the dispatcher's SGR handling, not by carrying a ColorType tag through
// every Cell).
type Color struct {
	R, G, B uint8
}

// Pack encodes the color as a 32-bit value (0x00RRGGBB) suitable for a
// window-system fill call (spec.md §3 "Encodes to a 32-bit packed value").
func (c Color) Pack() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Attribute is a foreground/background color pair. FGIsDefault/BGIsDefault
// mean "use the terminal's configured default color" (DefaultAttribute sets
// both; the zero value sets neither and paints black on black) — Resolve
// below is how a renderer turns that into concrete RGB.
type Attribute struct {
	FG, BG      Color
	FGIsDefault bool
	BGIsDefault bool
	// Reverse is SGR 7/27 (per-character reverse video), independent of the
	// screen-wide SCNM mode a renderer may also apply.
	Reverse bool
}

// DefaultAttribute returns an Attribute requesting the configured defaults
// for both foreground and background.
func DefaultAttribute() Attribute {
	return Attribute{FGIsDefault: true, BGIsDefault: true}
}

// Resolve returns the concrete (fg, bg) colors this attribute paints with,
// given the terminal's configured default foreground/background and
// whether screen-wide reverse video (SCNM) is in effect. The per-character
// SGR 7/27 reverse (a.Reverse) and the screen-wide one compose by XOR, so a
// reversed cell on a reversed screen reads normally again.
func (a Attribute) Resolve(defaultFG, defaultBG Color, screenReverse bool) (fg, bg Color) {
	fg = a.FG
	if a.FGIsDefault {
		fg = defaultFG
	}
	bg = a.BG
	if a.BGIsDefault {
		bg = defaultBG
	}
	if a.Reverse != screenReverse {
		fg, bg = bg, fg
	}
	return fg, bg
}
