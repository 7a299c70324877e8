package vt

import "github.com/kowhai-term/kowhai/internal/grid"

// altSnapshot is the saved primary-screen state while the alternate screen
// is active (spec.md §3 "a snapshot (grid, attribute, modes, cursor) swapped
// in on mode 1049 set, swapped out on reset").
type altSnapshot struct {
	grid   *grid.Grid
	attr   grid.Attribute
	modes  ModeFlags
	cursor Cursor
	region ScrollRegion
}

// SetAltScreen implements CSI ?1049h/l. Entering while already in the
// alternate screen, or leaving while already on the primary screen, is a
// no-op (spec.md §4.4 "alternate-screen switch (idempotent per direction)").
// Entering snapshots the primary grid/attribute/modes/cursor/region and
// replaces the live grid with a fresh blank one of the same dimensions;
// leaving restores the saved snapshot exactly, so two successive switches
// are an involution (spec.md §8 property 5).
func (t *Terminal) SetAltScreen(on bool) {
	if on == t.Modes.ALT {
		return
	}
	if on {
		t.alt = &altSnapshot{
			grid:   t.Grid.Snapshot(),
			attr:   t.Attr,
			modes:  t.Modes,
			cursor: t.Cursor,
			region: t.Region,
		}
		t.Grid.Restore(grid.New(t.Grid.Rows(), t.Grid.Cols()))
		t.Attr = grid.DefaultAttribute()
		t.Cursor = Cursor{}
		t.Modes.ALT = true
		t.Refresh = true
		return
	}
	if t.alt == nil {
		t.Modes.ALT = false
		return
	}
	saved := t.alt
	t.Grid.Restore(saved.grid)
	t.Attr = saved.attr
	t.Cursor = saved.cursor
	t.Region = saved.region
	t.Modes = saved.modes
	t.Modes.ALT = false
	t.alt = nil
	t.Refresh = true
}
