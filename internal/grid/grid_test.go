package grid

import "testing"

func TestNewGridBlank(t *testing.T) {
	g := New(24, 80)
	if g.Rows() != 24 || g.Cols() != 80 {
		t.Fatalf("wrong dims: %d x %d", g.Rows(), g.Cols())
	}
	if g.At(0, 0).Char != ' ' {
		t.Fatalf("expected blank cell, got %q", g.At(0, 0).Char)
	}
	if !g.Dirty(0, 0) {
		t.Fatalf("fresh grid should be fully dirty")
	}
}

func TestIdempotentWriteInvariant(t *testing.T) {
	g := New(5, 5)
	g.ClearDirty()
	current := g.At(2, 2)
	g.Set(2, 2, current)
	if g.Dirty(2, 2) {
		t.Fatalf("writing the same cell value must not mark it dirty")
	}
	g.Set(2, 2, Cell{Char: 'X', Attr: DefaultAttribute()})
	if !g.Dirty(2, 2) {
		t.Fatalf("writing a different value must mark it dirty")
	}
}

func TestResizePreservesOverlapAndMarksDirty(t *testing.T) {
	g := New(3, 3)
	g.Set(1, 1, Cell{Char: 'Z', Attr: DefaultAttribute()})
	g.ClearDirty()
	g.Resize(4, 4)
	if g.At(1, 1).Char != 'Z' {
		t.Fatalf("resize lost surviving content")
	}
	if g.At(3, 3).Char != ' ' {
		t.Fatalf("new cells should be blank")
	}
	if !g.Dirty(0, 0) || !g.Dirty(3, 3) {
		t.Fatalf("resize must mark the whole grid dirty")
	}
}

func TestResizeTruncatesNoReflow(t *testing.T) {
	g := New(2, 5)
	for c := 0; c < 5; c++ {
		g.Set(0, c, Cell{Char: rune('a' + c), Attr: DefaultAttribute()})
	}
	g.Resize(2, 3)
	if g.At(0, 0).Char != 'a' || g.At(0, 2).Char != 'c' {
		t.Fatalf("truncation should keep leading columns verbatim, got %c %c", g.At(0, 0).Char, g.At(0, 2).Char)
	}
}

func TestInsertDropsLastCell(t *testing.T) {
	g := New(1, 4)
	for c := 0; c < 4; c++ {
		g.Set(0, c, Cell{Char: rune('0' + c), Attr: DefaultAttribute()})
	}
	g.Insert(0, 1, Cell{Char: 'X', Attr: DefaultAttribute()})
	want := "0X12"
	for c, r := range want {
		if g.At(0, c).Char != r {
			t.Fatalf("col %d: got %q want %q", c, g.At(0, c).Char, r)
		}
	}
}

func TestDeleteShiftsAndFills(t *testing.T) {
	g := New(1, 4)
	for c := 0; c < 4; c++ {
		g.Set(0, c, Cell{Char: rune('0' + c), Attr: DefaultAttribute()})
	}
	blank := BlankCell(DefaultAttribute())
	g.Delete(0, 1, 2, blank)
	want := []rune{'0', '3', ' ', ' '}
	for c, r := range want {
		if g.At(0, c).Char != r {
			t.Fatalf("col %d: got %q want %q", c, g.At(0, c).Char, r)
		}
	}
}

func TestScrollUpDownRoundTrip(t *testing.T) {
	// Property 7: scroll_down(top) followed by scroll_up(bottom) within an
	// otherwise idle region yields the same grid modulo the newly-blanked
	// row on each end. Called at y == top (resp. y == bottom), both
	// primitives degenerate to blanking exactly that boundary row — there
	// is no row between top and y (or y and bottom) to shift — so every
	// row strictly between top and bottom is left untouched.
	g := New(5, 3)
	for r := 0; r < 5; r++ {
		for c := 0; c < 3; c++ {
			g.Set(r, c, Cell{Char: rune('A' + r), Attr: DefaultAttribute()})
		}
	}
	blank := BlankCell(DefaultAttribute())
	top, bottom := 0, 4
	g.ScrollDown(top, bottom, top, blank)
	g.ScrollUp(top, bottom, bottom, blank)

	if g.At(top, 0).Char != ' ' {
		t.Fatalf("row %d should be blanked by scroll_down, got %q", top, g.At(top, 0).Char)
	}
	if g.At(bottom, 0).Char != ' ' {
		t.Fatalf("row %d should be blanked by scroll_up, got %q", bottom, g.At(bottom, 0).Char)
	}
	want := []rune{'B', 'C', 'D'}
	for i, r := range want {
		if got := g.At(i+1, 0).Char; got != r {
			t.Fatalf("row %d: got %q want %q", i+1, got, r)
		}
	}
}

func TestTabStopsDefaultEvery8(t *testing.T) {
	g := New(1, 40)
	for c := 0; c < 40; c++ {
		want := c%8 == 0
		if g.TabStop(c) != want {
			t.Fatalf("col %d: got %v want %v", c, g.TabStop(c), want)
		}
	}
}

func TestNextPrevTabStop(t *testing.T) {
	g := New(1, 40)
	if got := g.NextTabStop(3); got != 8 {
		t.Fatalf("NextTabStop(3) = %d, want 8", got)
	}
	if got := g.PrevTabStop(10); got != 8 {
		t.Fatalf("PrevTabStop(10) = %d, want 8", got)
	}
	g.ClearAllTabStops()
	if got := g.NextTabStop(3); got != g.Cols()-1 {
		t.Fatalf("after clearing, NextTabStop should clamp to last column, got %d", got)
	}
}

func TestSnapshotRestoreInvolution(t *testing.T) {
	// Property 5 at the grid layer: snapshotting then restoring must
	// reproduce the original content exactly.
	g := New(3, 3)
	g.Set(1, 1, Cell{Char: 'Q', Attr: DefaultAttribute()})
	snap := g.Snapshot()

	g.Set(1, 1, Cell{Char: 'R', Attr: DefaultAttribute()})
	g.Restore(snap)

	if g.At(1, 1).Char != 'Q' {
		t.Fatalf("restore did not bring back snapshot content, got %q", g.At(1, 1).Char)
	}
}
