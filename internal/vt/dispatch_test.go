package vt

import (
	"testing"

	"github.com/kowhai-term/kowhai/internal/escparser"
	"github.com/kowhai-term/kowhai/internal/grid"
)

func gruvboxPalette() [8]grid.Color {
	return [8]grid.Color{
		{R: 0x28, G: 0x28, B: 0x28},
		{R: 0xcc, G: 0x24, B: 0x1d},
		{R: 0x98, G: 0x97, B: 0x1a},
		{R: 0xd6, G: 0x5d, B: 0x0e},
		{R: 0x45, G: 0x85, B: 0x88},
		{R: 0xb1, G: 0x62, B: 0x86},
		{R: 0x83, G: 0xa5, B: 0x98},
		{R: 0xeb, G: 0xdb, B: 0xb2},
	}
}

func newTestTerminal(rows, cols int) *Terminal {
	return NewTerminal(rows, cols, grid.Color{R: 0xd7, G: 0xe0, B: 0xda}, grid.Color{R: 0x0d, G: 0x16, B: 0x17}, gruvboxPalette())
}

// feed pumps s through a fresh parser into the terminal's Dispatch.
func feed(term *Terminal, p *escparser.Parser, s string) {
	for _, b := range []byte(s) {
		term.Dispatch(p.Feed(b))
	}
}

func TestPropertyCursorBoundsAfterRandomCSI(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	seq := "\x1b[100A\x1b[100B\x1b[100C\x1b[100D\x1b[999;999H\x1b[5S\x1b[5T\x1b[3L\x1b[3M"
	feed(term, p, seq)
	if term.Cursor.Y < 0 || term.Cursor.Y >= term.Grid.Rows() {
		t.Fatalf("cursor Y out of bounds: %d", term.Cursor.Y)
	}
	if term.Cursor.X < 0 || term.Cursor.X >= term.Grid.Cols() {
		t.Fatalf("cursor X out of bounds: %d", term.Cursor.X)
	}
}

func TestPropertyAltScreenInvolution(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "hello")
	before := term.Grid.At(0, 0)
	beforeAttr := term.Attr
	beforeCursor := term.Cursor

	feed(term, p, "\x1b[?1049h\x1b[?1049l")

	if term.Grid.At(0, 0) != before {
		t.Fatalf("alt-screen round trip lost primary grid content")
	}
	if term.Attr != beforeAttr {
		t.Fatalf("alt-screen round trip did not restore attribute")
	}
	if term.Cursor != beforeCursor {
		t.Fatalf("alt-screen round trip did not restore cursor")
	}
}

func TestPropertyScrollRegionPreservation(t *testing.T) {
	// Property 7 at the grid-primitive level, called directly rather than
	// through CSI S/T (which bind y to the opposite ends — see spec.md
	// §4.4's SU/SD row).
	term := newTestTerminal(5, 3)
	for r := 0; r < 5; r++ {
		for c := 0; c < 3; c++ {
			term.Grid.Set(r, c, grid.Cell{Char: rune('A' + r), Attr: term.Attr})
		}
	}
	blank := grid.BlankCell(term.Attr)
	term.Grid.ScrollDown(0, 4, 0, blank)
	term.Grid.ScrollUp(0, 4, 4, blank)
	if term.Grid.At(1, 0).Char != 'B' || term.Grid.At(2, 0).Char != 'C' || term.Grid.At(3, 0).Char != 'D' {
		t.Fatalf("middle rows should survive scroll_down(top) then scroll_up(bottom)")
	}
}

func TestPropertyModeToggling(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	if term.Modes.CKM {
		t.Fatalf("CKM should start false")
	}
	feed(term, p, "\x1b[?1h")
	if !term.Modes.CKM {
		t.Fatalf("CSI ?1h should set CKM")
	}
	feed(term, p, "\x1b[?1l")
	if term.Modes.CKM {
		t.Fatalf("CSI ?1l should clear CKM")
	}
}

func TestScenarioS1ColorAndPrint(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "\x1b[31;1mA\x1b[0mB")

	cellA := term.Grid.At(0, 0)
	if cellA.Char != 'A' || cellA.Attr.FGIsDefault || cellA.Attr.FG != term.Palette[1] {
		t.Fatalf("cell A: got %+v", cellA)
	}
	cellB := term.Grid.At(0, 1)
	if cellB.Char != 'B' || !cellB.Attr.FGIsDefault {
		t.Fatalf("cell B: got %+v", cellB)
	}
	if term.Cursor.X != 2 || term.Cursor.Y != 0 {
		t.Fatalf("cursor: got (%d,%d) want (2,0)", term.Cursor.X, term.Cursor.Y)
	}
}

func TestScenarioS2CupAndDsr(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	var replied []byte
	term.Reply = func(b []byte) { replied = append(replied, b...) }

	feed(term, p, "\x1b[12;40H\x1b[6n")
	if string(replied) != "\x1b[12;40R" {
		t.Fatalf("DSR reply: got %q", replied)
	}
}

func TestScenarioS3EraseDisplay(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "hello\n")
	beforeY, beforeX := term.Cursor.Y, term.Cursor.X
	feed(term, p, "\x1b[2J")
	for x := 0; x < term.Grid.Cols(); x++ {
		if term.Grid.At(0, x).Char != ' ' {
			t.Fatalf("ED 2 should blank every cell, col %d has %q", x, term.Grid.At(0, x).Char)
		}
	}
	if term.Cursor.Y != beforeY || term.Cursor.X != beforeX {
		t.Fatalf("ED 2 must not move the cursor")
	}
}

func TestScenarioS4InsertDeleteLines(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	for r := 0; r < 24; r++ {
		term.Grid.Set(r, 0, grid.Cell{Char: rune('0' + r%10), Attr: term.Attr})
	}
	term.Cursor.Y = 5
	feed(term, p, "\x1b[2L")
	if term.Grid.At(5, 0).Char != ' ' || term.Grid.At(6, 0).Char != ' ' {
		t.Fatalf("IL should insert blank rows at the cursor")
	}
	if term.Cursor.X != 0 {
		t.Fatalf("cursor x should be 0 after IL, got %d", term.Cursor.X)
	}
}

func TestScenarioS5AltScreenVisibility(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "\x1b[?1049h")
	feed(term, p, "X")
	if term.Grid.At(0, 0).Char != 'X' {
		t.Fatalf("X should be visible on the alt screen")
	}
	feed(term, p, "\x1b[?1049l")
	if term.Grid.At(0, 0).Char == 'X' {
		t.Fatalf("primary grid should be unchanged by the alt-screen excursion")
	}
}

func TestAltScreenModeIsIdempotentPerDirection(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "\x1b[?1049h\x1b[?1049h")
	if !term.Modes.ALT {
		t.Fatalf("should be on the alt screen")
	}
	snapBefore := term.alt
	feed(term, p, "\x1b[?1049h") // redundant set must not re-snapshot
	if term.alt != snapBefore {
		t.Fatalf("a redundant set should not replace the saved snapshot")
	}
	feed(term, p, "\x1b[?1049l\x1b[?1049l")
	if term.Modes.ALT {
		t.Fatalf("should be back on the primary screen")
	}
}

func TestEscDecaln(t *testing.T) {
	term := newTestTerminal(3, 3)
	p := escparser.New()
	feed(term, p, "\x1b#8")
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if term.Grid.At(y, x).Char != 'E' {
				t.Fatalf("DECALN should fill every cell with E, (%d,%d) = %q", y, x, term.Grid.At(y, x).Char)
			}
		}
	}
}

func TestEscHardReset(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "\x1b[31mhello\x1b[?1049h\x1bc")
	if term.Cursor.X != 0 || term.Cursor.Y != 0 {
		t.Fatalf("hard reset should home the cursor")
	}
	if !term.Attr.FGIsDefault {
		t.Fatalf("hard reset should restore the default attribute")
	}
	if term.Modes.ALT {
		t.Fatalf("hard reset should drop the alternate screen")
	}
}

func TestInsertModePrintShiftsRowRight(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "abc\r\x1b[4h")
	feed(term, p, "X")
	if term.Grid.At(0, 0).Char != 'X' {
		t.Fatalf("IRM print should insert at the cursor, got %q", term.Grid.At(0, 0).Char)
	}
	if term.Grid.At(0, 1).Char != 'a' || term.Grid.At(0, 2).Char != 'b' || term.Grid.At(0, 3).Char != 'c' {
		t.Fatalf("IRM print should shift the row right, row: %q%q%q%q",
			term.Grid.At(0, 0).Char, term.Grid.At(0, 1).Char, term.Grid.At(0, 2).Char, term.Grid.At(0, 3).Char)
	}
}

func TestScenarioS6ExtendedColorAdvancesCursor(t *testing.T) {
	term := newTestTerminal(24, 80)
	p := escparser.New()
	feed(term, p, "\x1b[38;2;10;20;30;1mZ")
	cell := term.Grid.At(0, 0)
	want := grid.Color{R: 10, G: 20, B: 30}
	if cell.Attr.FG != want {
		t.Fatalf("fg: got %+v want %+v", cell.Attr.FG, want)
	}
}
