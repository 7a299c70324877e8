package app

import (
	"testing"

	"github.com/kowhai-term/kowhai/internal/grid"
	"github.com/kowhai-term/kowhai/internal/vt"
)

func newTestApp() *App {
	term := vt.NewTerminal(5, 5, grid.Color{}, grid.Color{}, [8]grid.Color{})
	return &App{term: term, cellWidth: 9, cellHeight: 18}
}

func TestPixelToCell(t *testing.T) {
	a := newTestApp()
	x, y := a.pixelToCell(27, 36)
	if x != 3 || y != 2 {
		t.Fatalf("pixelToCell(27, 36) = (%d, %d), want (3, 2)", x, y)
	}
}

func TestSelectedTextSingleRow(t *testing.T) {
	a := newTestApp()
	for i, r := range "hello" {
		a.term.Grid.Set(0, i, grid.Cell{Char: r})
	}
	a.term.Selection.Begin(1, 0)
	a.term.Selection.Extend(4, 0)

	got := a.selectedText()
	if got != "ell" {
		t.Fatalf("selectedText = %q, want %q", got, "ell")
	}
}

func TestSelectedTextSpansRows(t *testing.T) {
	a := newTestApp()
	for i, r := range "abcde" {
		a.term.Grid.Set(0, i, grid.Cell{Char: r})
	}
	for i, r := range "fghij" {
		a.term.Grid.Set(1, i, grid.Cell{Char: r})
	}
	a.term.Selection.Begin(3, 0)
	a.term.Selection.Extend(2, 1)

	got := a.selectedText()
	want := "de\nfg"
	if got != want {
		t.Fatalf("selectedText = %q, want %q", got, want)
	}
}

func TestWritePTYNoopOnEmpty(t *testing.T) {
	a := newTestApp()
	a.writePTY(nil) // must not panic despite a.pty being nil
}
