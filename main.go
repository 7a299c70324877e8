// kowhai-term is a GLFW/OpenGL xterm-class terminal emulator: a VT100/VT220
// escape-sequence core (internal/vt, internal/escparser) driving a GPU
// glyph-grid renderer (internal/render, internal/glxwindow) over a real PTY
// (internal/ptyio).
//
// Grounded on the teacher's root main.go (load config, build the app,
// run), trimmed of the Wails/webview/protocol-handler scaffolding that has
// no counterpart in a direct-GLFW renderer.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/kowhai-term/kowhai/internal/app"
	"github.com/kowhai-term/kowhai/internal/bell"
	"github.com/kowhai-term/kowhai/internal/config"
	"github.com/kowhai-term/kowhai/internal/escparser"
	"github.com/kowhai-term/kowhai/internal/glxwindow"
	"github.com/kowhai-term/kowhai/internal/ptyio"
	"github.com/kowhai-term/kowhai/internal/render"
	"github.com/kowhai-term/kowhai/internal/vt"
)

const (
	rows, cols           = 24, 80
	cellWidth, cellHeight = 9, 18
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kowhai-term:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	fg, err := config.ParseColor(cfg.Foreground)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	palette, perrs := cfg.Palette()
	for _, perr := range perrs {
		fmt.Fprintln(os.Stderr, "kowhai-term: config:", perr)
	}

	pty, err := ptyio.Spawn(cols, rows)
	if err != nil {
		return fmt.Errorf("pty: %w", err)
	}
	defer pty.Close()

	win := glxwindow.New(cols*cellWidth, rows*cellHeight, "kowhai-term", cfg.Alpha)
	renderer, err := render.NewRenderer(win, cfg.Font, cellWidth, cellHeight)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer renderer.Close()

	sampleRate := beep.SampleRate(44100)
	audio, err := bell.Open(sampleRate, sampleRate.N(time.Second/10))
	if err != nil {
		return fmt.Errorf("bell: %w", err)
	}

	term := vt.NewTerminal(rows, cols, fg, bg, palette)
	parser := escparser.New()
	parser.OnInvalidUTF8 = func(b byte) {
		fmt.Fprintf(os.Stderr, "kowhai-term: invalid UTF-8 byte 0x%02x discarded\n", b)
	}

	a := app.New(cfg, term, parser, pty, win, renderer, audio, cellWidth, cellHeight)
	return a.Run()
}
