// Package app wires the parser, grid/dispatcher, PTY, window, input
// translator, and bell/clipboard collaborators into the single-threaded
// cooperative event loop of spec.md §5.
//
// Grounded on the teacher's internal/terminal/session.go readLoop (drain
// PTY into the screen, track activity) collapsed from its two-goroutine
// (readLoop/waitLoop) shape into the one loop spec.md §5's concurrency
// model calls for: "Single-threaded cooperative event loop. One thread
// owns the parser, grid, cursor, dispatcher, renderer, input translator."
package app

import (
	"errors"
	"log"
	"time"

	"github.com/kowhai-term/kowhai/internal/bell"
	"github.com/kowhai-term/kowhai/internal/config"
	"github.com/kowhai-term/kowhai/internal/escparser"
	"github.com/kowhai-term/kowhai/internal/glxwindow"
	"github.com/kowhai-term/kowhai/internal/input"
	"github.com/kowhai-term/kowhai/internal/ptyio"
	"github.com/kowhai-term/kowhai/internal/render"
	"github.com/kowhai-term/kowhai/internal/vt"
)

// frameBudget caps the loop at ~125 FPS (spec.md §5 "sleep to cap frame
// rate at ~125 FPS (8 ms budget minus elapsed)").
const frameBudget = 8 * time.Millisecond

// App owns every collaborator and runs the event loop.
type App struct {
	cfg  config.Config
	term *vt.Terminal
	p    *escparser.Parser
	pty  *ptyio.PTY
	ws   render.WindowSystem
	clip render.Clipboard
	r    *render.Renderer
	bell *bell.Audio
	sample *bell.Sample

	cellWidth, cellHeight int

	focused     bool
	shouldClose bool
	lastTitle   string
}

// New constructs an App from its collaborators. r is expected to have
// already opened ws (render.NewRenderer does this as part of construction,
// per spec.md §7's "fatal init" category), so New itself never fails.
func New(cfg config.Config, term *vt.Terminal, p *escparser.Parser, pty *ptyio.PTY, ws render.WindowSystem, r *render.Renderer, audio *bell.Audio, cellWidth, cellHeight int) *App {
	a := &App{
		cfg:        cfg,
		term:       term,
		p:          p,
		pty:        pty,
		ws:         ws,
		r:          r,
		bell:       audio,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		focused:    true,
	}
	if clip, ok := ws.(render.Clipboard); ok {
		a.clip = clip
	}
	if cfg.Bell != "" {
		a.sample = bell.LoadOrWarn(cfg.Bell)
	}
	term.Bell = func() { a.bell.Play(a.sample) }
	term.Reply = func(p []byte) {
		if _, err := a.pty.Write(p); err != nil {
			log.Printf("app: pty write (reply): %v", err)
		}
	}
	return a
}

// closeChecker is implemented by window systems that can report the
// user closing the window (e.g. glxwindow.Window.ShouldClose); it isn't
// part of the WindowSystem interface itself since X11 has no equivalent
// single-call poll (a real X11 backend would watch WM_DELETE_WINDOW via
// PollEvent instead).
type closeChecker interface {
	ShouldClose() bool
}

// Run drives the loop until the window reports should_close or the PTY
// hits a fatal read error (spec.md §7 "Transient I/O ... other read
// errors abort the loop").
func (a *App) Run() error {
	readBuf := make([]byte, 4096)
	cc, _ := a.ws.(closeChecker)
	for !a.shouldClose {
		start := time.Now()

		if err := a.drainPTY(readBuf); err != nil {
			return err
		}
		a.syncTitle()
		a.handleEvents()
		if cc != nil && cc.ShouldClose() {
			a.shouldClose = true
		}

		if a.term.Refresh {
			a.r.Paint(a.term, a.focused)
		}

		if elapsed := time.Since(start); elapsed < frameBudget {
			time.Sleep(frameBudget - elapsed)
		}
	}
	return nil
}

// syncTitle pushes term.Title (set by OSC 0/2, spec.md §4.10) to the window
// system whenever it changes, so the supplement actually reaches the window
// instead of sitting unread on the Terminal.
func (a *App) syncTitle() {
	if a.term.Title == a.lastTitle {
		return
	}
	a.lastTitle = a.term.Title
	a.ws.SetWindowName(a.lastTitle)
}

// drainPTY reads until WouldBlock, feeding every byte to the parser in
// arrival order (spec.md §5 "Ordering guarantees ... applied in arrival
// order"; "drain in a loop until WouldBlock").
func (a *App) drainPTY(buf []byte) error {
	for {
		n, err := a.pty.Read(buf)
		for i := 0; i < n; i++ {
			act := a.p.Feed(buf[i])
			a.term.Dispatch(act)
		}
		if n > 0 {
			a.term.Refresh = true
		}
		if err == nil {
			continue
		}
		if errors.Is(err, ptyio.ErrWouldBlock) {
			return nil
		}
		return err
	}
}

// handleEvents polls the window system once per tick and applies whatever
// it returns before this tick's redraw (spec.md §5 "Window events observed
// during a tick are applied before that tick's redraw").
func (a *App) handleEvents() {
	for _, ev := range a.ws.PollEvent() {
		switch ev.Kind {
		case render.EventKeyPress:
			a.handleKey(ev)
		case render.EventButtonPress:
			a.handleButton(ev, true)
		case render.EventButtonRelease:
			a.handleButton(ev, false)
		case render.EventMotionNotify:
			if a.term.Selection.Selecting {
				cx, cy := a.pixelToCell(ev.X, ev.Y)
				a.term.Selection.Extend(cx, cy)
				a.term.Refresh = true
			}
		case render.EventExpose:
			a.handleResize(ev.Width, ev.Height)
			a.term.Refresh = true
		case render.EventFocusIn:
			a.focused = true
			a.term.Refresh = true
		case render.EventFocusOut:
			a.focused = false
			a.term.Refresh = true
		}
	}
}

func (a *App) pixelToCell(x, y int) (int, int) {
	return x / a.cellWidth, y / a.cellHeight
}

// handleResize converts an Expose event's framebuffer pixel size into a
// rows×cols grid and propagates it to the terminal, the PTY, and the
// renderer's back buffer (spec.md §5/§6.1/§6.2). A zero or unchanged size is
// ignored so an idle Expose doesn't churn the grid.
func (a *App) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	cols := width / a.cellWidth
	rows := height / a.cellHeight
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if rows == a.term.Grid.Rows() && cols == a.term.Grid.Cols() {
		return
	}
	a.term.Resize(rows, cols)
	if err := a.pty.Resize(cols, rows); err != nil {
		log.Printf("app: pty resize: %v", err)
	}
	a.r.Resize(rows, cols)
}

func (a *App) handleButton(ev render.Event, pressed bool) {
	switch ev.Button {
	case int(input.MouseLeft):
		cx, cy := a.pixelToCell(ev.X, ev.Y)
		if pressed {
			a.term.Selection.Begin(cx, cy)
		} else {
			a.term.Selection.Finish()
		}
		a.term.Refresh = true
	case int(input.MouseWheelUp):
		if pressed {
			a.writePTY(input.ScrollBytes(input.MouseWheelUp))
		}
	case int(input.MouseWheelDown):
		if pressed {
			a.writePTY(input.ScrollBytes(input.MouseWheelDown))
		}
	}
}

func (a *App) handleKey(ev render.Event) {
	text := a.ws.LookupString(ev.Key)
	kev := input.KeyEvent{
		Key:   glxwindow.KeyToInputKey(ev.Key),
		Runes: text,
		Mods:  input.Modifier(ev.Mods),
		Sym:   glxwindow.KeySym(ev.Key),
	}
	switch input.Classify(kev) {
	case input.ActionCopy:
		a.copySelection()
		return
	case input.ActionPaste:
		a.pasteClipboard()
		return
	}
	if kev.Key == input.KeyNone && text != "" {
		kev.Key = input.KeyRune
	}
	a.writePTY(input.ToBytes(kev, a.term.Modes.CKM))
}

func (a *App) copySelection() {
	if a.clip == nil || !a.term.Selection.Active {
		return
	}
	text := a.selectedText()
	if err := a.clip.SetText(text); err != nil {
		log.Printf("app: clipboard set: %v", err)
	}
}

func (a *App) pasteClipboard() {
	if a.clip == nil {
		return
	}
	text, err := a.clip.GetText()
	if err != nil {
		log.Printf("app: clipboard get: %v", err)
		return
	}
	a.writePTY(input.WrapPaste(text, a.term.Modes.PASTE))
}

func (a *App) selectedText() string {
	start, end := a.term.Selection.Normalized()
	var out []rune
	g := a.term.Grid
	for y := start.Y; y <= end.Y; y++ {
		x0, x1 := 0, g.Cols()
		if y == start.Y {
			x0 = start.X
		}
		if y == end.Y {
			x1 = end.X
		}
		for x := x0; x < x1; x++ {
			out = append(out, g.At(y, x).Char)
		}
		if y != end.Y {
			out = append(out, '\n')
		}
	}
	return string(out)
}

func (a *App) writePTY(b []byte) {
	if len(b) == 0 {
		return
	}
	if _, err := a.pty.Write(b); err != nil {
		log.Printf("app: pty write: %v", err)
	}
}

