// Package glxwindow is the concrete render.WindowSystem + render.Clipboard
// collaborator: a GLFW window with an OpenGL core-profile context, an Xft-like
// glyph drawer built on golang.org/x/image/font/opentype, and an event queue
// fed by GLFW's callback API.
//
// Grounded on javanhut-RavenTerminal's src/window/window.go (GLFW hints,
// X11 window class, context setup) and render/render.go (font atlas, quad
// shaders), trimmed from that file's tab bar / help panel / search overlay
// surface (no SPEC_FULL.md counterpart) down to the single-grid window and
// draw primitives spec.md §6.2 names.
package glxwindow

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/kowhai-term/kowhai/internal/input"
	"github.com/kowhai-term/kowhai/internal/render"
)

func init() {
	// GLFW event handling must run on the main thread.
	runtime.LockOSThread()
}

// Window is a GLFW-backed render.WindowSystem.
type Window struct {
	win *glfw.Window

	title  string
	width  int
	height int
	alpha  float64
	queue  []render.Event

	lastKey  render.KeyCode
	lastChar string

	program     uint32
	colorLoc    int32
	projLoc     int32
	quadVAO     uint32
	quadVBO     uint32
	fontProgram uint32
	texColorLoc int32
	texProjLoc  int32
	texLoc      int32
	fontVAO     uint32
	fontVBO     uint32

	atlas
}

// New constructs an unopened Window of the given pixel size, title, and
// overall opacity (spec.md §6.5/SPEC_FULL.md §4.10 Config.Alpha, 0..1); Open
// performs the actual GLFW/GL initialization (spec.md §6.2 "open()").
func New(width, height int, title string, alpha float64) *Window {
	return &Window{title: title, width: width, height: height, alpha: alpha}
}

var _ render.WindowSystem = (*Window)(nil)
var _ render.Clipboard = (*Window)(nil)

// Open creates the GLFW window and OpenGL context (spec.md §6.2 "open()").
func (w *Window) Open() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glxwindow: glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHintString(glfw.X11ClassName, "kowhai-term")
	glfw.WindowHintString(glfw.X11InstanceName, "kowhai-term")

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("glxwindow: create window: %w", err)
	}
	win.MakeContextCurrent()

	if w.alpha > 0 && w.alpha < 1 {
		win.SetOpacity(float32(w.alpha))
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return fmt.Errorf("glxwindow: gl init: %w", err)
	}
	glfw.SwapInterval(1)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	w.win = win
	if err := w.initGL(); err != nil {
		return err
	}
	w.installCallbacks()
	return nil
}

// GetWindowAttributes returns the current window size in pixels.
func (w *Window) GetWindowAttributes() (int, int) {
	return w.win.GetSize()
}

// SetWindowName sets the window title (OSC 0/2 plumbing, SPEC_FULL.md
// supplement).
func (w *Window) SetWindowName(name string) {
	w.win.SetTitle(name)
}

// SelectInput is a no-op: GLFW callbacks are installed unconditionally in
// Open, so there is no separate event-mask step the way X11's
// XSelectInput requires.
func (w *Window) SelectInput(key, expose, focus, visibility, button, pointerMotion bool) {}

// DefineCursor sets the GLFW standard cursor shape; shape 0 is the default
// arrow, any other value requests the I-beam (a terminal only ever needs
// the two).
func (w *Window) DefineCursor(shape int) {
	if shape == 0 {
		w.win.SetCursor(glfw.CreateStandardCursor(glfw.ArrowCursor))
		return
	}
	w.win.SetCursor(glfw.CreateStandardCursor(glfw.IBeamCursor))
}

// MapWindow shows the window (GLFW windows are created visible, but an
// explicit call keeps the operation symmetric with spec.md §6.2).
func (w *Window) MapWindow() {
	w.win.Show()
}

// Flush pumps the GLFW event queue, delivering callbacks synchronously.
func (w *Window) Flush() {
	glfw.PollEvents()
}

// PollEvent drains and returns every Event queued by callbacks since the
// last call.
func (w *Window) PollEvent() []render.Event {
	glfw.PollEvents()
	ev := w.queue
	w.queue = nil
	return ev
}

// LookupString returns the composed text produced by the most recent
// physical key press matching key, consuming it (GLFW's char callback
// fires immediately after the key callback for printable keys, so this
// pairs the two the way X11's XLookupString pairs a KeyPress with its
// composed string).
func (w *Window) LookupString(key render.KeyCode) string {
	if key != w.lastKey || w.lastChar == "" {
		return ""
	}
	s := w.lastChar
	w.lastChar = ""
	return s
}

// KeycodeToKeysym returns the keycode unchanged: GLFW's key constants
// already serve as the resolved symbol this core needs (arrow/function/
// editing keys), so no further layout resolution is performed.
func (w *Window) KeycodeToKeysym(key render.KeyCode) uint32 {
	return uint32(key)
}

// ResizeBackBuffer updates the GL viewport for a new pixel size.
func (w *Window) ResizeBackBuffer(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// SwapBuffers presents the frame.
func (w *Window) SwapBuffers(width, height int) {
	w.win.SwapBuffers()
}

// Close releases the window and terminates GLFW (spec.md §5 "resource
// discipline": released on close).
func (w *Window) Close() error {
	w.destroyGL()
	w.win.Destroy()
	glfw.Terminate()
	return nil
}

// ShouldClose reports the GLFW close flag, used by internal/app's
// should_close loop guard (spec.md §5).
func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

// GetText implements render.Clipboard.
func (w *Window) GetText() (string, error) {
	return w.win.GetClipboardString()
}

// SetText implements render.Clipboard.
func (w *Window) SetText(s string) error {
	w.win.SetClipboardString(s)
	return nil
}

func toInputMods(m glfw.ModifierKey) input.Modifier {
	var mods input.Modifier
	if m&glfw.ModShift != 0 {
		mods |= input.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= input.ModControl
	}
	// GLFW does not expose the X11 Lock modifier portably across
	// platforms; ModLock is left unset.
	return mods
}

// KeyToInputKey maps a GLFW keycode (as carried unchanged in a
// render.Event's KeyCode by this collaborator) to the window-toolkit-
// agnostic key the input package's translator expects.
func KeyToInputKey(code render.KeyCode) input.Key {
	switch glfw.Key(code) {
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return input.KeyEnter
	case glfw.KeyBackspace:
		return input.KeyBackspace
	case glfw.KeyTab:
		return input.KeyTab
	case glfw.KeyEscape:
		return input.KeyEscape
	case glfw.KeyUp:
		return input.KeyUp
	case glfw.KeyDown:
		return input.KeyDown
	case glfw.KeyLeft:
		return input.KeyLeft
	case glfw.KeyRight:
		return input.KeyRight
	case glfw.KeyHome:
		return input.KeyHome
	case glfw.KeyEnd:
		return input.KeyEnd
	case glfw.KeyDelete:
		return input.KeyDelete
	case glfw.KeyPageUp:
		return input.KeyPageUp
	case glfw.KeyPageDown:
		return input.KeyPageDown
	case glfw.KeyF1:
		return input.KeyF1
	case glfw.KeyF2:
		return input.KeyF2
	case glfw.KeyF3:
		return input.KeyF3
	case glfw.KeyF4:
		return input.KeyF4
	case glfw.KeyF5:
		return input.KeyF5
	case glfw.KeyF6:
		return input.KeyF6
	case glfw.KeyF7:
		return input.KeyF7
	case glfw.KeyF8:
		return input.KeyF8
	case glfw.KeyF9:
		return input.KeyF9
	case glfw.KeyF10:
		return input.KeyF10
	case glfw.KeyF11:
		return input.KeyF11
	case glfw.KeyF12:
		return input.KeyF12
	}
	return input.KeyNone
}

// KeySym returns the physical key's base lowercase ASCII letter, used by
// input.Classify to recognize the Ctrl+Shift+C/V clipboard chords
// independent of what Shift composes into the char callback. GLFW's
// letter keycodes already equal their uppercase ASCII value.
func KeySym(code render.KeyCode) byte {
	k := glfw.Key(code)
	if k >= glfw.KeyA && k <= glfw.KeyZ {
		return byte(k) - byte(glfw.KeyA) + 'a'
	}
	return 0
}

func (w *Window) installCallbacks() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press && action != glfw.Repeat {
			return
		}
		code := render.KeyCode(key)
		w.lastKey = code
		w.queue = append(w.queue, render.Event{Kind: render.EventKeyPress, Key: code, Mods: int(toInputMods(mods))})
	})

	w.win.SetCharCallback(func(_ *glfw.Window, r rune) {
		w.lastChar += string(r)
	})

	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		btn := 0
		if button == glfw.MouseButtonLeft {
			btn = int(input.MouseLeft)
		}
		x, y := w.win.GetCursorPos()
		kind := render.EventButtonPress
		if action == glfw.Release {
			kind = render.EventButtonRelease
		}
		w.queue = append(w.queue, render.Event{Kind: kind, Button: btn, X: int(x), Y: int(y)})
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.queue = append(w.queue, render.Event{Kind: render.EventMotionNotify, X: int(xpos), Y: int(ypos)})
	})

	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		btn := int(input.MouseWheelDown)
		if yoff > 0 {
			btn = int(input.MouseWheelUp)
		}
		// xterm's wheel convention is a Button{4,5} press with no matching
		// release; synthesize both halves so callers that key off press
		// events alone see the scroll.
		w.queue = append(w.queue, render.Event{Kind: render.EventButtonPress, Button: btn})
		w.queue = append(w.queue, render.Event{Kind: render.EventButtonRelease, Button: btn})
	})

	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.queue = append(w.queue, render.Event{Kind: render.EventExpose, Width: width, Height: height})
	})

	w.win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		kind := render.EventFocusOut
		if focused {
			kind = render.EventFocusIn
		}
		w.queue = append(w.queue, render.Event{Kind: kind})
	})
}
