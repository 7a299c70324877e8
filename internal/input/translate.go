package input

// Action names a key chord the translator recognizes as something other
// than a byte string to forward to the PTY.
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionPaste
)

// Classify recognizes the clipboard chords (spec.md §4.6: "Ctrl+Shift+C
// (modifier bitmap equal to 5 in the X11 convention) → copy current
// selection to clipboard"; Ctrl+Shift+V → paste).
func Classify(ev KeyEvent) Action {
	if ev.Mods != (ModShift | ModControl) {
		return ActionNone
	}
	switch ev.Sym {
	case 'c':
		return ActionCopy
	case 'v':
		return ActionPaste
	}
	return ActionNone
}

// ToBytes translates a key-press into the byte string to write to the PTY,
// or nil if the event carries no PTY-bound bytes (e.g. a bare modifier key,
// or a chord Classify already handled). ckm is the terminal's current
// cursor-key application mode.
func ToBytes(ev KeyEvent, ckm bool) []byte {
	switch ev.Key {
	case KeyRune:
		return stripNUL(ev.Runes)
	case KeyEnter:
		return []byte{'\r'}
	case KeyBackspace:
		return []byte{0x7F}
	case KeyTab:
		return []byte{'\t'}
	case KeyEscape:
		return []byte{0x1B}
	case KeyUp:
		return arrowBytes('A', ev.Mods, ckm)
	case KeyDown:
		return arrowBytes('B', ev.Mods, ckm)
	case KeyRight:
		return arrowBytes('C', ev.Mods, ckm)
	case KeyLeft:
		return arrowBytes('D', ev.Mods, ckm)
	case KeyHome:
		return []byte{0x1B, '[', 'H'}
	case KeyEnd:
		return []byte{0x1B, '[', 'F'}
	case KeyDelete:
		return []byte{0x1B, '[', '3', '~'}
	case KeyPageUp:
		return []byte{0x1B, '[', '5', '~'}
	case KeyPageDown:
		return []byte{0x1B, '[', '6', '~'}
	case KeyF10:
		return []byte{0x1B, '[', '2', '1', '~'}
	}
	return nil
}

// arrowBytes implements spec.md §4.6's arrow-key table: a nonzero modifier
// state takes priority (CSI 1 ; state+1 LETTER), then CKM (ESC O LETTER),
// then the plain CSI form.
func arrowBytes(letter byte, mods Modifier, ckm bool) []byte {
	if mods != 0 {
		return []byte("\x1b[1;" + itoa(int(mods)+1) + string(letter))
	}
	if ckm {
		return []byte{0x1B, 'O', letter}
	}
	return []byte{0x1B, '[', letter}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// stripNUL drops embedded NUL bytes per spec.md §4.6's input-translator
// fallback rule.
func stripNUL(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != 0 {
			out = append(out, s[i])
		}
	}
	return out
}

// ScrollBytes returns the byte the wheel events carry (spec.md §4.6:
// "Scroll-wheel up/down → send 0x19 / 0x05"). Returns nil for any other
// button.
func ScrollBytes(btn MouseButton) []byte {
	switch btn {
	case MouseWheelUp:
		return []byte{0x19}
	case MouseWheelDown:
		return []byte{0x05}
	}
	return nil
}

// WrapPaste wraps text in bracketed-paste markers when PASTE mode is on,
// otherwise returns it unwrapped (spec.md §4.6).
func WrapPaste(text string, bracketed bool) []byte {
	if !bracketed {
		return []byte(text)
	}
	out := make([]byte, 0, len(text)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}
