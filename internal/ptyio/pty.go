// Package ptyio is the PTY collaborator of spec.md §6.1: it spawns the
// child shell on a pseudo-terminal, resizes the TTY window size, and
// exposes a non-blocking read so the single-threaded event loop (spec.md
// §5) can drain it without ever parking the whole process.
//
// Grounded on javanhut-RavenTerminal's shell/pty.go, trimmed to the plain
// login-shell spawn this spec calls for (no init-script/rc-sourcing
// configuration — that is RavenTerminal product surface with no SPEC_FULL
// counterpart) and using creack/pty directly instead of the teacher's
// aymanbagabas/go-pty (DESIGN.md: go-pty's cross-platform abstraction has
// no Windows/console surface to serve in an X11-only core).
package ptyio

import (
	"errors"
	"os"
	"os/exec"
	"os/user"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// ErrWouldBlock is returned by Read when no data is currently available.
var ErrWouldBlock = errors.New("ptyio: would block")

// PTY is a spawned shell bound to a pseudo-terminal.
type PTY struct {
	cmd *exec.Cmd
	f   *os.File
}

// Spawn starts the user's login shell on a new PTY of the given size
// (spec.md §6.1 "new() → (child, fd) spawning a shell with stdin/stdout/
// stderr bound to the slave side").
func Spawn(cols, rows int) (*PTY, error) {
	shell := loginShell()
	cmd := exec.Command(shell, "-i")
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if home, err := user.Current(); err == nil {
		cmd.Dir = home.HomeDir
	}

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, err
	}
	return &PTY{cmd: cmd, f: f}, nil
}

func loginShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	for _, sh := range []string{"/bin/bash", "/bin/zsh", "/bin/sh"} {
		if _, err := os.Stat(sh); err == nil {
			return sh
		}
	}
	return "/bin/sh"
}

// Read drains up to len(buf) bytes without blocking the caller past a
// negligible deadline. A timeout is reported as ErrWouldBlock so the event
// loop's drain-until-WouldBlock strategy (spec.md §5) can treat it as "no
// more data this tick" rather than an error.
func (p *PTY) Read(buf []byte) (int, error) {
	_ = p.f.SetReadDeadline(time.Now())
	n, err := p.f.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, ErrWouldBlock
		}
		if errors.Is(err, syscall.EINTR) {
			return 0, nil
		}
	}
	return n, err
}

// Write sends bytes to the PTY, e.g. from the input translator.
func (p *PTY) Write(buf []byte) (int, error) {
	return p.f.Write(buf)
}

// Resize updates the TTY window size (spec.md §6.1 "resize(cols, rows)").
func (p *PTY) Resize(cols, rows int) error {
	return pty.Setsize(p.f, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
}

// Close implements the spec.md §6.1 drop semantics: SIGHUP the child, then
// wait for it, then release the master fd.
func (p *PTY) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(syscall.SIGHUP)
		_, _ = p.cmd.Process.Wait()
	}
	return p.f.Close()
}
