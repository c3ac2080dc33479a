package tui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Screen owns the terminal while the app runs: raw mode, the alternate
// buffer, and frame writes. Restore must run on every exit path so the
// user's shell gets a sane terminal back.
type Screen struct {
	out      *os.File
	oldState *term.State
	width    int
	height   int
}

// OpenScreen switches the terminal to raw mode and enters the alternate
// buffer with the cursor hidden.
func OpenScreen(in, out *os.File) (*Screen, error) {
	state, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	s := &Screen{out: out, oldState: state}
	s.width, s.height, err = term.GetSize(int(out.Fd()))
	if err != nil {
		s.width, s.height = 80, 24
	}

	// Alternate buffer, hidden cursor, clear.
	fmt.Fprint(out, "\x1b[?1049h\x1b[?25l\x1b[2J")
	return s, nil
}

// Size returns the terminal dimensions measured at open (refreshed by
// Resize).
func (s *Screen) Size() (width, height int) { return s.width, s.height }

// Resize re-reads the terminal size.
func (s *Screen) Resize() {
	if w, h, err := term.GetSize(int(s.out.Fd())); err == nil {
		s.width, s.height = w, h
	}
}

// Draw writes one composed frame from the home position. Raw mode needs
// explicit carriage returns, so newlines are expanded.
func (s *Screen) Draw(frame string) {
	var buf []byte
	buf = append(buf, "\x1b[H"...)
	for i := 0; i < len(frame); i++ {
		if frame[i] == '\n' {
			// Clear to end of line before wrapping, so shorter lines
			// don't leave stale cells behind.
			buf = append(buf, "\x1b[K\r\n"...)
			continue
		}
		buf = append(buf, frame[i])
	}
	buf = append(buf, "\x1b[K\x1b[J"...)
	_, _ = s.out.Write(buf)
}

// Restore leaves the alternate buffer and restores cooked mode. Safe to
// call more than once.
func (s *Screen) Restore(in *os.File) {
	fmt.Fprint(s.out, "\x1b[?25h\x1b[?1049l")
	if s.oldState != nil {
		_ = term.Restore(int(in.Fd()), s.oldState)
		s.oldState = nil
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
