package tui

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	enterAltScreen = "\x1b[?1049h"
	exitAltScreen  = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J\x1b[H"
)

// Terminal owns the raw-mode/alternate-screen lifecycle around the
// dashboard. Restore must run on every exit path so the user's shell
// comes back intact.
type Terminal struct {
	in   *os.File
	out  *os.File
	prev *term.State
}

// OpenTerminal switches stdin to raw mode and the output to the hidden-
// cursor alternate screen.
func OpenTerminal(in, out *os.File) (*Terminal, error) {
	prev, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	fmt.Fprint(out, enterAltScreen+hideCursor+clearScreen)
	return &Terminal{in: in, out: out, prev: prev}, nil
}

// Restore undoes raw mode and leaves the alternate screen.
func (t *Terminal) Restore() {
	fmt.Fprint(t.out, showCursor+exitAltScreen)
	term.Restore(int(t.in.Fd()), t.prev)
}
