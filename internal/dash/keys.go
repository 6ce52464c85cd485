package dash

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/cancelreader"
)

// KeyboardWorker reads raw terminal input on a dedicated goroutine and
// posts semantic commands. It never touches state; the reducer decides
// what a command means in the current view.
type KeyboardWorker struct {
	reader cancelreader.CancelReader
	bus    *Bus
}

// NewKeyboardWorker wraps the input stream in a cancelable reader so a
// shutdown can interrupt a blocked read.
func NewKeyboardWorker(in io.Reader, bus *Bus) (*KeyboardWorker, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, err
	}
	return &KeyboardWorker{reader: r, bus: bus}, nil
}

// Cancel interrupts a blocked read and makes Run return.
func (k *KeyboardWorker) Cancel() {
	k.reader.Cancel()
}

// Run reads input until the reader is cancelled or a quit key arrives.
// The quit command is still posted to the bus like any other; the worker
// only stops reading.
func (k *KeyboardWorker) Run() {
	buf := make([]byte, 64)
	for {
		n, err := k.reader.Read(buf)
		if err != nil {
			if !errors.Is(err, cancelreader.ErrCanceled) && err != io.EOF {
				// Terminal input is gone; nothing useful to do but stop.
				return
			}
			return
		}
		for _, cmd := range DecodeKeys(buf[:n]) {
			k.bus.Post(cmd)
			if cmd == Quit {
				return
			}
		}
	}
}

// DecodeKeys translates raw terminal bytes into semantic commands.
// Escape sequences for arrows and page keys arrive within one read in
// practice; a bare ESC byte means the escape key itself.
func DecodeKeys(p []byte) []Command {
	var cmds []Command
	for i := 0; i < len(p); i++ {
		switch b := p[i]; {
		case b == 0x1b:
			if i+2 < len(p) && p[i+1] == '[' {
				switch p[i+2] {
				case 'A':
					cmds = append(cmds, SelectPrevious)
				case 'B':
					cmds = append(cmds, SelectNext)
				case '5', '6':
					if i+3 < len(p) && p[i+3] == '~' {
						if p[i+2] == '5' {
							cmds = append(cmds, ScrollUp)
						} else {
							cmds = append(cmds, ScrollDown)
						}
						i++
					}
				}
				i += 2
			} else {
				cmds = append(cmds, ExitLogView)
			}
		case b == 'q', b == 0x03: // q or Ctrl-C
			cmds = append(cmds, Quit)
		case b == 'k':
			cmds = append(cmds, SelectPrevious)
		case b == 'j':
			cmds = append(cmds, SelectNext)
		case b == 'u':
			cmds = append(cmds, ScrollUp)
		case b == 'd':
			cmds = append(cmds, ScrollDown)
		case b == '\r', b == '\n':
			cmds = append(cmds, EnterPressed)
		}
	}
	return cmds
}

// WatchResize posts a Resize command whenever the terminal size changes,
// until ctx is cancelled.
func WatchResize(ctx context.Context, bus *Bus) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			bus.Post(Resize)
		}
	}
}
