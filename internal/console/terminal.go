package console

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TerminalConsole drives a host terminal with ANSI escapes as a
// stand-in for the framebuffer when running without a simulated GPU.
// Raw-mode setup/teardown is grounded on
// gmofishsauce-wut4/emul/main.go's setupTerminal/restoreTerminal.
type TerminalConsole struct {
	out        io.Writer
	fd         int
	savedState *term.State
	cols, rows int
	cursorX, cursorY int
}

// NewTerminalConsole wraps stdout/stdin. It does not change the
// terminal mode; EnableRawMode does that.
func NewTerminalConsole(cols, rows int) *TerminalConsole {
	return &TerminalConsole{out: os.Stdout, fd: int(os.Stdin.Fd()), cols: cols, rows: rows}
}

// EnableRawMode saves the current terminal state and switches to raw
// mode, returning a no-op error if stdin is not a terminal.
func (t *TerminalConsole) EnableRawMode() error {
	if !term.IsTerminal(t.fd) {
		return nil
	}
	state, err := term.GetState(t.fd)
	if err != nil {
		return fmt.Errorf("console: get terminal state: %w", err)
	}
	t.savedState = state
	if _, err := term.MakeRaw(t.fd); err != nil {
		return fmt.Errorf("console: set raw mode: %w", err)
	}
	return nil
}

// Restore puts the terminal back to its pre-raw-mode state.
func (t *TerminalConsole) Restore() {
	if t.savedState != nil && term.IsTerminal(t.fd) {
		term.Restore(t.fd, t.savedState)
	}
}

func (t *TerminalConsole) Cols() int { return t.cols }
func (t *TerminalConsole) Rows() int { return t.rows }

func (t *TerminalConsole) PutAt(x, y int, c Cell) {
	if x < 0 || x >= t.cols || y < 0 || y >= t.rows {
		return
	}
	fmt.Fprintf(t.out, "\x1b[%d;%dH%c", y+1, x+1, c.Char)
}

func (t *TerminalConsole) Clear() {
	fmt.Fprint(t.out, "\x1b[2J\x1b[H")
	t.cursorX, t.cursorY = 0, 0
}

func (t *TerminalConsole) SetCursor(x, y int) {
	t.cursorX, t.cursorY = x, y
	fmt.Fprintf(t.out, "\x1b[%d;%dH", y+1, x+1)
}

func (t *TerminalConsole) Blit(cells []Cell) {
	n := t.cols * t.rows
	if len(cells) > n {
		cells = cells[:n]
	}
	for i, c := range cells {
		t.PutAt(i%t.cols, i/t.cols, c)
	}
}

// Scroll shifts the terminal's visible region up by one line via the
// ANSI "scroll up" control sequence, per spec.md §4.9.
func (t *TerminalConsole) Scroll() {
	fmt.Fprint(t.out, "\x1b[S")
}
