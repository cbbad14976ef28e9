// Package console implements ASOS's two in-simulation display
// back-ends (legacy text buffer and framebuffer-with-shadow-grid) plus
// a host terminal back-end used for interactive runs, per spec.md
// §4.9. The shadow-grid-repaint structure is this package's own design
// since the teacher has no display device; the terminal back-end's
// raw-mode setup is grounded on gmofishsauce-wut4/emul/main.go's
// setupTerminal/restoreTerminal pair, adapted from UART passthrough to
// driving a cell grid through golang.org/x/term.
package console

// Cell is one character position: a character and a packed attribute
// byte (foreground/background nibble), per spec.md §4.8/§4.9.
type Cell struct {
	Char uint8
	Attr uint8
}

// Console is the shared interface both text and graphics back-ends
// satisfy; the syscall layer (internal/syscalls) only depends on this.
type Console interface {
	PutAt(x, y int, c Cell)
	Clear()
	Cols() int
	Rows() int
	SetCursor(x, y int)
	Blit(cells []Cell)
	Scroll()
}

// scroll shifts grid up by one row in place and blanks the last row,
// per spec.md §4.9's scroll rule. Used by the graphics back-end's
// shadow grid; the text back-end scrolls its memory buffer directly.
func scroll(grid []Cell, cols, rows int) {
	copy(grid, grid[cols:])
	for i := (rows - 1) * cols; i < rows*cols; i++ {
		grid[i] = Cell{}
	}
}
