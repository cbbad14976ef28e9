package console

import "github.com/asos-project/asos/internal/memory"

// TextConsole renders directly into the simulated 0xB8000 text buffer:
// each cell is a {char, attribute} 16-bit pair, per spec.md §4.9(a).
type TextConsole struct {
	cols, rows   int
	cursorX, cursorY int
}

// NewTextConsole returns a console bound to memory.TextBufferAddr.
func NewTextConsole() *TextConsole {
	return &TextConsole{cols: memory.TextCols, rows: memory.TextRows}
}

func (t *TextConsole) Cols() int { return t.cols }
func (t *TextConsole) Rows() int { return t.rows }

func (t *TextConsole) offset(x, y int) uint32 {
	return memory.TextBufferAddr + uint32((y*t.cols+x)*2)
}

// PutAt writes one cell directly to the hardware buffer.
func (t *TextConsole) PutAt(x, y int, c Cell) {
	if x < 0 || x >= t.cols || y < 0 || y >= t.rows {
		return
	}
	_ = memory.WriteWord16(t.offset(x, y), uint16(c.Attr)<<8|uint16(c.Char))
}

// Clear blanks every cell.
func (t *TextConsole) Clear() {
	for y := 0; y < t.rows; y++ {
		for x := 0; x < t.cols; x++ {
			t.PutAt(x, y, Cell{})
		}
	}
	t.cursorX, t.cursorY = 0, 0
}

// SetCursor records the logical cursor position (no hardware cursor
// register is simulated; syscall 11 just needs a place to remember it).
func (t *TextConsole) SetCursor(x, y int) {
	t.cursorX, t.cursorY = x, y
}

// Cursor returns the last position set by SetCursor.
func (t *TextConsole) Cursor() (int, int) { return t.cursorX, t.cursorY }

// Blit writes cells row-major starting at (0,0), per spec.md §4.8
// syscall 16. Cells beyond one screen are dropped; Blit does not
// scroll.
func (t *TextConsole) Blit(cells []Cell) {
	n := t.cols * t.rows
	if len(cells) > n {
		cells = cells[:n]
	}
	for i, c := range cells {
		t.PutAt(i%t.cols, i/t.cols, c)
	}
}

// Scroll shifts every row up by one and blanks the bottom row, per
// spec.md §4.9.
func (t *TextConsole) Scroll() {
	for y := 0; y < t.rows-1; y++ {
		for x := 0; x < t.cols; x++ {
			v, _ := memory.ReadWord16(t.offset(x, y+1))
			_ = memory.WriteWord16(t.offset(x, y), v)
		}
	}
	for x := 0; x < t.cols; x++ {
		t.PutAt(x, t.rows-1, Cell{})
	}
}
