package console

import "github.com/asos-project/asos/internal/memory"

const (
	glyphW = 8
	glyphH = 16
)

// Palette is the 16-color RGB table spec.md §4.9's theming section
// describes, indexed by the low/high attribute nibble.
type Palette [16]uint32

// DefaultPalette is a standard VGA-like 16-color table.
var DefaultPalette = Palette{
	0x000000, 0x0000AA, 0x00AA00, 0x00AAAA,
	0xAA0000, 0xAA00AA, 0xAA5500, 0xAAAAAA,
	0x555555, 0x5555FF, 0x55FF55, 0x55FFFF,
	0xFF5555, 0xFF55FF, 0xFFFF55, 0xFFFFFF,
}

// GraphicsConsole renders a character grid onto a linear RGB
// framebuffer by drawing each cell's glyph, maintaining a shadow grid
// so scroll/retheme can repaint without reading the framebuffer back,
// per spec.md §4.9(b).
type GraphicsConsole struct {
	width, height int // framebuffer pixel dimensions
	cols, rows    int // character grid dimensions
	shadow        []Cell
	palette       Palette
	cursorX, cursorY int
}

// NewGraphicsConsole returns a console sized for a width x height
// pixel framebuffer at memory.FramebufferAddr.
func NewGraphicsConsole(width, height int) *GraphicsConsole {
	cols := width / glyphW
	rows := height / glyphH
	return &GraphicsConsole{
		width: width, height: height,
		cols: cols, rows: rows,
		shadow:  make([]Cell, cols*rows),
		palette: DefaultPalette,
	}
}

func (g *GraphicsConsole) Cols() int { return g.cols }
func (g *GraphicsConsole) Rows() int { return g.rows }

// SetPalette overrides the logical role table, per spec.md §4.9's
// theming rule, and repaints from the shadow grid.
func (g *GraphicsConsole) SetPalette(p Palette) {
	g.palette = p
	g.repaint()
}

// PutAt draws one cell's glyph at (x, y) and updates the shadow grid.
func (g *GraphicsConsole) PutAt(x, y int, c Cell) {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows {
		return
	}
	g.shadow[y*g.cols+x] = c
	g.drawCell(x, y, c)
}

func (g *GraphicsConsole) drawCell(x, y int, c Cell) {
	fg := g.palette[c.Attr&0x0F]
	bg := g.palette[(c.Attr>>4)&0x0F]
	rows := GlyphRows(c.Char)

	px0 := x * glyphW
	py0 := y * glyphH
	for row := 0; row < glyphH; row++ {
		bits := rows[row]
		for col := 0; col < glyphW; col++ {
			color := bg
			if bits&(0x80>>uint(col)) != 0 {
				color = fg
			}
			g.putPixel(px0+col, py0+row, color)
		}
	}
}

func (g *GraphicsConsole) putPixel(x, y int, rgb uint32) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	addr := memory.FramebufferAddr + uint32((y*g.width+x)*4)
	_ = memory.WriteWord32(addr, rgb)
}

// Clear blanks the shadow grid and repaints.
func (g *GraphicsConsole) Clear() {
	for i := range g.shadow {
		g.shadow[i] = Cell{}
	}
	g.cursorX, g.cursorY = 0, 0
	g.repaint()
}

func (g *GraphicsConsole) repaint() {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			g.drawCell(x, y, g.shadow[y*g.cols+x])
		}
	}
}

// Scroll shifts the shadow grid up by one row and repaints, per
// spec.md §4.9.
func (g *GraphicsConsole) Scroll() {
	scroll(g.shadow, g.cols, g.rows)
	g.repaint()
}

func (g *GraphicsConsole) SetCursor(x, y int) { g.cursorX, g.cursorY = x, y }
func (g *GraphicsConsole) Cursor() (int, int) { return g.cursorX, g.cursorY }

// Blit writes cells row-major, scrolling is the caller's
// responsibility (the syscall layer decides when content overflows).
func (g *GraphicsConsole) Blit(cells []Cell) {
	n := g.cols * g.rows
	if len(cells) > n {
		cells = cells[:n]
	}
	for i, c := range cells {
		g.PutAt(i%g.cols, i/g.cols, c)
	}
}

// FillRGB clears the whole framebuffer to one color, spec.md §4.8
// syscall 21.
func (g *GraphicsConsole) FillRGB(rgb uint32) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.putPixel(x, y, rgb)
		}
	}
}

// PutPixel writes a single framebuffer pixel, spec.md §4.8 syscall 22.
func (g *GraphicsConsole) PutPixel(x, y int, rgb uint32) { g.putPixel(x, y, rgb) }

// BlitPixels copies a w*h RGB pixel buffer into the framebuffer's
// top-left corner, spec.md §4.8 syscall 23.
func (g *GraphicsConsole) BlitPixels(w, h int, pixels []uint32) {
	for y := 0; y < h && y < g.height; y++ {
		for x := 0; x < w && x < g.width; x++ {
			idx := y*w + x
			if idx >= len(pixels) {
				return
			}
			g.putPixel(x, y, pixels[idx])
		}
	}
}

// Dimensions returns the framebuffer's pixel width and height, spec.md
// §4.8 syscall 20.
func (g *GraphicsConsole) Dimensions() (int, int) { return g.width, g.height }
