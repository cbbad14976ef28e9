package console

import (
	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/mouse"
)

const cursorSize = 16

// cursorMask is a 16x16 cursor overlay shaped as a right triangle with
// its corner at the top-left (row y sets columns 0..y): bit set means
// "paint white", per spec.md §4.7's "overlay the 16x16 mask in white".
var cursorMask = func() [cursorSize][cursorSize]bool {
	var m [cursorSize][cursorSize]bool
	for y := 0; y < cursorSize; y++ {
		for x := 0; x <= y && x < cursorSize; x++ {
			m[y][x] = true
		}
	}
	return m
}()

const white = 0xFFFFFF

// Painter draws the PS/2 mouse cursor on a GraphicsConsole, restoring
// the previously covered region before moving, per spec.md §4.7.
type Painter struct {
	gc     *GraphicsConsole
	m      *mouse.Mouse
	saved  [cursorSize][cursorSize]uint32
	havePrior bool
	priorX, priorY int32
	tickCount int
	everyN    int
}

// NewPainter returns a painter that repaints every everyN ticks.
func NewPainter(gc *GraphicsConsole, m *mouse.Mouse, everyN int) *Painter {
	if everyN <= 0 {
		everyN = 1
	}
	return &Painter{gc: gc, m: m, everyN: everyN}
}

// Tick is called from the PIT tick hook, per spec.md §4.7's "painter
// (called from the timer tick)".
func (p *Painter) Tick() {
	p.tickCount++
	if p.tickCount%p.everyN != 0 {
		return
	}
	if !p.m.Visible() {
		return
	}
	p.restore()
	x, y, _ := p.m.Get()
	p.save(x, y)
	p.overlay(x, y)
	p.priorX, p.priorY = x, y
	p.havePrior = true
}

func (p *Painter) restore() {
	if !p.havePrior {
		return
	}
	for dy := 0; dy < cursorSize; dy++ {
		for dx := 0; dx < cursorSize; dx++ {
			p.gc.putPixel(int(p.priorX)+dx, int(p.priorY)+dy, p.saved[dy][dx])
		}
	}
}

func (p *Painter) save(x, y int32) {
	for dy := 0; dy < cursorSize; dy++ {
		for dx := 0; dx < cursorSize; dx++ {
			p.saved[dy][dx] = p.pixelAt(int(x)+dx, int(y)+dy)
		}
	}
}

func (p *Painter) pixelAt(x, y int) uint32 {
	if x < 0 || x >= p.gc.width || y < 0 || y >= p.gc.height {
		return 0
	}
	addr := memory.FramebufferAddr + uint32((y*p.gc.width+x)*4)
	v, err := memory.ReadWord32(addr)
	if err != nil {
		return 0
	}
	return v
}

func (p *Painter) overlay(x, y int32) {
	for dy := 0; dy < cursorSize; dy++ {
		for dx := 0; dx < cursorSize; dx++ {
			if cursorMask[dy][dx] {
				p.gc.putPixel(int(x)+dx, int(y)+dy, white)
			}
		}
	}
}
