package console

import (
	"testing"

	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/mouse"
)

func TestPainterDrawsWhenVisible(t *testing.T) {
	memory.Init(800 * 600 * 4)
	gc := NewGraphicsConsole(800, 600)
	m := mouse.New(800, 600)
	m.SetVisible(true)
	m.HandleByte(0x08)
	m.HandleByte(10)
	m.HandleByte(0)

	p := NewPainter(gc, m, 1)
	p.Tick()

	x, y, _ := m.Get()
	v, err := memory.ReadWord32(memory.FramebufferAddr + uint32((int(y)*gc.width+int(x))*4))
	if err != nil {
		t.Fatal(err)
	}
	if v != white {
		t.Fatalf("pixel under cursor = %#x, want white", v)
	}
}

func TestPainterSkipsWhenNotVisible(t *testing.T) {
	memory.Init(800 * 600 * 4)
	gc := NewGraphicsConsole(800, 600)
	m := mouse.New(800, 600)
	m.SetVisible(false)

	p := NewPainter(gc, m, 1)
	p.Tick() // must not panic
}

func TestPainterThrottlesCadence(t *testing.T) {
	memory.Init(800 * 600 * 4)
	gc := NewGraphicsConsole(800, 600)
	m := mouse.New(800, 600)
	m.SetVisible(true)

	p := NewPainter(gc, m, 5)
	p.Tick() // tickCount=1, not a multiple of 5
	if p.havePrior {
		t.Fatal("painter should not have drawn on tick 1 with everyN=5")
	}
}
