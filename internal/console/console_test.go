package console

import (
	"testing"

	"github.com/asos-project/asos/internal/memory"
)

func TestMain_InitMemory(t *testing.T) {
	memory.Init(0)
}

func TestTextConsolePutAndReadBack(t *testing.T) {
	memory.Init(0)
	tc := NewTextConsole()
	tc.Clear()
	tc.PutAt(1, 2, Cell{Char: 'A', Attr: 0x07})

	v, err := memory.ReadWord16(tc.offset(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if uint8(v) != 'A' || uint8(v>>8) != 0x07 {
		t.Fatalf("cell = %#04x, want char 'A' attr 0x07", v)
	}
}

func TestTextConsoleScrollBlanksBottomRow(t *testing.T) {
	memory.Init(0)
	tc := NewTextConsole()
	tc.Clear()
	tc.PutAt(0, 1, Cell{Char: 'X', Attr: 1})
	tc.Scroll()

	v, _ := memory.ReadWord16(tc.offset(0, 0))
	if uint8(v) != 'X' {
		t.Fatalf("row 0 after scroll = %q, want 'X'", uint8(v))
	}
	last, _ := memory.ReadWord16(tc.offset(0, tc.rows-1))
	if last != 0 {
		t.Fatalf("bottom row after scroll = %#04x, want blank", last)
	}
}

func TestGraphicsConsoleDimensionsFromPixelSize(t *testing.T) {
	memory.Init(800 * 600 * 4)
	gc := NewGraphicsConsole(800, 600)
	if gc.Cols() != 100 || gc.Rows() != 37 {
		t.Fatalf("Cols/Rows = (%d, %d), want (100, 37)", gc.Cols(), gc.Rows())
	}
}

func TestGraphicsConsoleFillAndReadPixel(t *testing.T) {
	memory.Init(800 * 600 * 4)
	gc := NewGraphicsConsole(800, 600)
	gc.FillRGB(0x112233)

	addr := memory.FramebufferAddr
	v, err := memory.ReadWord32(addr)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x112233 {
		t.Fatalf("pixel(0,0) = %#x, want 0x112233", v)
	}
}
