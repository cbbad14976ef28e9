package syscalls

import (
	"log/slog"

	"github.com/asos-project/asos/internal/app"
	"github.com/asos-project/asos/internal/asofs"
	"github.com/asos-project/asos/internal/console"
	"github.com/asos-project/asos/internal/memory"
)

const maxCString = 256

// syscall 1: write — append NUL-terminated text at pointer a(arg "b")
// to the console. Handler args are named a,b,c,d to match the common
// signature; b carries the pointer here.
func (d *Deps) syscallWrite(_, b, _, _ uint32) uint32 {
	text := readCString(b, maxCString)
	writeString(d.Console, text)
	return 0
}

func writeString(c console.Console, s string) {
	x, y := 0, 0
	if cur, ok := c.(interface{ Cursor() (int, int) }); ok {
		x, y = cur.Cursor()
	}
	for _, ch := range []byte(s) {
		if ch == '\n' || x >= c.Cols() {
			x = 0
			y++
		}
		if y >= c.Rows() {
			c.Scroll()
			y = c.Rows() - 1
		}
		if ch == '\n' {
			continue
		}
		c.PutAt(x, y, console.Cell{Char: ch, Attr: 0x07})
		x++
	}
	c.SetCursor(x, y)
}

// syscall 2: exit.
func (d *Deps) syscallExit(_, _, _, _ uint32) uint32 {
	app.Exit()
	return 0
}

// syscall 3: exec — pointer to "app [arg]"; splits into name + arg and
// jumps via app.ExecSignal. The shell loop (internal/kernel) is what
// actually resolves the new name against the filesystem — via
// asofs.FS.LoadProgram — and dispatches it; this handler only performs
// the control transfer out of the currently running program.
func (d *Deps) syscallExec(_, b, _, _ uint32) uint32 {
	line := readCString(b, maxCString)
	name, arg := splitCommand(line)
	app.SetLastArg(arg)
	app.ExecSignal(name, arg)
	return 0
}

func splitCommand(line string) (name, arg string) {
	for i := 0; i < len(line); i++ {
		if line[i] == ' ' {
			return line[:i], line[i+1:]
		}
	}
	return line, ""
}

// syscall 4: getchar — blocks until a key is available.
func (d *Deps) syscallGetChar(_, _, _, _ uint32) uint32 {
	for {
		if b, ok := d.Keyboard.TryGetChar(); ok {
			return uint32(b)
		}
	}
}

// syscall 5: clear.
func (d *Deps) syscallClear(_, _, _, _ uint32) uint32 {
	d.Console.Clear()
	return 0
}

// syscall 6: writefile — name pointer, data pointer, size.
func (d *Deps) syscallWriteFile(_, name, dataPtr, size uint32) uint32 {
	n := readCString(name, maxCString)
	buf, err := memory.ReadAt(dataPtr, size)
	if err != nil {
		return uint32(asofs.LogError("writefile", err))
	}
	if err := d.FS.WriteFile(n, buf); err != nil {
		return uint32(asofs.LogError("writefile", err))
	}
	return 0
}

// syscall 7: listfiles — print listing to console.
func (d *Deps) syscallListFiles(_, _, _, _ uint32) uint32 {
	names := make([]string, asofs.MaxFiles)
	n := d.FS.Enumerate(names)
	for i := 0; i < n; i++ {
		writeString(d.Console, names[i]+"\n")
	}
	return 0
}

// syscall 8: readfile — name, dest buffer, max bytes.
func (d *Deps) syscallReadFile(_, name, dest, max uint32) uint32 {
	n := readCString(name, maxCString)
	buf := make([]byte, max)
	read, err := d.FS.LoadFile(n, buf)
	if err != nil {
		return uint32(asofs.LogError("readfile", err))
	}
	if err := memory.WriteAt(dest, buf[:read]); err != nil {
		slog.Warn("syscalls: readfile dest write failed", "err", err)
		code := asofs.ErrCodeIO
		return uint32(code)
	}
	return uint32(read)
}

// syscall 9: getarg — copy last-exec argument into out buffer.
func (d *Deps) syscallGetArg(_, out, max, _ uint32) uint32 {
	arg := app.LastArg()
	if uint32(len(arg)) > max {
		arg = arg[:max]
	}
	if err := memory.WriteAt(out, []byte(arg)); err != nil {
		code := asofs.ErrCodeIO
		return uint32(code)
	}
	return uint32(len(arg))
}

// syscall 10: put_at — x, y, packed (attr<<8)|char.
func (d *Deps) syscallPutAt(_, x, y, packed uint32) uint32 {
	d.Console.PutAt(int(x), int(y), console.Cell{Char: uint8(packed), Attr: uint8(packed >> 8)})
	return 0
}

// syscall 11: setcursor.
func (d *Deps) syscallSetCursor(_, x, y, _ uint32) uint32 {
	d.Console.SetCursor(int(x), int(y))
	return 0
}

// syscall 12: trygetchar.
func (d *Deps) syscallTryGetChar(_, _, _, _ uint32) uint32 {
	b, ok := d.Keyboard.TryGetChar()
	if !ok {
		return 0
	}
	return uint32(b)
}

// syscall 13: getticks.
func (d *Deps) syscallGetTicks(_, _, _, _ uint32) uint32 {
	return uint32(d.PIT.Ticks())
}

// syscall 14: sleep — busy-wait until the tick counter advances by N.
func (d *Deps) syscallSleep(_, ticks, _, _ uint32) uint32 {
	target := d.PIT.Ticks() + uint64(ticks)
	for d.PIT.Ticks() < target {
	}
	return 0
}

// syscall 15: getsize — packed (cols<<16)|rows.
func (d *Deps) syscallGetSize(_, _, _, _ uint32) uint32 {
	return uint32(d.Console.Cols())<<16 | uint32(d.Console.Rows())
}

// syscall 16: blit — cell array pointer, count.
func (d *Deps) syscallBlit(_, ptr, count, _ uint32) uint32 {
	cells := make([]console.Cell, count)
	for i := uint32(0); i < count; i++ {
		v, err := memory.ReadWord16(ptr + i*2)
		if err != nil {
			break
		}
		cells[i] = console.Cell{Char: uint8(v), Attr: uint8(v >> 8)}
	}
	d.Console.Blit(cells)
	return 0
}

// syscall 17: mouse_get — pointer to int[3] {x, y, buttons}.
func (d *Deps) syscallMouseGet(_, ptr, _, _ uint32) uint32 {
	x, y, buttons := d.Mouse.Get()
	_ = memory.WriteWord32(ptr, uint32(x))
	_ = memory.WriteWord32(ptr+4, uint32(y))
	_ = memory.WriteWord32(ptr+8, uint32(buttons))
	return 0
}

// syscall 18: mouse_show — toggle cursor painter.
func (d *Deps) syscallMouseShow(_, visible, _, _ uint32) uint32 {
	d.Mouse.SetVisible(visible != 0)
	return 0
}

// syscall 19: enumfiles — out, max_entries, name_max.
func (d *Deps) syscallEnumFiles(_, out, maxEntries, nameMax uint32) uint32 {
	names := make([]string, maxEntries)
	n := d.FS.Enumerate(names)
	for i := 0; i < n; i++ {
		slot := out + uint32(i)*nameMax
		name := names[i]
		if uint32(len(name)) >= nameMax {
			name = name[:nameMax-1]
		}
		b := make([]byte, nameMax)
		copy(b, name)
		_ = memory.WriteAt(slot, b)
	}
	return uint32(n)
}

// syscall 20: gfx_info — 0 if no graphics; else packed (w<<16)|h.
func (d *Deps) syscallGfxInfo(_, _, _, _ uint32) uint32 {
	if d.Graphics == nil {
		return 0
	}
	w, h := d.Graphics.Dimensions()
	return uint32(w)<<16 | uint32(h)
}

// syscall 21: gfx_clear — fill framebuffer with RGB.
func (d *Deps) syscallGfxClear(_, rgb, _, _ uint32) uint32 {
	if d.Graphics == nil {
		return 0
	}
	d.Graphics.FillRGB(rgb)
	return 0
}

// syscall 22: gfx_putpixel — x, y, RGB.
func (d *Deps) syscallGfxPutPixel(_, x, y, rgb uint32) uint32 {
	if d.Graphics == nil {
		return 0
	}
	d.Graphics.PutPixel(int(x), int(y), rgb)
	return 0
}

// syscall 23: gfx_blit — pointer to w*h RGB pixels. Width/height are
// taken from the framebuffer's own dimensions, since spec.md's pointer
// argument carries only the pixel data.
func (d *Deps) syscallGfxBlit(_, ptr, _, _ uint32) uint32 {
	if d.Graphics == nil {
		return 0
	}
	w, h := d.Graphics.Dimensions()
	pixels := make([]uint32, w*h)
	for i := range pixels {
		v, err := memory.ReadWord32(ptr + uint32(i)*4)
		if err != nil {
			break
		}
		pixels[i] = v
	}
	d.Graphics.BlitPixels(w, h, pixels)
	return 0
}
