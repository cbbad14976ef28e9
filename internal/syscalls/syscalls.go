// Package syscalls implements the software-interrupt 0x80 dispatch
// table, per spec.md §4.8: a fixed array of handler closures indexed
// by syscall number, matching the teacher's address-indexed device
// table shape (internal/ioport.Bus) applied to syscall numbers instead
// of I/O ports. Handlers read/write the caller's arguments through
// internal/memory the same way real user-space pointers would be
// dereferenced, since ASOS syscalls take pointers into the shared
// simulated address space and there is no page-table separation.
package syscalls

import (
	"log/slog"

	"github.com/asos-project/asos/internal/asofs"
	"github.com/asos-project/asos/internal/console"
	"github.com/asos-project/asos/internal/idt"
	"github.com/asos-project/asos/internal/keyboard"
	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/mouse"
	"github.com/asos-project/asos/internal/pit"
)

// Syscall numbers, spec.md §4.8's numbered table.
const (
	Write        = 1
	Exit         = 2
	Exec         = 3
	GetChar      = 4
	Clear        = 5
	WriteFile    = 6
	ListFiles    = 7
	ReadFile     = 8
	GetArg       = 9
	PutAt        = 10
	SetCursor    = 11
	TryGetChar   = 12
	GetTicks     = 13
	Sleep        = 14
	GetSize      = 15
	Blit         = 16
	MouseGet     = 17
	MouseShow    = 18
	EnumFiles    = 19
	GfxInfo      = 20
	GfxClear     = 21
	GfxPutPixel  = 22
	GfxBlit      = 23
)

const tableSize = 64

// unknownResult is the unsigned -1 sentinel spec.md §4.8's error policy
// specifies for unknown/out-of-range syscalls.
const unknownResult = 0xFFFFFFFF

// Handler is one syscall's implementation: up to three packed
// arguments in, one 32-bit result out.
type Handler func(a, b, c, d uint32) uint32

// Deps bundles everything a syscall handler may need to touch.
type Deps struct {
	Console  console.Console
	Graphics *console.GraphicsConsole // nil when running in text mode
	FS       *asofs.FS
	Keyboard *keyboard.Keyboard
	Mouse    *mouse.Mouse
	PIT      *pit.PIT
}

// Table is the installed fixed-size syscall dispatch array.
type Table struct {
	handlers [tableSize]Handler
}

// New builds the full spec.md §4.8 syscall table bound to deps.
func New(deps *Deps) *Table {
	t := &Table{}
	t.handlers[Write] = deps.syscallWrite
	t.handlers[Exit] = deps.syscallExit
	t.handlers[Exec] = deps.syscallExec
	t.handlers[GetChar] = deps.syscallGetChar
	t.handlers[Clear] = deps.syscallClear
	t.handlers[WriteFile] = deps.syscallWriteFile
	t.handlers[ListFiles] = deps.syscallListFiles
	t.handlers[ReadFile] = deps.syscallReadFile
	t.handlers[GetArg] = deps.syscallGetArg
	t.handlers[PutAt] = deps.syscallPutAt
	t.handlers[SetCursor] = deps.syscallSetCursor
	t.handlers[TryGetChar] = deps.syscallTryGetChar
	t.handlers[GetTicks] = deps.syscallGetTicks
	t.handlers[Sleep] = deps.syscallSleep
	t.handlers[GetSize] = deps.syscallGetSize
	t.handlers[Blit] = deps.syscallBlit
	t.handlers[MouseGet] = deps.syscallMouseGet
	t.handlers[MouseShow] = deps.syscallMouseShow
	t.handlers[EnumFiles] = deps.syscallEnumFiles
	t.handlers[GfxInfo] = deps.syscallGfxInfo
	t.handlers[GfxClear] = deps.syscallGfxClear
	t.handlers[GfxPutPixel] = deps.syscallGfxPutPixel
	t.handlers[GfxBlit] = deps.syscallGfxBlit
	return t
}

// Dispatch runs the handler for syscall number a, returning the
// unsigned -1 sentinel for out-of-range or unregistered numbers, per
// spec.md §4.8.
func (t *Table) Dispatch(a, b, c, d uint32) uint32 {
	if a >= tableSize || t.handlers[a] == nil {
		slog.Debug("syscalls: unknown syscall", "num", a)
		return unknownResult
	}
	return t.handlers[a](a, b, c, d)
}

// InstallOn wires this table as the vector-0x80 gate handler, per
// spec.md §4.8's calling convention: the stub carries the syscall
// number in the accumulator (tf.A) and up to three arguments in
// tf.B/C/D, and the return value is written back into tf.A.
func (t *Table) InstallOn(table *idt.Table) {
	table.InstallSyscallGate(func(tf *idt.Trapframe) {
		tf.A = t.Dispatch(tf.A, tf.B, tf.C, tf.D)
	})
}

func readCString(addr uint32, max int) string {
	if addr == 0 {
		return ""
	}
	buf := make([]byte, 0, 64)
	for i := 0; i < max; i++ {
		b, err := memory.ReadByte(addr + uint32(i))
		if err != nil || b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}
