// Package shell implements ASOS's built-in "terminal.bin": the
// single shell program spec.md §4.10 loads at the top of kernel_main's
// shell loop and reloads on every exit. It is a Program in the
// internal/app sense — ordinary Go code that crosses into the kernel
// only through app.Syscall, exactly the way a real user program would
// only cross the boundary through "int 0x80" — rather than a kernel
// built-in, so the same syscall surface every other program would use
// is what drives listing files, running other programs, and reading
// the clock. The command table (name, one-line help, handler) follows
// the teacher's command/parser/commands.go cmdList shape, trimmed to
// this shell's much smaller surface: no device attach/detach/examine,
// no line-completion, since ASOS has no interactive command-line
// editor, only spec.md's getchar/trygetchar primitives.
package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/asos-project/asos/internal/app"
	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/syscalls"
)

func init() {
	app.Register("terminal.bin", Main)
}

// Scratch regions this program uses for syscall argument/result
// buffers, carved out of internal/memory's ShellScratchAddr region.
// A real position-fixed program would keep these on its own data
// segment; ASOS has no per-process memory, so a fixed layout stands
// in for one.
const (
	scratchText  = memory.ShellScratchAddr        // console text, up to 256 bytes
	scratchExec  = memory.ShellScratchAddr + 0x100 // "name arg" line for exec, up to 64 bytes
	scratchOut   = memory.ShellScratchAddr + 0x200 // getarg/readfile destination, up to 64 bytes
	scratchMouse = memory.ShellScratchAddr + 0x300 // mouse_get's int[3] out-param, 12 bytes
)

const banner = "ASOS terminal. Type 'help' for commands.\n"

type command struct {
	name string
	help string
	run  func(args string)
}

// commands is filled in init because cmdHelp itself reads it.
var commands []command

func init() {
	commands = []command{
		{"help", "list available commands", cmdHelp},
		{"list", "list files on the disk", cmdList},
		{"clear", "clear the console", cmdClear},
		{"run", "run <name> [arg] -- exec a program", cmdRun},
		{"ticks", "print the current tick count", cmdTicks},
		{"sleep", "sleep <n> -- busy-wait n ticks", cmdSleep},
		{"size", "print the console grid size", cmdSize},
		{"mouse", "print the current mouse position and buttons", cmdMouse},
		{"arg", "print the last exec argument", cmdArg},
		{"exit", "exit back to the shell loop", cmdExit},
	}
}

// Main is the registered "terminal.bin" Program: a small read-eval
// loop over the syscall surface, replacing the source's compiled
// terminal application with one written directly against spec.md
// §4.8's contract.
func Main(_ string) {
	write(banner)
	for {
		write("> ")
		name, args := splitCommand(readLine())
		if name == "" {
			continue
		}
		dispatch(name, args)
	}
}

func dispatch(name, args string) {
	for _, c := range commands {
		if c.name == name {
			c.run(args)
			return
		}
	}
	write("unknown command: " + name + "\n")
}

// cmdHelp writes one line per command, since a single write syscall
// carries at most 256 bytes of text.
func cmdHelp(string) {
	for _, c := range commands {
		write(fmt.Sprintf("  %-6s %s\n", c.name, c.help))
	}
}

func cmdList(string) {
	call(syscalls.ListFiles, 0, 0, 0)
}

func cmdClear(string) {
	call(syscalls.Clear, 0, 0, 0)
}

// cmdRun implements "run <name> [arg]" by issuing the exec syscall,
// per spec.md §4.8 syscall 3; control never returns here; a SignalExec
// panic unwinds back to the kernel's shell loop, which reloads the
// named program and calls it, per spec.md §9's exit/exec redesign note.
func cmdRun(args string) {
	if strings.TrimSpace(args) == "" {
		write("usage: run <name> [arg]\n")
		return
	}
	writeCString(scratchExec, args)
	call(syscalls.Exec, scratchExec, 0, 0)
}

func cmdTicks(string) {
	ticks := call(syscalls.GetTicks, 0, 0, 0)
	write(fmt.Sprintf("%d\n", ticks))
}

func cmdSleep(args string) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		write("usage: sleep <n>\n")
		return
	}
	call(syscalls.Sleep, uint32(n), 0, 0)
}

func cmdSize(string) {
	packed := call(syscalls.GetSize, 0, 0, 0)
	cols, rows := packed>>16, packed&0xFFFF
	write(fmt.Sprintf("%dx%d\n", cols, rows))
}

func cmdMouse(string) {
	call(syscalls.MouseGet, scratchMouse, 0, 0)
	x, _ := memory.ReadWord32(scratchMouse)
	y, _ := memory.ReadWord32(scratchMouse + 4)
	buttons, _ := memory.ReadWord32(scratchMouse + 8)
	write(fmt.Sprintf("x=%d y=%d buttons=%#x\n", int32(x), int32(y), buttons))
}

func cmdArg(string) {
	n := call(syscalls.GetArg, scratchOut, 64, 0)
	write(readCString(scratchOut, int(n)) + "\n")
}

// cmdExit issues the exit syscall, per spec.md §4.8 syscall 2; like
// cmdRun, control never falls through this function.
func cmdExit(string) {
	call(syscalls.Exit, 0, 0, 0)
}

// call invokes app.Syscall, standing in for the "int 0x80" instruction
// a real user program would execute with the syscall number and up to
// three arguments in registers, per spec.md §4.8.
func call(num, a, b, c uint32) uint32 {
	return app.Syscall(num, a, b, c)
}

func write(s string) {
	writeCString(scratchText, s)
	call(syscalls.Write, scratchText, 0, 0)
}

// readLine blocks on getchar (spec.md §4.8 syscall 4) one byte at a
// time, echoing printable characters and honoring backspace, until
// ENTER.
func readLine() string {
	var sb strings.Builder
	for {
		ch := byte(call(syscalls.GetChar, 0, 0, 0))
		switch {
		case ch == '\r' || ch == '\n':
			write("\n")
			return sb.String()
		case ch == 0x08:
			if s := sb.String(); len(s) > 0 {
				sb.Reset()
				sb.WriteString(s[:len(s)-1])
				write("\b \b")
			}
		case ch >= 32 && ch < 127:
			sb.WriteByte(ch)
			write(string(ch))
		}
	}
}

func splitCommand(line string) (name, args string) {
	line = strings.TrimSpace(line)
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func writeCString(addr uint32, s string) {
	_ = memory.WriteAt(addr, append([]byte(s), 0))
}

func readCString(addr uint32, max int) string {
	buf := make([]byte, 0, max)
	for i := 0; i < max; i++ {
		b, err := memory.ReadByte(addr + uint32(i))
		if err != nil || b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return string(buf)
}
