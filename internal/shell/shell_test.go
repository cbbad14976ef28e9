package shell

import (
	"strings"
	"testing"

	"github.com/asos-project/asos/internal/app"
	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/syscalls"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		line     string
		wantName string
		wantArgs string
	}{
		{"list", "list", ""},
		{"run editor.bin file.txt", "run", "editor.bin file.txt"},
		{"  sleep   5  ", "sleep", "5"},
		{"", "", ""},
	}
	for _, c := range cases {
		name, args := splitCommand(c.line)
		if name != c.wantName || args != c.wantArgs {
			t.Errorf("splitCommand(%q) = (%q, %q), want (%q, %q)", c.line, name, args, c.wantName, c.wantArgs)
		}
	}
}

func TestCStringRoundTrip(t *testing.T) {
	memory.Init(0)
	writeCString(scratchText, "hello")
	if got := readCString(scratchText, 32); got != "hello" {
		t.Fatalf("readCString() = %q, want %q", got, "hello")
	}
}

// fakeSyscalls records every Write call's text and acks everything
// else with 0, standing in for a wired idt.Table in these
// command-dispatch tests.
func fakeSyscalls(t *testing.T) *strings.Builder {
	t.Helper()
	memory.Init(0)
	var out strings.Builder
	prev := app.Syscall
	app.Syscall = func(num, a, b, c uint32) uint32 {
		if num == syscalls.Write {
			out.WriteString(readCString(a, 256))
		}
		return 0
	}
	t.Cleanup(func() { app.Syscall = prev })
	return &out
}

func TestDispatchUnknownCommand(t *testing.T) {
	out := fakeSyscalls(t)
	dispatch("frobnicate", "")
	if !strings.Contains(out.String(), "unknown command: frobnicate") {
		t.Fatalf("output = %q, want it to mention the unknown command", out.String())
	}
}

func TestCmdHelpListsAllCommands(t *testing.T) {
	out := fakeSyscalls(t)
	cmdHelp("")
	for _, c := range commands {
		if !strings.Contains(out.String(), c.name) {
			t.Errorf("help output missing command %q", c.name)
		}
	}
}

func TestCmdRunRequiresArgument(t *testing.T) {
	out := fakeSyscalls(t)
	cmdRun("")
	if !strings.Contains(out.String(), "usage: run") {
		t.Fatalf("output = %q, want a usage message", out.String())
	}
}

func TestCmdSleepRejectsNonNumeric(t *testing.T) {
	out := fakeSyscalls(t)
	cmdSleep("soon")
	if !strings.Contains(out.String(), "usage: sleep") {
		t.Fatalf("output = %q, want a usage message", out.String())
	}
}

func TestTerminalBinIsRegistered(t *testing.T) {
	if _, ok := app.Lookup("terminal.bin"); !ok {
		t.Fatal("expected terminal.bin to be registered by shell's init()")
	}
}
