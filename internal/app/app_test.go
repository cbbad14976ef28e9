package app

import "testing"

func TestRunRecoversExitSignal(t *testing.T) {
	p := Program(func(arg string) {
		Exit()
	})
	sig := Run(p, "")
	if sig.Kind != SignalExit {
		t.Fatalf("sig.Kind = %v, want SignalExit", sig.Kind)
	}
}

func TestRunRecoversExecSignal(t *testing.T) {
	p := Program(func(arg string) {
		ExecSignal("editor.bin", "file.txt")
	})
	sig := Run(p, "")
	if sig.Kind != SignalExec || sig.ExecName != "editor.bin" || sig.ExecArg != "file.txt" {
		t.Fatalf("sig = %+v, want exec(editor.bin, file.txt)", sig)
	}
}

func TestRunReturnsNormallyWithoutSyscall(t *testing.T) {
	p := Program(func(arg string) {})
	sig := Run(p, "")
	if sig.Kind != SignalReturn {
		t.Fatalf("sig.Kind = %v, want SignalReturn", sig.Kind)
	}
}

func TestRunPropagatesOtherPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected non-Signal panic to propagate")
		}
	}()
	Run(func(arg string) { panic("boom") }, "")
}

func TestRegisterAndLookup(t *testing.T) {
	Register("terminal.bin", func(arg string) {})
	p, ok := Lookup("terminal.bin")
	if !ok || p == nil {
		t.Fatal("expected terminal.bin to be registered")
	}
	if _, ok := Lookup("nonexistent.bin"); ok {
		t.Fatal("expected nonexistent.bin to be absent")
	}
}

func TestLastArgRoundTrip(t *testing.T) {
	SetLastArg("file.txt")
	if LastArg() != "file.txt" {
		t.Fatalf("LastArg() = %q, want \"file.txt\"", LastArg())
	}
}
