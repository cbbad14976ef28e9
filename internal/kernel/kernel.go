// Package kernel sequences ASOS's one-shot boot (spec.md §4.10) and
// runs the shell loop that replaces the original source's direct jump
// back into kernel_main on exit. The goroutine fan-out for the
// keyboard scancode stream, the mouse packet stream, and the shell loop
// is grounded on the teacher's main.go, which runs the CPU, the command
// reader, and the telnet servers each as their own goroutine coordinated
// through channels and a shared cancellation signal; ASOS uses
// golang.org/x/sync/errgroup for the equivalent fan-out/fan-in instead
// of the teacher's raw sigChan/msg channel pair, since errgroup gives a
// single first-error/cancel point for those three goroutines. The PIT
// ticks on its own goroutine, started during Boot.
package kernel

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/asos-project/asos/internal/app"
	"github.com/asos-project/asos/internal/asofs"
	"github.com/asos-project/asos/internal/ata"
	"github.com/asos-project/asos/internal/console"
	"github.com/asos-project/asos/internal/idt"
	"github.com/asos-project/asos/internal/ioport"
	"github.com/asos-project/asos/internal/keyboard"
	"github.com/asos-project/asos/internal/memory"
	"github.com/asos-project/asos/internal/mouse"
	"github.com/asos-project/asos/internal/pic"
	"github.com/asos-project/asos/internal/pit"
	"github.com/asos-project/asos/internal/syscalls"
)

// ShellProgram is the program name run (and re-run) at the top of the
// shell loop, per spec.md §4.10 step 8.
const ShellProgram = "terminal.bin"

// Config selects the graphics mode ASOS boots into, standing in for
// the bootloader's VBE mode-info probe, spec.md §4.10 step 1.
type Config struct {
	DiskImagePath string
	GraphicsWidth  int // 0 means text mode
	GraphicsHeight int
	TimerHz        int
}

// Kernel holds every subsystem wired together during Boot.
type Kernel struct {
	Bus      *ioport.Bus
	PIC      *pic.PIC
	PIT      *pit.PIT
	IDT      *idt.Table
	Keyboard *keyboard.Keyboard
	Mouse    *mouse.Mouse
	Console  console.Console
	Graphics *console.GraphicsConsole
	Painter  *console.Painter
	Drive    *ata.Drive
	FS       *asofs.FS
	Syscalls *syscalls.Table

	InputScancodes chan uint8 // fed by the host input source
	InputMouse     chan uint8

	once sync.Once
}

// Boot runs the spec.md §4.10 sequence exactly once (guarded by a
// sync.Once standing in for the source's one-shot init flag, per
// spec.md §9's "proper init once pattern" redesign note).
func (k *Kernel) Boot(cfg Config) error {
	var bootErr error
	k.once.Do(func() {
		bootErr = k.boot(cfg)
	})
	return bootErr
}

func (k *Kernel) boot(cfg Config) error {
	// Step 1: probe graphics, init console.
	fbBytes := uint32(0)
	if cfg.GraphicsWidth > 0 && cfg.GraphicsHeight > 0 {
		fbBytes = uint32(cfg.GraphicsWidth * cfg.GraphicsHeight * 4)
	}
	memory.Init(fbBytes)
	if cfg.GraphicsWidth > 0 {
		gc := console.NewGraphicsConsole(cfg.GraphicsWidth, cfg.GraphicsHeight)
		k.Graphics = gc
		k.Console = gc
	} else {
		k.Console = console.NewTextConsole()
	}

	// Step 2: install IDT, remap PIC.
	k.Bus = ioport.NewBus()
	k.IDT = idt.New()
	k.PIC = pic.New(k.Bus)
	k.PIC.Remap(0x20, 0x28)

	// Step 3: program PIT.
	k.PIT = pit.New(k.Bus)

	// Step 4: IRQ0/IRQ1/IRQ12 are enabled by pic.Remap's selective
	// mask; IRQ14 stays masked (polled disk access).

	// Step 5: install keyboard, mouse, syscalls.
	k.Keyboard = keyboard.New(k.Bus)
	if k.Graphics != nil {
		k.Mouse = mouse.New(int32(cfg.GraphicsWidth), int32(cfg.GraphicsHeight))
		k.Painter = console.NewPainter(k.Graphics, k.Mouse, 4)
	} else {
		k.Mouse = mouse.New(80, 25)
	}

	deps := &syscalls.Deps{
		Console:  k.Console,
		Graphics: k.Graphics,
		Keyboard: k.Keyboard,
		Mouse:    k.Mouse,
		PIT:      k.PIT,
	}

	// Step 7: load superblock.
	drive, err := ata.Open(cfg.DiskImagePath)
	if err != nil {
		return err
	}
	k.Drive = drive
	fs, err := asofs.Load(drive)
	if err != nil {
		slog.Error("kernel: superblock load failed, halting", "err", err)
		return err
	}
	k.FS = fs
	deps.FS = fs

	// The shell is the one program ASOS always ships; seed it into the
	// file table if this disk image doesn't already carry a copy, so
	// the boot-time run() below has a genuine file to find and load
	// rather than only a registry entry.
	if _, ok := fs.Find(ShellProgram); !ok {
		if err := fs.WriteFile(ShellProgram, []byte(ShellProgram)); err != nil {
			slog.Error("kernel: failed to seed shell program", "err", err)
			return err
		}
	}

	k.Syscalls = syscalls.New(deps)
	k.Syscalls.InstallOn(k.IDT)
	app.Syscall = k.IDT.Int80

	// Step 6: enable interrupts — start delivering PIT ticks, which
	// also drives the cursor painter.
	hz := cfg.TimerHz
	if hz <= 0 {
		hz = pit.DefaultHz
	}
	divisor := uint16(1193182 / hz)
	k.Bus.Out8(pit.ModePort, 0x36)
	k.Bus.Out8(pit.Channel0Port, uint8(divisor))
	k.Bus.Out8(pit.Channel0Port, uint8(divisor>>8))
	k.PIT.Start(func() {
		if k.Painter != nil {
			k.Painter.Tick()
		}
	})

	k.InputScancodes = make(chan uint8, 16)
	k.InputMouse = make(chan uint8, 16)

	return nil
}

// Run fans out the keyboard/mouse input pumps and drives the shell
// loop (spec.md §4.10 step 8) until ctx is cancelled.
func (k *Kernel) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case b := <-k.InputScancodes:
				k.Keyboard.HandleIRQ(b)
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case b := <-k.InputMouse:
				k.Mouse.HandleByte(b)
			}
		}
	})

	g.Go(func() error {
		return k.shellLoop(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// shellLoop implements spec.md §4.10 step 8: clear console, run
// ShellProgram, log on return, repeat — replacing the source's direct
// jump back into kernel_main with an ordinary loop over app.Run.
func (k *Kernel) shellLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		k.Console.Clear()
		name := ShellProgram
		arg := ""
		for {
			if _, err := k.FS.LoadProgram(name); err != nil {
				slog.Error("kernel: program load failed", "name", name, "err", err)
				break
			}
			p, ok := app.Lookup(name)
			if !ok {
				slog.Error("kernel: program not found", "name", name)
				break
			}
			sig := app.Run(p, arg)
			if sig.Kind == app.SignalExec {
				name, arg = sig.ExecName, sig.ExecArg
				continue
			}
			break
		}
		slog.Info("kernel: shell restarting")
	}
}

// Shutdown stops the PIT and releases the disk image.
func (k *Kernel) Shutdown() {
	if k.PIT != nil {
		k.PIT.Stop()
	}
	if k.Drive != nil {
		_ = k.Drive.Close()
	}
}
