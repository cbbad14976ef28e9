// Command asos boots the ASOS kernel simulation. Flag parsing, logger
// wiring, and the signal-driven shutdown sequence are grounded on the
// teacher's main.go (getopt.StringLong/BoolLong option declarations,
// a log/slog.Logger built over a custom Handler, and a SIGINT/SIGTERM
// signal.Notify loop) adapted from launching the S/370 emulator's CPU
// and telnet servers to launching ASOS's kernel goroutines.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/asos-project/asos/internal/ata"
	"github.com/asos-project/asos/internal/devlog"
	"github.com/asos-project/asos/internal/kernel"
	"github.com/asos-project/asos/internal/kernlog"
	"github.com/asos-project/asos/internal/keyboard"
	"github.com/asos-project/asos/internal/mouse"
	"github.com/asos-project/asos/internal/pic"
	_ "github.com/asos-project/asos/internal/shell" // registers "terminal.bin"
)

func main() {
	optDisk := getopt.StringLong("disk", 'd', "asos.img", "Disk image file")
	optLog := getopt.StringLong("log", 'l', "", "Log file (stderr if empty)")
	optWidth := getopt.IntLong("width", 'w', 0, "Graphics width (0 for text mode)")
	optHeight := getopt.IntLong("height", 0, 0, "Graphics height (0 for text mode)")
	optHz := getopt.IntLong("hz", 0, 100, "Timer frequency in Hz")
	optDebug := getopt.BoolLong("debug", 'D', "Enable debug logging")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	out := os.Stderr
	if *optLog != "" {
		f, err := os.Create(*optLog)
		if err != nil {
			slog.Error("asos: cannot create log file", "path", *optLog, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	level := slog.LevelInfo
	if *optDebug {
		level = slog.LevelDebug
		pic.SetDebug(devlog.MaskIRQ | devlog.MaskState)
		keyboard.SetDebug(devlog.MaskIRQ)
		mouse.SetDebug(devlog.MaskIRQ)
		ata.SetDebug(devlog.MaskIO)
	}
	logger := slog.New(kernlog.NewHandler(out, level, *optDebug))
	slog.SetDefault(logger)

	logger.Info("asos: booting")

	k := &kernel.Kernel{}
	cfg := kernel.DefaultConfig(*optDisk)
	cfg.GraphicsWidth = *optWidth
	cfg.GraphicsHeight = *optHeight
	cfg.TimerHz = *optHz
	if err := cfg.Validate(); err != nil {
		logger.Error("asos: invalid configuration", "err", err)
		os.Exit(1)
	}

	if err := k.Boot(cfg); err != nil {
		logger.Error("asos: boot failed", "err", err)
		os.Exit(1)
	}
	defer k.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("asos: shutdown signal received")
		cancel()
	}()

	if err := k.Run(ctx); err != nil {
		logger.Error("asos: kernel exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("asos: shut down cleanly")
}
