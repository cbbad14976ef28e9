package pic

import (
	"testing"

	"github.com/asos-project/asos/internal/devlog"
	"github.com/asos-project/asos/internal/ioport"
)

func TestRemapSetsOffsetsAndSelectiveMask(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)
	p.Remap(0x20, 0x28)

	if p.MasterOffset() != 0x20 || p.SlaveOffset() != 0x28 {
		t.Fatalf("offsets = (%#x, %#x), want (0x20, 0x28)", p.MasterOffset(), p.SlaveOffset())
	}

	for _, irq := range []int{0, 1, 2, 12} {
		if !p.Enabled(irq) {
			t.Errorf("IRQ%d should be enabled after remap", irq)
		}
	}
	if p.Enabled(14) {
		t.Error("IRQ14 must stay masked: disk access is polled, not interrupt-driven")
	}
	if p.Enabled(3) {
		t.Error("IRQ3 should be masked by default")
	}
}

func TestEOISignalsBothChipsForSlaveIRQs(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)
	p.Remap(0x20, 0x28)

	p.EOI(1) // keyboard, master-only
	m, s := p.EOICount()
	if m != 1 || s != 0 {
		t.Fatalf("after EOI(1): master=%d slave=%d, want (1, 0)", m, s)
	}

	p.EOI(12) // mouse, IRQ>=8
	m, s = p.EOICount()
	if m != 2 || s != 1 {
		t.Fatalf("after EOI(12): master=%d slave=%d, want (2, 1)", m, s)
	}
}

func TestSetDebugEnablesTracingWithoutPanicking(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)
	SetDebug(devlog.MaskIRQ | devlog.MaskState)
	defer SetDebug(0)
	p.Remap(0x20, 0x28)
	p.EOI(0)
}

func TestSetMaskGetMaskRoundTrip(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)
	p.SetMask(0xBEEF)
	if got := p.GetMask(); got != 0xBEEF {
		t.Fatalf("GetMask() = %#x, want 0xBEEF", got)
	}
}
