package pit

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/asos-project/asos/internal/ioport"
)

func TestTicksAreMonotonicAndCallRaiseIRQ(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)

	// Program a very fast rate so the test doesn't need to wait 10ms ticks.
	p.Out8(ModePort, 0x36)
	divisor := uint16(baseFreq / 2000)
	p.Out8(Channel0Port, uint8(divisor))
	p.Out8(Channel0Port, uint8(divisor>>8))

	var raised int64
	p.Start(func() { atomic.AddInt64(&raised, 1) })
	defer p.Stop()

	deadline := time.Now().Add(time.Second)
	for p.Ticks() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if p.Ticks() < 5 {
		t.Fatalf("Ticks() = %d, want at least 5 within 1s at ~2kHz", p.Ticks())
	}
	if atomic.LoadInt64(&raised) < 5 {
		t.Fatalf("raiseIRQ called %d times, want at least 5", raised)
	}

	last := p.Ticks()
	time.Sleep(10 * time.Millisecond)
	if p.Ticks() < last {
		t.Fatalf("tick counter went backwards: %d -> %d", last, p.Ticks())
	}
}

func TestProgramDivisorChangesHz(t *testing.T) {
	bus := ioport.NewBus()
	p := New(bus)
	if p.Hz() != DefaultHz {
		t.Fatalf("Hz() = %d, want default %d", p.Hz(), DefaultHz)
	}

	p.Out8(ModePort, 0x36)
	p.Out8(Channel0Port, 0x00)
	p.Out8(Channel0Port, 0x10) // divisor = 0x1000

	want := baseFreq / 0x1000
	if p.Hz() != want {
		t.Fatalf("Hz() = %d, want %d", p.Hz(), want)
	}
}
