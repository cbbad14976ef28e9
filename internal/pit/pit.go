// Package pit simulates the programmable interval timer: channel 0
// programmed in rate-generator mode feeds a monotonic tick counter and
// raises IRQ0, per spec.md §4.3 and §6. The goroutine-plus-ticker shape
// is grounded on the teacher's emu/timer/timer.go, repurposed from a
// fixed 5ms S/370 clock pulse to a configurable-Hz PC PIT whose divisor
// is programmed over the simulated 0x40/0x43 ports.
package pit

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asos-project/asos/internal/ioport"
)

// Port addresses, spec.md §6.
const (
	ModePort    uint16 = 0x43
	Channel0Port uint16 = 0x40

	// baseFreq is the PIT's real crystal-derived frequency; the
	// programmed rate is baseFreq / divisor.
	baseFreq = 1193182
)

// DefaultHz is the rate kernel entry programs the PIT to, spec.md §4.3.
const DefaultHz = 100

// PIT is the simulated timer channel.
type PIT struct {
	mu       sync.Mutex
	divisor  uint16
	loByte   bool // next Channel0Port write is the low divisor byte
	hz       int
	ticks    uint64
	ticker   *time.Ticker
	done     chan struct{}
	running  bool
	raiseIRQ func()
}

// New creates a PIT programmed at DefaultHz and registers its ports on
// bus.
func New(bus *ioport.Bus) *PIT {
	p := &PIT{hz: DefaultHz, divisor: baseFreq / DefaultHz, done: make(chan struct{})}
	bus.Register(ModePort, 1, p)
	bus.Register(Channel0Port, 1, p)
	return p
}

// In8 reads from the timer's ports. The mode port is write-only on real
// hardware; the data port is not read back by any syscall in spec.md.
func (p *PIT) In8(uint16) uint8 { return 0 }

// Out8 programs the timer: writing 0x36 to ModePort (rate-generator,
// binary, both bytes) starts a new divisor load; the next two Out8s to
// Channel0Port are the low then high divisor bytes, per spec.md §6.
func (p *PIT) Out8(port uint16, v uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch port {
	case ModePort:
		p.loByte = true
	case Channel0Port:
		if p.loByte {
			p.divisor = uint16(v)
			p.loByte = false
		} else {
			p.divisor |= uint16(v) << 8
			if p.divisor != 0 {
				p.hz = baseFreq / int(p.divisor)
				p.reprogramLocked()
			}
		}
	}
}

func (p *PIT) In16(port uint16) uint16     { return uint16(p.In8(port)) }
func (p *PIT) Out16(port uint16, v uint16) { p.Out8(port, uint8(v)) }

func (p *PIT) reprogramLocked() {
	if p.ticker != nil {
		p.ticker.Reset(period(p.hz))
	}
}

func period(hz int) time.Duration {
	if hz <= 0 {
		hz = DefaultHz
	}
	return time.Second / time.Duration(hz)
}

// Start begins delivering ticks, calling raiseIRQ (wired to IRQ0) once
// per tick after incrementing the tick counter.
func (p *PIT) Start(raiseIRQ func()) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.raiseIRQ = raiseIRQ
	p.ticker = time.NewTicker(period(p.hz))
	p.done = make(chan struct{})
	p.running = true
	ticker := p.ticker
	done := p.done
	p.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				atomic.AddUint64(&p.ticks, 1)
				if p.raiseIRQ != nil {
					p.raiseIRQ()
				}
			case <-done:
				return
			}
		}
	}()
}

// Stop halts the ticking goroutine.
func (p *PIT) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	close(p.done)
	p.ticker.Stop()
	slog.Info("pit: stopped", "ticks", atomic.LoadUint64(&p.ticks))
}

// Ticks returns the current monotonic tick count.
func (p *PIT) Ticks() uint64 {
	return atomic.LoadUint64(&p.ticks)
}

// Hz returns the currently programmed frequency.
func (p *PIT) Hz() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hz
}
