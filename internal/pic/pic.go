// Package pic simulates the master/slave 8259A pair: IRQ remap, the
// interrupt mask register, and end-of-interrupt signalling, per
// spec.md §4.2 and §6.
package pic

import (
	"github.com/asos-project/asos/internal/devlog"
	"github.com/asos-project/asos/internal/ioport"
)

var dbg = devlog.New("pic")

// SetDebug enables/disables this package's devlog tracing (remap and
// EOI events), per devlog's per-device mask gating.
func SetDebug(mask int) { dbg.SetMask(mask) }

// Port addresses, spec.md §6.
const (
	MasterCmd  uint16 = 0x20
	MasterData uint16 = 0x21
	SlaveCmd   uint16 = 0xA0
	SlaveData  uint16 = 0xA1
)

const (
	icw1Init  uint8 = 0x11
	icw4_8086 uint8 = 0x01
	eoiCmd    uint8 = 0x20
)

// Initial IRQ mask: IRQ0 (timer), IRQ1 (keyboard), IRQ2 (cascade) and
// IRQ12 (mouse, on the slave) enabled; everything else, including IRQ14
// (disk, which is polled, never interrupt-driven), masked. This is the
// "selective" variant spec.md §9 identifies as the intended contract.
const initialMask uint16 = ^uint16((1 << 0) | (1 << 1) | (1 << 2) | (1 << 12))

// icwStep names where a controller is in the 4-byte init command word
// handshake triggered by writing icw1Init to the command port.
type icwStep int

const (
	icwNone icwStep = iota
	icwWantOffset
	icwWantCascade
	icwWantMode
)

// controller models one 8259A chip (master or slave).
type controller struct {
	cmdPort, dataPort uint16
	mask              uint8
	offset            uint8
	step              icwStep
	eoiCount          int
}

func (c *controller) In8(port uint16) uint8 {
	if port == c.dataPort {
		return c.mask
	}
	return 0
}

func (c *controller) Out8(port uint16, v uint8) {
	switch port {
	case c.cmdPort:
		switch {
		case v == icw1Init:
			c.step = icwWantOffset
		case v == eoiCmd:
			c.eoiCount++
		}
	case c.dataPort:
		switch c.step {
		case icwWantOffset:
			c.offset = v
			c.step = icwWantCascade
		case icwWantCascade:
			c.step = icwWantMode
		case icwWantMode:
			c.step = icwNone
		default:
			c.mask = v
		}
	}
}

func (c *controller) In16(port uint16) uint16      { return uint16(c.In8(port)) }
func (c *controller) Out16(port uint16, v uint16)  { c.Out8(port, uint8(v)) }

// PIC is the remapped master/slave pair.
type PIC struct {
	master, slave controller
}

// New creates a PIC pair and registers it on bus at the standard ports.
func New(bus *ioport.Bus) *PIC {
	p := &PIC{
		master: controller{cmdPort: MasterCmd, dataPort: MasterData},
		slave:  controller{cmdPort: SlaveCmd, dataPort: SlaveData},
	}
	bus.Register(MasterCmd, 1, &p.master)
	bus.Register(MasterData, 1, &p.master)
	bus.Register(SlaveCmd, 1, &p.slave)
	bus.Register(SlaveData, 1, &p.slave)
	return p
}

// Remap drives the ICW1-ICW4 handshake on both chips to move IRQ0-7 to
// masterOffset and IRQ8-15 to slaveOffset (spec.md §4.2/§6), then
// programs the initial selective mask.
func (p *PIC) Remap(masterOffset, slaveOffset uint8) {
	for _, c := range []*controller{&p.master, &p.slave} {
		c.Out8(c.cmdPort, icw1Init) // ICW1: begin init, cascade mode
	}
	p.master.Out8(MasterData, masterOffset) // ICW2
	p.slave.Out8(SlaveData, slaveOffset)     // ICW2
	p.master.Out8(MasterData, 1<<2)          // ICW3: slave lives on IRQ2
	p.slave.Out8(SlaveData, 2)               // ICW3: slave's cascade identity
	p.master.Out8(MasterData, icw4_8086)     // ICW4
	p.slave.Out8(SlaveData, icw4_8086)       // ICW4

	p.master.mask = uint8(initialMask & 0xFF)
	p.slave.mask = uint8(initialMask >> 8)
	dbg.Debugf(devlog.MaskState, "remap master=%#x slave=%#x mask=%#04x", masterOffset, slaveOffset, initialMask)
}

// MasterOffset and SlaveOffset report the vectors IRQ0 and IRQ8 were
// remapped to.
func (p *PIC) MasterOffset() uint8 { return p.master.offset }
func (p *PIC) SlaveOffset() uint8  { return p.slave.offset }

// SetMask installs a new combined 16-bit IRQ mask (bit i = IRQ i).
func (p *PIC) SetMask(mask uint16) {
	p.master.mask = uint8(mask)
	p.slave.mask = uint8(mask >> 8)
}

// GetMask returns the combined 16-bit IRQ mask.
func (p *PIC) GetMask() uint16 {
	return uint16(p.master.mask) | uint16(p.slave.mask)<<8
}

// Enabled reports whether irq is unmasked.
func (p *PIC) Enabled(irq int) bool {
	return p.GetMask()&(1<<uint(irq)) == 0
}

// EOI signals end-of-interrupt for irq: both controllers for irq >= 8,
// otherwise only the master, per spec.md §4.2.
func (p *PIC) EOI(irq int) {
	if irq >= 8 {
		p.slave.Out8(SlaveCmd, eoiCmd)
	}
	p.master.Out8(MasterCmd, eoiCmd)
	dbg.Debugf(devlog.MaskIRQ, "eoi irq=%d", irq)
}

// EOICount returns how many times EOI has reached the master and slave
// chips respectively (test/debug introspection).
func (p *PIC) EOICount() (master, slave int) {
	return p.master.eoiCount, p.slave.eoiCount
}
