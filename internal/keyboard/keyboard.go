// Package keyboard decodes PS/2 scancodes delivered on IRQ1 into a
// single-producer/single-consumer ring buffer, per spec.md §4.6. The
// device shape (an ioport.Device driven by IRQ plumbing) follows the
// same address-indexed dispatch the teacher's emu/device.Device
// interface establishes; the ring buffer itself is the fixed-capacity,
// one-slot-wasted FIFO spec.md §4.2 specifies, with no teacher
// precedent since the S/370 emulator has no interactive input device.
package keyboard

import (
	"github.com/asos-project/asos/internal/devlog"
	"github.com/asos-project/asos/internal/ioport"
)

var dbg = devlog.New("keyboard")

// SetDebug enables/disables this package's devlog tracing of decoded
// scancodes.
func SetDebug(mask int) { dbg.SetMask(mask) }

// Scancode port, spec.md §6.
const DataPort uint16 = 0x60

const (
	e0Prefix  uint8 = 0xE0
	shiftLeft uint8 = 0x2A
	shiftRight uint8 = 0x36
)

// Synthetic arrow-key byte codes, spec.md §4.6.
const (
	ArrowUp    uint8 = 0x90
	ArrowDown  uint8 = 0x91
	ArrowLeft  uint8 = 0x92
	ArrowRight uint8 = 0x93
)

// Known E0-prefixed extended scancodes for the arrow cluster.
var extended = map[uint8]uint8{
	0x48: ArrowUp,
	0x50: ArrowDown,
	0x4B: ArrowLeft,
	0x4D: ArrowRight,
}

// ringSize must be a power of two; one slot is always left empty to
// disambiguate full from empty, per spec.md §4.2.
const ringSize = 128

// ring is the lock-free single-producer/single-consumer FIFO: IRQ1
// advances head, getchar/trygetchar advance tail.
type ring struct {
	buf        [ringSize]uint8
	head, tail uint32
}

func (r *ring) full() bool {
	return (r.head+1)%ringSize == r.tail
}

func (r *ring) empty() bool {
	return r.head == r.tail
}

func (r *ring) push(b uint8) {
	if r.full() {
		return // documented behavior: additional keys are dropped, spec.md §8
	}
	r.buf[r.head] = b
	r.head = (r.head + 1) % ringSize
}

func (r *ring) pop() (uint8, bool) {
	if r.empty() {
		return 0, false
	}
	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % ringSize
	return b, true
}

// Keyboard is the IRQ1 scancode decoder and key ring.
type Keyboard struct {
	r        ring
	e0       bool
	shift    bool
	shifted  [256]uint8
	unshifted [256]uint8
}

// New builds a Keyboard with the US layout map installed and registers
// it on bus at the scancode port.
func New(bus *ioport.Bus) *Keyboard {
	k := &Keyboard{}
	installUSLayout(k)
	bus.Register(DataPort, 1, k)
	return k
}

// In8 always returns 0. In this simulation, HandleIRQ (not port reads)
// is how scancodes actually arrive; In8 is present only to satisfy
// ioport.Device.
func (k *Keyboard) In8(uint16) uint8 { return 0 }
func (k *Keyboard) Out8(uint16, uint8) {}
func (k *Keyboard) In16(uint16) uint16 { return 0 }
func (k *Keyboard) Out16(uint16, uint16) {}

// HandleIRQ processes one scancode byte read from the controller,
// per spec.md §4.6.
func (k *Keyboard) HandleIRQ(scancode uint8) {
	if scancode == e0Prefix {
		k.e0 = true
		return
	}

	release := scancode&0x80 != 0
	code := scancode &^ 0x80

	if code == shiftLeft || code == shiftRight {
		k.shift = !release
		k.e0 = false
		return
	}

	if release {
		k.e0 = false
		return
	}

	if k.e0 {
		if b, ok := extended[code]; ok {
			dbg.Debugf(devlog.MaskIRQ, "extended scancode=%#x -> %#x", code, b)
			k.r.push(b)
		}
		k.e0 = false
		return
	}

	var b uint8
	if k.shift {
		b = k.shifted[code]
	} else {
		b = k.unshifted[code]
	}
	if b != 0 {
		dbg.Debugf(devlog.MaskIRQ, "scancode=%#x shift=%v -> %q", code, k.shift, b)
		k.r.push(b)
	}
}

// TryGetChar returns the next decoded key, or (0, false) if the ring is
// empty, per spec.md §4.6's trygetchar.
func (k *Keyboard) TryGetChar() (uint8, bool) {
	return k.r.pop()
}
