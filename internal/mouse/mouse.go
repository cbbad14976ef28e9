// Package mouse assembles PS/2 mouse packets delivered on IRQ12 and
// tracks the pointer's position, buttons, and cursor painter, per
// spec.md §4.7. Its device shape follows the same ioport.Device
// registration pattern as internal/keyboard; the sequence-counter
// protection around the shared (x, y, buttons) triple resolves spec.md
// §9's torn-read Open Question, since this simulation has no
// interrupt-masked critical section to rely on the way real hardware
// would.
package mouse

import (
	"sync/atomic"

	"github.com/asos-project/asos/internal/devlog"
)

var dbg = devlog.New("mouse")

// SetDebug enables/disables this package's devlog tracing of assembled
// packets.
func SetDebug(mask int) { dbg.SetMask(mask) }

// Device command bytes, spec.md §4.7.
const (
	cmdSetDefaults  uint8 = 0xF6
	cmdEnableReport uint8 = 0xF4
	ack             uint8 = 0xFA
)

const syncBit = 0x08

// Mouse holds PS/2 packet assembly state and the last decoded sample.
type Mouse struct {
	packet  [3]uint8
	idx     int
	maxX    int32
	maxY    int32

	seq     uint64 // even: stable; odd: a writer is mid-update (spec.md §9)
	x, y    int32
	buttons uint8

	enabled bool
	visible bool
	dirty   bool // painter needs to run
}

// New returns a Mouse clamped to the half-open [0, maxX) x [0, maxY)
// bounding box (the framebuffer or text-console dimensions).
func New(maxX, maxY int32) *Mouse {
	return &Mouse{maxX: maxX, maxY: maxY}
}

// Init drives the device side of the PS/2 initialization handshake,
// spec.md §4.7 steps 3-4 (set defaults, enable reporting); the
// controller-side steps (enable aux port, config byte) are not
// simulated. cmd is how bytes are written to the aux device; it
// returns the device's ACK/response byte.
func (m *Mouse) Init(cmd func(uint8) uint8) error {
	if r := cmd(cmdSetDefaults); r != ack {
		return errUnexpectedResponse(r)
	}
	if r := cmd(cmdEnableReport); r != ack {
		return errUnexpectedResponse(r)
	}
	m.enabled = true
	return nil
}

type errUnexpectedResponse uint8

func (e errUnexpectedResponse) Error() string {
	return "mouse: unexpected device response"
}

// HandleByte feeds one byte drained from the PS/2 output buffer during
// IRQ12, per spec.md §4.7's packet assembly.
func (m *Mouse) HandleByte(b uint8) {
	if m.idx == 0 && b&syncBit == 0 {
		return // not a sync byte; discard and resync
	}
	m.packet[m.idx] = b
	m.idx++
	if m.idx < 3 {
		return
	}
	m.idx = 0
	m.commit()
}

func (m *Mouse) commit() {
	dx := int32(int8(m.packet[1]))
	dy := -int32(int8(m.packet[2])) // PS/2 reports positive-up; ASOS wants positive-down

	atomic.AddUint64(&m.seq, 1) // mark odd: update in progress

	x := m.x + dx
	y := m.y + dy
	x = clamp(x, 0, m.maxX-1)
	y = clamp(y, 0, m.maxY-1)
	m.x, m.y = x, y
	m.buttons = m.packet[0] & 0x07
	m.dirty = true

	atomic.AddUint64(&m.seq, 1) // mark even: update complete
	dbg.Debugf(devlog.MaskIRQ, "packet dx=%d dy=%d x=%d y=%d buttons=%#x", dx, dy, x, y, m.buttons)
}

func clamp(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Get returns a torn-free snapshot of (x, y, buttons), spinning past
// any in-progress HandleByte commit via the sequence counter.
func (m *Mouse) Get() (x, y int32, buttons uint8) {
	for {
		s1 := atomic.LoadUint64(&m.seq)
		if s1&1 != 0 {
			continue
		}
		x, y, buttons = m.x, m.y, m.buttons
		s2 := atomic.LoadUint64(&m.seq)
		if s1 == s2 {
			return
		}
	}
}

// SetVisible toggles whether the cursor painter draws, spec.md §4.8
// syscall 18.
func (m *Mouse) SetVisible(v bool) { m.visible = v }

// Visible reports whether the painter is enabled to draw.
func (m *Mouse) Visible() bool { return m.visible }

// TakeDirty reports and clears whether the pointer moved since the
// last painter pass.
func (m *Mouse) TakeDirty() bool {
	d := m.dirty
	m.dirty = false
	return d
}
