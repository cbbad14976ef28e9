package ioport

import "testing"

type fakeDevice struct {
	lastOut8  uint8
	lastOut16 uint16
	in8       uint8
	in16      uint16
}

func (f *fakeDevice) In8(uint16) uint8         { return f.in8 }
func (f *fakeDevice) Out8(_ uint16, v uint8)   { f.lastOut8 = v }
func (f *fakeDevice) In16(uint16) uint16       { return f.in16 }
func (f *fakeDevice) Out16(_ uint16, v uint16) { f.lastOut16 = v }

func TestRegisterAndDispatch(t *testing.T) {
	b := NewBus()
	dev := &fakeDevice{in8: 0x42, in16: 0x1234}
	b.Register(0x20, 2, dev)

	if got := b.In8(0x20); got != 0x42 {
		t.Fatalf("In8(0x20) = %#x, want 0x42", got)
	}
	if got := b.In16(0x21); got != 0x1234 {
		t.Fatalf("In16(0x21) = %#x, want 0x1234", got)
	}

	b.Out8(0x20, 0x55)
	if dev.lastOut8 != 0x55 {
		t.Fatalf("Out8 did not reach device: got %#x", dev.lastOut8)
	}
	b.Out16(0x21, 0xAAAA)
	if dev.lastOut16 != 0xAAAA {
		t.Fatalf("Out16 did not reach device: got %#x", dev.lastOut16)
	}
}

func TestUnmappedPortIsHarmless(t *testing.T) {
	b := NewBus()
	if got := b.In8(0x99); got != 0xFF {
		t.Fatalf("In8 on unmapped port = %#x, want 0xFF", got)
	}
	// Must not panic.
	b.Out8(0x99, 1)
	if got := b.In16(0x99); got != 0xFFFF {
		t.Fatalf("In16 on unmapped port = %#x, want 0xFFFF", got)
	}
	b.Out16(0x99, 1)
}
