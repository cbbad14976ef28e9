package mouse

import "testing"

func TestInitDrivesHandshake(t *testing.T) {
	m := New(800, 600)
	var sent []uint8
	err := m.Init(func(b uint8) uint8 {
		sent = append(sent, b)
		return ack
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if len(sent) != 2 || sent[0] != cmdSetDefaults || sent[1] != cmdEnableReport {
		t.Fatalf("sent = %v, want [setDefaults, enableReport]", sent)
	}
	if !m.enabled {
		t.Fatal("enabled should be true after successful Init")
	}
}

func TestInitFailsOnBadAck(t *testing.T) {
	m := New(800, 600)
	err := m.Init(func(uint8) uint8 { return 0x00 })
	if err == nil {
		t.Fatal("expected error on unexpected device response")
	}
}

func TestPacketAssemblyDecodesDxDyAndButtons(t *testing.T) {
	m := New(800, 600)
	m.x, m.y = 100, 100

	m.HandleByte(0x08 | 0x01) // sync bit set, left button down
	m.HandleByte(5)           // dx = +5
	m.HandleByte(3)           // dy raw = +3 -> ASOS dy = -3 (positive-down inversion)

	x, y, buttons := m.Get()
	if x != 105 || y != 97 {
		t.Fatalf("Get() = (%d, %d), want (105, 97)", x, y)
	}
	if buttons != 0x01 {
		t.Fatalf("buttons = %#x, want 0x01", buttons)
	}
}

func TestDiscardsWhenSyncBitMissing(t *testing.T) {
	m := New(800, 600)
	m.x, m.y = 50, 50

	m.HandleByte(0x00) // no sync bit: discarded, resync
	m.HandleByte(5)    // would be treated as first byte now; no sync bit either
	if m.idx != 0 {
		t.Fatalf("idx = %d, want 0 (both bytes rejected for missing sync bit)", m.idx)
	}
	x, y, _ := m.Get()
	if x != 50 || y != 50 {
		t.Fatalf("position should be unchanged: got (%d, %d)", x, y)
	}
}

func TestClampsToBounds(t *testing.T) {
	m := New(10, 10)
	m.x, m.y = 8, 8

	m.HandleByte(0x08)
	m.HandleByte(100) // far past maxX
	m.HandleByte(0)

	x, y, _ := m.Get()
	if x != 9 || y != 8 {
		t.Fatalf("Get() = (%d, %d), want x clamped to 9 (maxX-1, half-open [0, 10))", x, y)
	}
}

func TestTakeDirtyClearsFlag(t *testing.T) {
	m := New(800, 600)
	m.HandleByte(0x08)
	m.HandleByte(1)
	m.HandleByte(1)

	if !m.TakeDirty() {
		t.Fatal("expected dirty after a completed packet")
	}
	if m.TakeDirty() {
		t.Fatal("TakeDirty should clear the flag")
	}
}

func TestSetDebugEnablesTracingWithoutPanicking(t *testing.T) {
	m := New(800, 600)
	SetDebug(^0)
	defer SetDebug(0)
	m.HandleByte(0x08)
	m.HandleByte(1)
	m.HandleByte(1)
}
