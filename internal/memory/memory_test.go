package memory

import "testing"

func TestInitSizesForFramebuffer(t *testing.T) {
	Init(1024)
	if Size() < FramebufferAddr+1024 {
		t.Fatalf("Size() = %d, want at least %d", Size(), FramebufferAddr+1024)
	}

	Init(0)
	if Size() != minSize {
		t.Fatalf("Size() = %d, want %d for a zero-size framebuffer", Size(), minSize)
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	Init(0)

	if err := WriteByte(TextBufferAddr, 0x41); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v, err := ReadByte(TextBufferAddr)
	if err != nil || v != 0x41 {
		t.Fatalf("ReadByte = (%#x, %v), want (0x41, nil)", v, err)
	}

	if err := WriteWord16(TextBufferAddr, 0x1234); err != nil {
		t.Fatalf("WriteWord16: %v", err)
	}
	w, err := ReadWord16(TextBufferAddr)
	if err != nil || w != 0x1234 {
		t.Fatalf("ReadWord16 = (%#x, %v), want (0x1234, nil)", w, err)
	}

	if err := WriteWord32(AppSlotAddr, 0xDEADBEEF); err != nil {
		t.Fatalf("WriteWord32: %v", err)
	}
	d, err := ReadWord32(AppSlotAddr)
	if err != nil || d != 0xDEADBEEF {
		t.Fatalf("ReadWord32 = (%#x, %v), want (0xDEADBEEF, nil)", d, err)
	}
}

func TestOutOfRangeRejected(t *testing.T) {
	Init(0)
	if _, err := ReadAt(Size(), 1); err == nil {
		t.Fatal("ReadAt past end of space: want error, got nil")
	}
	if err := WriteAt(Size()-1, []byte{1, 2}); err == nil {
		t.Fatal("WriteAt spanning past end of space: want error, got nil")
	}
}

func TestBulkRoundTrip(t *testing.T) {
	Init(0)
	data := []byte("hello")
	if err := WriteAt(AppSlotAddr, data); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	out, err := ReadAt(AppSlotAddr, uint32(len(data)))
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(out) != "hello" {
		t.Fatalf("ReadAt = %q, want %q", out, "hello")
	}
}
