package ata

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestImage(t *testing.T, sectors int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(int64(sectors) * SectorSize); err != nil {
		t.Fatal(err)
	}
	f.Close()
	return path
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	path := newTestImage(t, 64)
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer d.Close()

	sector := make([]byte, SectorSize)
	copy(sector, "hello sector")
	if err := d.WriteSector(5, sector); err != nil {
		t.Fatalf("WriteSector() error = %v", err)
	}

	got := make([]byte, SectorSize)
	if err := d.ReadSector(5, got); err != nil {
		t.Fatalf("ReadSector() error = %v", err)
	}
	if string(got[:12]) != "hello sector" {
		t.Fatalf("got %q, want %q", got[:12], "hello sector")
	}
}

func TestOutOfRangeLBARejected(t *testing.T) {
	path := newTestImage(t, 4)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	buf := make([]byte, SectorSize)
	if err := d.ReadSector(100, buf); err != ErrOutOfRange {
		t.Fatalf("ReadSector(100) error = %v, want ErrOutOfRange", err)
	}
	if err := d.WriteSector(100, buf); err != ErrOutOfRange {
		t.Fatalf("WriteSector(100) error = %v, want ErrOutOfRange", err)
	}
}

func TestSectorsReportsImageSize(t *testing.T) {
	path := newTestImage(t, 100)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if d.Sectors() != 100 {
		t.Fatalf("Sectors() = %d, want 100", d.Sectors())
	}
}

func TestReadSectorTimesOutWhenStalled(t *testing.T) {
	path := newTestImage(t, 64)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	d.SimulateStall(1)
	buf := make([]byte, SectorSize)
	if err := d.ReadSector(5, buf); err != ErrTimeout {
		t.Fatalf("ReadSector() error = %v, want ErrTimeout", err)
	}

	// The stall was consumed; the next read succeeds normally.
	if err := d.ReadSector(5, buf); err != nil {
		t.Fatalf("ReadSector() after stall consumed, error = %v, want nil", err)
	}
}

func TestWriteSectorTimesOutWhenStalled(t *testing.T) {
	path := newTestImage(t, 64)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	d.SimulateStall(1)
	buf := make([]byte, SectorSize)
	if err := d.WriteSector(5, buf); err != ErrTimeout {
		t.Fatalf("WriteSector() error = %v, want ErrTimeout", err)
	}
}

func TestSetDebugEnablesTracingWithoutPanicking(t *testing.T) {
	path := newTestImage(t, 8)
	d, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	SetDebug(^0)
	defer SetDebug(0)
	buf := make([]byte, SectorSize)
	if err := d.WriteSector(0, buf); err != nil {
		t.Fatalf("WriteSector() error = %v", err)
	}
}

func TestOpenRejectsMisalignedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.img")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	f.Truncate(100) // not a multiple of 512
	f.Close()

	if _, err := Open(path); err == nil {
		t.Fatal("expected error opening misaligned image")
	}
}
