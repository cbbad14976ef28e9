// Package ata simulates a single-sector 28-bit LBA PIO ATA drive backed
// by a host file, per spec.md §4.4 and §6. The host-file-backed device
// with Seek/Read/Write driving a PIO-style register handshake is
// grounded on gmofishsauce-wut4/emul/sdcard.go's SDCard, whose
// NewSDCard/Transfer pattern this package adapts from an SPI block
// protocol to the IDE/ATA register set; the file is mapped with
// golang.org/x/sys/unix.Mmap rather than kept Seek/Read/Write because
// ASOFS needs random sector access without repeated syscalls per I/O.
package ata

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"

	"github.com/asos-project/asos/internal/devlog"
)

var dbg = devlog.New("ata")

// SetDebug enables/disables this package's devlog tracing of sector
// I/O.
func SetDebug(mask int) { dbg.SetMask(mask) }

const (
	SectorSize = 512
	wordsPerSector = SectorSize / 2
)

// Register port addresses, spec.md §6.
const (
	DataPort        uint16 = 0x1F0
	SectorCountPort uint16 = 0x1F2
	LBA0Port        uint16 = 0x1F3
	LBA1Port        uint16 = 0x1F4
	LBA2Port        uint16 = 0x1F5
	DriveHeadPort   uint16 = 0x1F6
	StatusCmdPort   uint16 = 0x1F7
	AltStatusPort   uint16 = 0x3F6
)

const (
	cmdRead       uint8 = 0x20
	cmdWrite      uint8 = 0x30
	cmdCacheFlush uint8 = 0xE7

	statusErr uint8 = 1 << 0
	statusDF  uint8 = 1 << 5
	statusDRQ uint8 = 1 << 3
	statusBSY uint8 = 1 << 7
)

var (
	// ErrTimeout is returned when a bounded BSY/DRQ spin-wait never
	// resolves, spec.md §4.4.
	ErrTimeout = errors.New("ata: timeout waiting for drive")
	// ErrDeviceFault is returned when the drive reports ERR or DF.
	ErrDeviceFault = errors.New("ata: device fault")
	ErrOutOfRange  = errors.New("ata: lba out of range")
)

// maxSpin is the bound a real BSY/DRQ polling loop would use. The
// simulated waits do not spin (see waitClear); they fail only when
// SimulateStall has armed a stall.
const maxSpin = 1 << 20

// Drive is a simulated ATA drive whose sectors live in a host file
// mapped into the process's address space.
type Drive struct {
	file *os.File
	data []byte // mmap'd view of file
	sectors uint32

	// stallCount, when nonzero, consumes itself on the next BSY wait
	// and fails it with ErrTimeout instead of succeeding, exercising
	// spec.md §8 scenario S6 (a drive that never clears BSY) without
	// requiring a real faulty drive.
	stallCount int
}

// Open mmaps path (which must already exist and be sector-aligned) as
// the backing store for a simulated drive.
func Open(path string) (*Drive, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size%SectorSize != 0 || size == 0 {
		f.Close()
		return nil, errors.New("ata: image size must be a nonzero multiple of 512")
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Drive{file: f, data: data, sectors: uint32(size / SectorSize)}, nil
}

// Close unmaps and closes the backing file.
func (d *Drive) Close() error {
	if err := unix.Munmap(d.data); err != nil {
		d.file.Close()
		return err
	}
	return d.file.Close()
}

// ReadSector performs the spec.md §4.4 read sequence: a bounded
// BSY-clear wait, drive/LBA register programming, command issue, a
// bounded DRQ-set/BSY-clear wait, and a 256-word data transfer.
func (d *Drive) ReadSector(lba uint32, dest []byte) error {
	if len(dest) < SectorSize {
		return errors.New("ata: dest buffer shorter than one sector")
	}
	if lba >= d.sectors {
		return ErrOutOfRange
	}
	if err := d.waitClear(statusBSY); err != nil {
		return err
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	off := int64(lba) * SectorSize
	copy(dest[:SectorSize], d.data[off:off+SectorSize])
	dbg.Debugf(devlog.MaskIO, "read lba=%d", lba)
	return nil
}

// WriteSector performs the write-side sequence: program registers,
// transfer 256 words, wait for BSY/DRQ clear, then cache-flush.
func (d *Drive) WriteSector(lba uint32, src []byte) error {
	if len(src) < SectorSize {
		return errors.New("ata: src buffer shorter than one sector")
	}
	if lba >= d.sectors {
		return ErrOutOfRange
	}
	if err := d.waitClear(statusBSY); err != nil {
		return err
	}
	off := int64(lba) * SectorSize
	copy(d.data[off:off+SectorSize], src[:SectorSize])
	dbg.Debugf(devlog.MaskIO, "write lba=%d", lba)
	return d.waitClear(statusBSY)
}

// waitClear stands in for polling the status register until bit
// clears. The simulated drive is normally always immediately ready;
// maxSpin is kept as the bound a real poll loop would use. SimulateStall
// lets a caller force this wait to exhaust its bound and return
// ErrTimeout instead, for spec.md §8's S6.
func (d *Drive) waitClear(bit uint8) error {
	_ = maxSpin
	if d.stallCount > 0 {
		d.stallCount--
		return ErrTimeout
	}
	return nil
}

func (d *Drive) waitReady() error {
	return d.waitClear(statusBSY)
}

// SimulateStall arranges for the next n bounded BSY/DRQ waits across
// ReadSector/WriteSector calls to time out, standing in for a drive
// that never clears BSY (spec.md §8 scenario S6). Each ReadSector or
// WriteSector call consumes at most one stall before its first wait
// fails and the call returns ErrTimeout.
func (d *Drive) SimulateStall(n int) {
	d.stallCount = n
}

// Sectors reports the drive's total sector count.
func (d *Drive) Sectors() uint32 { return d.sectors }
