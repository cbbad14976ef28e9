// Package asofs implements ASOS's flat filesystem over a simulated ATA
// drive: a fixed superblock at LBA 50, a 16-entry file table, and
// sector-granularity load/write/enumerate operations, per spec.md
// §4.5 and §6. Its on-disk superblock/file-table load-verify-populate
// shape follows the same pattern the teacher's emu/sys_channel package
// uses for validating a device's control block before acting on it;
// there is no teacher filesystem precedent since the S/370 emulator
// reads raw card/tape images, not a structured FS.
package asofs

import (
	"encoding/binary"
	"errors"
	"log/slog"

	"github.com/asos-project/asos/internal/ata"
	"github.com/asos-project/asos/internal/memory"
)

const (
	SuperblockLBA = 50
	Magic         = 0x41534F46 // "ASOF"
	MaxFiles      = 16
	NameMax       = 16
)

// Negative sentinel return codes, spec.md §4.5's failure handling and
// §4.8's syscall error policy.
const (
	ErrCodeNotFound    int32 = -1
	ErrCodeTableFull   int32 = -2
	ErrCodeBadMagic    int32 = -3
	ErrCodeIO          int32 = -4
	ErrCodeShortBuffer int32 = -5
)

var (
	ErrNotFound  = errors.New("asofs: file not found")
	ErrTableFull = errors.New("asofs: file table full")
	ErrBadMagic  = errors.New("asofs: superblock magic mismatch")
)

// entry describes one file's extent in the flat address space.
type entry struct {
	name     [NameMax]byte
	startLBA uint32
	size     uint32
	used     bool
}

func (e *entry) Name() string {
	n := 0
	for n < len(e.name) && e.name[n] != 0 {
		n++
	}
	return string(e.name[:n])
}

func (e *entry) setName(name string) {
	e.name = [NameMax]byte{}
	copy(e.name[:], name)
}

// superblockSize is the byte layout persisted at SuperblockLBA:
// magic(4) + fileCount(4) + nextFreeLBA(4) + MaxFiles * (NameMax+4+4).
const entryBytes = NameMax + 4 + 4
const superblockSize = 4 + 4 + 4 + MaxFiles*entryBytes

// FS is the mounted, in-memory copy of the superblock and file table.
type FS struct {
	drive       *ata.Drive
	fileCount   uint32
	nextFreeLBA uint32
	entries     [MaxFiles]entry
}

// Load reads and validates the superblock, populating the in-memory
// file table, per spec.md §4.5's load_superblock.
func Load(drive *ata.Drive) (*FS, error) {
	buf := make([]byte, ata.SectorSize)
	if err := drive.ReadSector(SuperblockLBA, buf); err != nil {
		return nil, err
	}
	if superblockSize > len(buf) {
		return nil, errors.New("asofs: superblock layout exceeds one sector")
	}

	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, ErrBadMagic
	}

	fs := &FS{drive: drive}
	fs.fileCount = binary.LittleEndian.Uint32(buf[4:8])
	fs.nextFreeLBA = binary.LittleEndian.Uint32(buf[8:12])

	off := 12
	for i := 0; i < MaxFiles; i++ {
		e := &fs.entries[i]
		copy(e.name[:], buf[off:off+NameMax])
		off += NameMax
		e.startLBA = binary.LittleEndian.Uint32(buf[off : off+4])
		off += 4
		e.size = binary.LittleEndian.Uint32(buf[off : off+4])
		off += 4
		e.used = e.Name() != ""
	}
	return fs, nil
}

// Format initializes a fresh, empty superblock on drive and persists
// it, for first-time disk image setup (not part of spec.md's runtime
// operations, but needed to produce a volume load_superblock can
// accept).
func Format(drive *ata.Drive) (*FS, error) {
	fs := &FS{drive: drive, nextFreeLBA: SuperblockLBA + 1}
	if err := fs.persist(); err != nil {
		return nil, err
	}
	return fs, nil
}

// persist writes the in-memory superblock back to disk.
func (fs *FS) persist() error {
	buf := make([]byte, ata.SectorSize)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], fs.fileCount)
	binary.LittleEndian.PutUint32(buf[8:12], fs.nextFreeLBA)

	off := 12
	for i := 0; i < MaxFiles; i++ {
		e := &fs.entries[i]
		copy(buf[off:off+NameMax], e.name[:])
		off += NameMax
		binary.LittleEndian.PutUint32(buf[off:off+4], e.startLBA)
		off += 4
		binary.LittleEndian.PutUint32(buf[off:off+4], e.size)
		off += 4
	}
	return fs.drive.WriteSector(SuperblockLBA, buf)
}

// Find performs the first-match linear scan spec.md §4.5 specifies.
func (fs *FS) Find(name string) (*entry, bool) {
	for i := range fs.entries {
		if fs.entries[i].used && fs.entries[i].Name() == name {
			return &fs.entries[i], true
		}
	}
	return nil, false
}

func sectorsFor(size uint32) uint32 {
	return (size + ata.SectorSize - 1) / ata.SectorSize
}

// LoadFile reads a file's content into dest, per spec.md §4.5's load:
// whole sectors are read directly; a non-sector-multiple tail is read
// into a scratch buffer and the requested bytes copied out.
func (fs *FS) LoadFile(name string, dest []byte) (int, error) {
	e, ok := fs.Find(name)
	if !ok {
		return 0, ErrNotFound
	}
	n := int(e.size)
	if n > len(dest) {
		n = len(dest)
	}

	full := n / ata.SectorSize
	scratch := make([]byte, ata.SectorSize)
	for i := 0; i < full; i++ {
		if err := fs.drive.ReadSector(e.startLBA+uint32(i), scratch); err != nil {
			return 0, err
		}
		copy(dest[i*ata.SectorSize:(i+1)*ata.SectorSize], scratch)
	}
	rem := n - full*ata.SectorSize
	if rem > 0 {
		if err := fs.drive.ReadSector(e.startLBA+uint32(full), scratch); err != nil {
			return 0, err
		}
		copy(dest[full*ata.SectorSize:n], scratch[:rem])
	}
	return n, nil
}

// appSlotCapacity bounds how many bytes of a program file load into
// the application slot, matching the headroom internal/memory reserves
// past memory.AppSlotAddr.
const appSlotCapacity = 1 << 20

// LoadProgram resolves name against the file table and copies its
// bytes into the application slot at memory.AppSlotAddr, per spec.md
// §4.5's load(name): a missing file or an ATA failure partway through
// the read (spec.md §8 scenario S6) is surfaced as the same error a
// caller of LoadFile would see, before any control transfer to the
// program happens. It returns the number of bytes loaded.
func (fs *FS) LoadProgram(name string) (int, error) {
	if _, ok := fs.Find(name); !ok {
		return 0, ErrNotFound
	}
	buf := make([]byte, appSlotCapacity)
	n, err := fs.LoadFile(name, buf)
	if err != nil {
		return 0, err
	}
	if err := memory.WriteAt(memory.AppSlotAddr, buf[:n]); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteFile implements spec.md §4.5's write: overwrite in place for an
// existing name (no move, no reallocation, no next_free_lba update; only
// the entry's recorded size changes — the clobber hazard documented in
// spec.md §4.4/§9 is intentionally left unguarded), otherwise append at
// nextFreeLBA. Both paths persist the superblock.
func (fs *FS) WriteFile(name string, data []byte) error {
	if e, ok := fs.Find(name); ok {
		if err := fs.writeSectors(e.startLBA, data); err != nil {
			return err
		}
		e.size = uint32(len(data))
		return fs.persist()
	}

	slot := -1
	for i := range fs.entries {
		if !fs.entries[i].used {
			slot = i
			break
		}
	}
	if slot == -1 {
		return ErrTableFull
	}

	start := fs.nextFreeLBA
	if err := fs.writeSectors(start, data); err != nil {
		return err
	}

	e := &fs.entries[slot]
	e.setName(name)
	e.startLBA = start
	e.size = uint32(len(data))
	e.used = true
	fs.fileCount++
	fs.nextFreeLBA += sectorsFor(uint32(len(data)))
	return fs.persist()
}

func (fs *FS) writeSectors(startLBA uint32, data []byte) error {
	n := sectorsFor(uint32(len(data)))
	scratch := make([]byte, ata.SectorSize)
	for i := uint32(0); i < n; i++ {
		clear(scratch)
		lo := i * ata.SectorSize
		hi := lo + ata.SectorSize
		if hi > uint32(len(data)) {
			hi = uint32(len(data))
		}
		copy(scratch, data[lo:hi])
		if err := fs.drive.WriteSector(startLBA+i, scratch); err != nil {
			return err
		}
	}
	return nil
}

// Enumerate copies up to len(names) file names into names, per
// spec.md §4.5's enumerate. Returns the count written.
func (fs *FS) Enumerate(names []string) int {
	n := 0
	for i := range fs.entries {
		if n >= len(names) {
			break
		}
		if fs.entries[i].used {
			names[n] = fs.entries[i].Name()
			n++
		}
	}
	return n
}

// FileCount and NextFreeLBA expose superblock bookkeeping for tests and
// diagnostics.
func (fs *FS) FileCount() uint32   { return fs.fileCount }
func (fs *FS) NextFreeLBA() uint32 { return fs.nextFreeLBA }

// LogError maps an error to its spec.md negative syscall code and logs
// one diagnostic line, per spec.md §4.5's failure handling.
func LogError(op string, err error) int32 {
	code := ErrCodeIO
	switch {
	case errors.Is(err, ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, ErrTableFull):
		code = ErrCodeTableFull
	case errors.Is(err, ErrBadMagic):
		code = ErrCodeBadMagic
	}
	slog.Warn("asofs: operation failed", "op", op, "err", err)
	return code
}
