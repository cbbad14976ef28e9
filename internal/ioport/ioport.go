// Package ioport simulates the x86 I/O port space that the PIC, PIT,
// PS/2 controller, and ATA registers live on. It plays the role the
// teacher's emu/device.Device interface and emu/sys_channel address-indexed
// device table play for S/370 channel devices: a small interface devices
// implement, and one table that routes an address to the device that owns
// it.
package ioport

import "log/slog"

// Device is anything mapped into the port space. Widths not supported by
// a given device should return 0 / discard the write, the same way the
// spec requires only byte and word port access.
type Device interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
	In16(port uint16) uint16
	Out16(port uint16, v uint16)
}

const numPorts = 1 << 16

// Bus is the simulated 64K port space.
type Bus struct {
	devices [numPorts]Device
}

// NewBus returns an empty port bus.
func NewBus() *Bus {
	return &Bus{}
}

// Register attaches dev at every port in [base, base+count).
func (b *Bus) Register(base uint16, count int, dev Device) {
	for i := 0; i < count; i++ {
		b.devices[int(base)+i] = dev
	}
}

// In8 reads one byte from port, logging and returning 0xFF for unmapped
// ports (mirrors spec.md §4.1's "unregistered IRQs print a diagnostic").
func (b *Bus) In8(port uint16) uint8 {
	dev := b.devices[port]
	if dev == nil {
		slog.Debug("ioport: read from unmapped port", "port", port)
		return 0xFF
	}
	return dev.In8(port)
}

// Out8 writes one byte to port.
func (b *Bus) Out8(port uint16, v uint8) {
	dev := b.devices[port]
	if dev == nil {
		slog.Debug("ioport: write to unmapped port", "port", port, "value", v)
		return
	}
	dev.Out8(port, v)
}

// In16 reads one word from port.
func (b *Bus) In16(port uint16) uint16 {
	dev := b.devices[port]
	if dev == nil {
		slog.Debug("ioport: word read from unmapped port", "port", port)
		return 0xFFFF
	}
	return dev.In16(port)
}

// Out16 writes one word to port.
func (b *Bus) Out16(port uint16, v uint16) {
	dev := b.devices[port]
	if dev == nil {
		slog.Debug("ioport: word write to unmapped port", "port", port, "value", v)
		return
	}
	dev.Out16(port, v)
}
