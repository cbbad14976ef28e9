// Package idt simulates the CPU-level interrupt descriptor table: gate
// installation, exception/IRQ dispatch, and the software-interrupt 0x80
// syscall gate, per spec.md §4.1/§4.10 and §6. The gate descriptor's
// byte layout is grounded on the TamaGo amd64 IRQ code's GateDescriptor
// (Offset1/SegmentSelector/IST/Attributes/Offset2/Offset3/Reserved);
// dispatch itself is a parallel table of Go handler closures rather than
// a real hardware fetch, since nothing in this simulation executes raw
// machine code.
package idt

import (
	"bytes"
	"encoding/binary"
	"log/slog"
)

// Gate descriptor attribute bytes, spec.md §4.1.
const (
	InterruptGateKernel uint8 = 0b10001110 // present, DPL0, 32-bit interrupt gate
	InterruptGateUser   uint8 = 0b11101110 // present, DPL3, 32-bit interrupt gate

	vectors = 256

	// SyscallVector is the software interrupt ASOS user programs raise
	// to reach the kernel, spec.md §4.8.
	SyscallVector = 0x80
)

// GateDescriptor mirrors the CPU's interrupt gate descriptor layout.
// Binary layout only matters if this table is ever serialized out to a
// simulated memory region for a would-be real CPU to walk; ASOS's own
// dispatch never reads these bytes back, but keeping the shape byte
// exact documents the hardware contract this package stands in for.
type GateDescriptor struct {
	Offset1         uint16
	SegmentSelector uint16
	Reserved0       uint8
	Attributes      uint8
	Offset2         uint16
}

// Bytes renders the descriptor in its on-the-wire little-endian form.
func (d *GateDescriptor) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, d)
	return buf.Bytes()
}

// Trapframe is the saved register state a simulated interrupt stub
// hands to a Go handler, standing in for the pushed register frame
// spec.md §4.8 describes for the syscall stub.
type Trapframe struct {
	Vector int
	A, B, C, D uint32
}

// Handler processes one interrupt/exception/syscall trap.
type Handler func(*Trapframe)

// Table is the installed interrupt descriptor table: a parallel set of
// gate descriptors (for bookkeeping/introspection) and Go handlers (for
// actual dispatch).
type Table struct {
	gates    [vectors]GateDescriptor
	handlers [vectors]Handler
	present  [vectors]bool
}

// New returns an empty, uninstalled table.
func New() *Table {
	return &Table{}
}

// SetGate installs handler at vector with the given privilege
// attributes, per spec.md §4.1's set_gate(num, handler_address,
// code_selector, flags).
func (t *Table) SetGate(vector int, attrs uint8, handler Handler) {
	t.gates[vector] = GateDescriptor{SegmentSelector: 1 << 3, Attributes: attrs}
	t.handlers[vector] = handler
	t.present[vector] = true
}

// InstallSyscallGate wires vector 0x80 as a user-accessible gate, per
// spec.md §4.1.
func (t *Table) InstallSyscallGate(handler Handler) {
	t.SetGate(SyscallVector, InterruptGateUser, handler)
}

// Dispatch delivers a trap to its installed handler. Unpopulated
// vectors are logged and otherwise ignored, mirroring a spurious
// interrupt on real hardware.
func (t *Table) Dispatch(tf *Trapframe) {
	if tf.Vector < 0 || tf.Vector >= vectors || !t.present[tf.Vector] {
		slog.Debug("idt: unhandled vector", "vector", tf.Vector)
		return
	}
	t.handlers[tf.Vector](tf)
}

// Int80 is the syscall entry point: it builds a Trapframe for vector
// 0x80 from the four register-convention arguments, dispatches it, and
// returns the value the stub would write back into the accumulator.
func (t *Table) Int80(a, b, c, d uint32) uint32 {
	tf := &Trapframe{Vector: SyscallVector, A: a, B: b, C: c, D: d}
	t.Dispatch(tf)
	return tf.A
}

// Present reports whether a gate has been installed at vector.
func (t *Table) Present(vector int) bool {
	if vector < 0 || vector >= vectors {
		return false
	}
	return t.present[vector]
}
