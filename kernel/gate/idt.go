package gate

import (
	"claudeos/kernel/cpu"
	"claudeos/kernel/kfmt"
	"io"
)

const (
	// NumEntries is the number of gates in the interrupt descriptor table.
	NumEntries = 256

	// FlagKernelInterrupt marks a present, DPL 0, 32-bit interrupt gate.
	FlagKernelInterrupt uint8 = 0x8E

	// FlagUserInterrupt marks a present, DPL 3, 32-bit interrupt gate.
	FlagUserInterrupt uint8 = 0xEE

	flagPresent uint8 = 0x80

	// The entry stubs are laid out back to back in the kernel image.
	stubBase uint32 = 0x00101000
	stubSize uint32 = 16

	panicFg uint8 = 15 // white
	panicBg uint8 = 4  // red
)

// Descriptor is an i386 IDT gate descriptor.
type Descriptor struct {
	OffsetLow  uint16
	Selector   uint16
	Zero       uint8
	Flags      uint8
	OffsetHigh uint16
}

// Offset returns the address of the entry point for the gate.
func (d Descriptor) Offset() uint32 {
	return uint32(d.OffsetHigh)<<16 | uint32(d.OffsetLow)
}

// Present returns true if the gate can be invoked.
func (d Descriptor) Present() bool {
	return d.Flags&flagPresent != 0
}

// StubAddress returns the address of the entry stub that pushes the uniform
// frame for vector.
func StubAddress(vector InterruptNumber) uint32 {
	return stubBase + uint32(vector)*stubSize
}

// Handler is a function invoked when an interrupt occurs. Any modifications
// to the supplied Registers are propagated back to the interrupted code.
type Handler func(*Registers)

// Loader is implemented by processors that can make a Table active (LIDT).
type Loader interface {
	LoadIDT(*Table)
}

// EOISender acknowledges a hardware interrupt line.
type EOISender interface {
	SendEOI(irq uint8)
}

// Terminal receives the unhandled exception report.
type Terminal interface {
	io.Writer
	SetColors(fg, bg uint8)
}

var (
	// haltFn is mocked by tests.
	haltFn = func(core cpu.Core) {
		core.DisableInterrupts()
		for {
			core.Halt()
		}
	}
)

// Table is the interrupt descriptor table together with the handler slot
// assigned to each vector.
type Table struct {
	entries  [NumEntries]Descriptor
	handlers [NumEntries]Handler

	core cpu.Core
	eoi  EOISender
	term Terminal
}

// NewTable returns an empty table for the specified processor.
func NewTable(core cpu.Core) *Table {
	return &Table{core: core}
}

// Init clears every gate and handler slot, installs the entry stubs for the
// 32 exception vectors and the 16 remapped IRQ vectors and loads the table.
func (t *Table) Init(loader Loader) {
	for i := 0; i < NumEntries; i++ {
		t.SetGate(InterruptNumber(i), 0, 0, 0)
		t.handlers[i] = nil
	}

	for vector := 0; vector < NumExceptions+NumIRQs; vector++ {
		t.SetGate(InterruptNumber(vector), StubAddress(InterruptNumber(vector)), cpu.KernelCodeSelector, FlagKernelInterrupt)
	}

	loader.LoadIDT(t)
	kfmt.Printf("[KERNEL] IDT initialized (%d entries)\n", NumEntries)
}

// SetGate populates the descriptor for vector.
func (t *Table) SetGate(vector InterruptNumber, base uint32, selector uint16, flags uint8) {
	t.entries[vector] = Descriptor{
		OffsetLow:  uint16(base & 0xFFFF),
		Selector:   selector,
		Flags:      flags,
		OffsetHigh: uint16(base >> 16),
	}
}

// Gate returns the descriptor installed for vector.
func (t *Table) Gate(vector InterruptNumber) Descriptor {
	return t.entries[vector]
}

// HandleInterrupt ensures that the provided handler will be invoked when a
// particular interrupt number occurs. Passing a nil handler clears the slot.
func (t *Table) HandleInterrupt(vector InterruptNumber, handler Handler) {
	t.handlers[vector] = handler
}

// HandlerFor returns the handler registered for vector or nil.
func (t *Table) HandlerFor(vector InterruptNumber) Handler {
	return t.handlers[vector]
}

// SetEOISender sets the controller acknowledged on every IRQ.
func (t *Table) SetEOISender(eoi EOISender) {
	t.eoi = eoi
}

// SetTerminal sets the output used for unhandled exception reports. If no
// terminal is set, reports go to the active kfmt sink.
func (t *Table) SetTerminal(term Terminal) {
	t.term = term
}

// Dispatch routes an interrupt to its handler. It is invoked by the
// processor with a frame pushed by the entry stub for regs.Vector.
func (t *Table) Dispatch(regs *Registers) {
	vector := InterruptNumber(regs.Vector)
	if !t.entries[vector].Present() {
		if vector == GPFException || !t.entries[GPFException].Present() {
			return
		}

		// Error code: IDT flag set, selector index is the vector.
		regs.ErrCode = uint32(vector)<<3 | 2
		regs.Vector = uint32(GPFException)
		vector = GPFException
	}

	if vector >= IRQBase && vector < IRQBase+NumIRQs {
		t.handleIRQ(uint8(vector-IRQBase), regs)
		return
	}

	t.handleException(vector, regs)
}

// handleIRQ acknowledges the interrupt before invoking the handler so that
// a handler which re-enables interrupts does not stall the controller.
func (t *Table) handleIRQ(irq uint8, regs *Registers) {
	if t.eoi != nil {
		t.eoi.SendEOI(irq)
	}

	if handler := t.handlers[IRQ(irq)]; handler != nil {
		handler(regs)
	}
}

func (t *Table) handleException(vector InterruptNumber, regs *Registers) {
	if handler := t.handlers[vector]; handler != nil {
		handler(regs)
		return
	}

	if int(vector) < NumExceptions {
		t.panic(vector, regs.ErrCode)
	}
}

// panic reports an unhandled CPU exception and halts with interrupts
// disabled.
func (t *Table) panic(vector InterruptNumber, errCode uint32) {
	var w io.Writer = kfmt.OutputSink()
	if t.term != nil {
		t.term.SetColors(panicFg, panicBg)
		w = t.term
	}

	kfmt.Fprintf(w, "\n*** KERNEL PANIC ***\n")
	kfmt.Fprintf(w, "Unhandled exception: %s\n", ExceptionName(vector))
	kfmt.Fprintf(w, "Error code: 0x%08X\n", errCode)
	kfmt.Fprintf(w, "\nSystem halted.")

	haltFn(t.core)
}
