// Package cpu describes the processor and I/O port primitives the kernel is
// built on. On the hosted build both are provided by the simulated PC board
// in kernel/hal/pc.
package cpu

// PortIO provides access to the x86 I/O port address space.
type PortIO interface {
	// PortReadByte reads a uint8 value from the requested port.
	PortReadByte(port uint16) uint8

	// PortWriteByte writes a uint8 value to the requested port.
	PortWriteByte(port uint16, val uint8)
}

// Core exposes the processor state the kernel manipulates directly.
type Core interface {
	// EnableInterrupts sets the IF flag. Pending interrupts may be
	// delivered before EnableInterrupts returns.
	EnableInterrupts()

	// DisableInterrupts clears the IF flag.
	DisableInterrupts()

	// InterruptsEnabled returns the current value of the IF flag.
	InterruptsEnabled() bool

	// Halt stops instruction execution until the next interrupt. Halting
	// with interrupts disabled stops the processor for good.
	Halt()
}

// Machine bundles the port space and the processor.
type Machine interface {
	PortIO
	Core
}

const (
	// FlagIF is the interrupt-enable bit of EFLAGS.
	FlagIF uint32 = 1 << 9

	// FlagReserved is EFLAGS bit 1 which always reads as 1.
	FlagReserved uint32 = 1 << 1

	// KernelCodeSelector is the flat ring-0 code segment installed by the
	// boot loader.
	KernelCodeSelector uint16 = 0x08

	// KernelDataSelector is the flat ring-0 data segment installed by the
	// boot loader.
	KernelDataSelector uint16 = 0x10

	// postPort is the POST diagnostics port. Writing to it takes roughly
	// 1us and is used as an I/O delay.
	postPort uint16 = 0x80
)

// IOWait gives slow devices (e.g. the 8259) time to latch the previous write.
func IOWait(io PortIO) {
	io.PortWriteByte(postPort, 0)
}

// Flags returns the EFLAGS value that corresponds to the IF state of core.
func Flags(core Core) uint32 {
	if core.InterruptsEnabled() {
		return FlagReserved | FlagIF
	}
	return FlagReserved
}

// RestoreFlags sets the IF state of core from an EFLAGS value.
func RestoreFlags(core Core, eflags uint32) {
	if eflags&FlagIF != 0 {
		core.EnableInterrupts()
		return
	}
	core.DisableInterrupts()
}
