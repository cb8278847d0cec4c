// Package keyboard implements a driver for a PS/2 keyboard attached to the
// i8042 controller. Scancodes (set 1) are translated to ASCII in the IRQ1
// handler and queued for ReadChar and ReadLine.
package keyboard

import (
	"claudeos/device"
	"claudeos/kernel"
	"claudeos/kernel/cpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/kfmt"
	"io"
)

const (
	dataPort   uint16 = 0x60
	statusPort uint16 = 0x64

	statusOutputFull uint8 = 0x01

	// maxFlush bounds the number of stale bytes drained during init.
	maxFlush = 256
)

// PS2 is the keyboard driver.
type PS2 struct {
	machine cpu.Machine

	shift    bool
	ctrl     bool
	alt      bool
	capsLock bool
	extended bool

	keys    ring
	dropped uint32
}

// NewPS2 returns a keyboard driver that talks to the controller through
// machine.
func NewPS2(machine cpu.Machine) *PS2 {
	return &PS2{machine: machine}
}

// Install registers the IRQ1 handler.
func (kb *PS2) Install(idt *gate.Table) {
	idt.HandleInterrupt(gate.IRQ(1), kb.handleIRQ)
	kfmt.Printf("[KERNEL] PS/2 keyboard initialized (IRQ1)\n")
}

func (kb *PS2) handleIRQ(_ *gate.Registers) {
	kb.HandleScancode(kb.machine.PortReadByte(dataPort))
}

// HandleScancode updates the modifier state for a single scancode and queues
// the translated byte, if any.
func (kb *PS2) HandleScancode(code uint8) {
	if code == scanExtended {
		kb.extended = true
		return
	}

	if kb.extended {
		kb.extended = false
		kb.handleExtended(code)
		return
	}

	if code&scanRelease != 0 {
		switch code &^ scanRelease {
		case scanLShift, scanRShift:
			kb.shift = false
		case scanLCtrl:
			kb.ctrl = false
		case scanLAlt:
			kb.alt = false
		}
		return
	}

	switch code {
	case scanLShift, scanRShift:
		kb.shift = true
	case scanLCtrl:
		kb.ctrl = true
	case scanLAlt:
		kb.alt = true
	case scanCapsLock:
		kb.capsLock = !kb.capsLock
	default:
		kb.emit(kb.translate(code))
	}
}

// handleExtended processes the byte following an 0xE0 prefix. Right ctrl and
// right alt share the make codes of their left counterparts.
func (kb *PS2) handleExtended(code uint8) {
	release := code&scanRelease != 0
	switch code &^ scanRelease {
	case scanLCtrl:
		kb.ctrl = !release
	case scanLAlt:
		kb.alt = !release
	default:
		if key, ok := extendedKeys[code]; ok {
			kb.emit(key)
		}
	}
}

func (kb *PS2) translate(code uint8) byte {
	useShift := kb.shift
	if kb.capsLock {
		if lower := asciiLower[code]; lower >= 'a' && lower <= 'z' {
			useShift = !useShift
		}
	}

	ch := asciiLower[code]
	if useShift {
		ch = asciiUpper[code]
	}

	if kb.ctrl && (ch == 'c' || ch == 'C') {
		ch = KeyCtrlC
	}
	return ch
}

func (kb *PS2) emit(ch byte) {
	if ch == 0 {
		return
	}

	if !kb.keys.put(ch) {
		kb.dropped++
	}
}

// HasChar reports whether a byte is waiting in the buffer.
func (kb *PS2) HasChar() bool {
	return !kb.keys.empty()
}

// Buffered returns the number of bytes waiting in the buffer.
func (kb *PS2) Buffered() int {
	return kb.keys.len()
}

// Dropped returns the number of bytes discarded because the buffer was full.
func (kb *PS2) Dropped() uint32 {
	return kb.dropped
}

// ReadChar returns the next buffered byte, halting the processor until one
// arrives. Interrupts must be enabled.
func (kb *PS2) ReadChar() byte {
	for {
		if ch, ok := kb.keys.get(); ok {
			return ch
		}
		kb.machine.Halt()
	}
}

// DriverName returns the name of this driver.
func (kb *PS2) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (kb *PS2) DriverVersion() (uint16, uint16, uint16) {
	return 0, 2, 0
}

// DriverInit drains any bytes left in the controller output buffer.
func (kb *PS2) DriverInit(w io.Writer) *kernel.Error {
	flushed := 0
	for ; flushed < maxFlush && kb.machine.PortReadByte(statusPort)&statusOutputFull != 0; flushed++ {
		kb.machine.PortReadByte(dataPort)
	}

	if flushed != 0 {
		kfmt.Fprintf(w, "discarded %d stale bytes\n", flushed)
	}
	return nil
}

func probeForPS2Keyboard(bus device.Bus) device.Driver {
	return NewPS2(bus)
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderInput,
		Probe: probeForPS2Keyboard,
	})
}
