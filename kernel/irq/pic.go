// Package irq drives the cascaded 8259A programmable interrupt controllers
// that route hardware interrupt lines to IDT vectors.
package irq

import (
	"claudeos/kernel/cpu"
	"claudeos/kernel/kfmt"
)

const (
	masterCommand uint16 = 0x20
	masterData    uint16 = 0x21
	slaveCommand  uint16 = 0xA0
	slaveData     uint16 = 0xA1

	icw1Init uint8 = 0x10
	icw1ICW4 uint8 = 0x01
	icw48086 uint8 = 0x01

	// MasterOffset and SlaveOffset are the vectors assigned to IRQ0 and
	// IRQ8 after the remap.
	MasterOffset uint8 = 0x20
	SlaveOffset  uint8 = 0x28

	// CascadeLine is the master input wired to the slave controller.
	CascadeLine uint8 = 2

	eoi uint8 = 0x20
)

// PIC is the master/slave 8259A pair.
type PIC struct {
	io cpu.PortIO
}

// NewPIC returns a PIC driver that talks to the controllers through io.
func NewPIC(io cpu.PortIO) *PIC {
	return &PIC{io: io}
}

// Remap runs the ICW1-ICW4 initialization sequence on both controllers so
// that IRQ0-15 raise vectors 32-47 and then unmasks every line.
func (p *PIC) Remap() {
	p.write(masterCommand, icw1Init|icw1ICW4)
	p.write(slaveCommand, icw1Init|icw1ICW4)

	p.write(masterData, MasterOffset)
	p.write(slaveData, SlaveOffset)

	p.write(masterData, 1<<CascadeLine)
	p.write(slaveData, CascadeLine)

	p.write(masterData, icw48086)
	p.write(slaveData, icw48086)

	// Every line starts unmasked.
	p.write(masterData, 0x00)
	p.write(slaveData, 0x00)

	kfmt.Printf("[KERNEL] PIC remapped (IRQ 0-15 -> INT 32-47)\n")
}

// SendEOI acknowledges irq. Lines served by the slave controller are
// acknowledged on the slave first and then on the master.
func (p *PIC) SendEOI(irq uint8) {
	if irq >= 8 {
		p.io.PortWriteByte(slaveCommand, eoi)
	}
	p.io.PortWriteByte(masterCommand, eoi)
}

// SetMask disables irq.
func (p *PIC) SetMask(irq uint8) {
	port, bit := maskPort(irq)
	p.io.PortWriteByte(port, p.io.PortReadByte(port)|bit)
}

// ClearMask enables irq.
func (p *PIC) ClearMask(irq uint8) {
	port, bit := maskPort(irq)
	p.io.PortWriteByte(port, p.io.PortReadByte(port)&^bit)
}

func maskPort(irq uint8) (uint16, uint8) {
	if irq < 8 {
		return masterData, 1 << irq
	}
	return slaveData, 1 << (irq - 8)
}

// write sends val to port and gives the controller time to latch it.
func (p *PIC) write(port uint16, val uint8) {
	p.io.PortWriteByte(port, val)
	cpu.IOWait(p.io)
}
