// Package timer programs channel 0 of the 8254 programmable interval timer
// as the kernel tick source and keeps time in ticks.
package timer

import (
	"claudeos/kernel/cpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/kfmt"
	"sync/atomic"
)

const (
	// BaseFrequency is the input clock of the PIT in Hz.
	BaseFrequency = 1193182

	// DefaultHz is the tick rate used when none is configured.
	DefaultHz = 100

	// MinHz is the lowest rate whose divisor fits in 16 bits.
	MinHz = 19

	channel0Port uint16 = 0x40
	commandPort  uint16 = 0x43

	// Channel 0, lo/hi byte access, mode 2 (rate generator), binary.
	cmdRateGenerator uint8 = 0x34
)

// Callback is invoked on every tick with the updated tick count.
type Callback func(ticks uint64)

// PIT is the tick source. The tick count is only written by the IRQ0
// handler.
type PIT struct {
	machine  cpu.Machine
	hz       uint32
	ticks    atomic.Uint64
	callback Callback
}

// New returns a PIT that ticks at hz. Rates below MinHz are raised to MinHz
// and a zero rate selects DefaultHz.
func New(machine cpu.Machine, hz uint32) *PIT {
	switch {
	case hz == 0:
		hz = DefaultHz
	case hz < MinHz:
		hz = MinHz
	case hz > BaseFrequency:
		hz = BaseFrequency
	}

	return &PIT{machine: machine, hz: hz}
}

// Divisor returns the reload value programmed into channel 0.
func (p *PIT) Divisor() uint16 {
	return uint16(BaseFrequency / p.hz)
}

// Hz returns the tick rate.
func (p *PIT) Hz() uint32 {
	return p.hz
}

// MsPerTick returns the length of one tick in milliseconds.
func (p *PIT) MsPerTick() uint32 {
	if ms := 1000 / p.hz; ms > 0 {
		return ms
	}
	return 1
}

// Init programs channel 0 as a rate generator, installs the IRQ0 handler and
// resets the tick count.
func (p *PIT) Init(idt *gate.Table) {
	divisor := p.Divisor()
	p.machine.PortWriteByte(commandPort, cmdRateGenerator)
	p.machine.PortWriteByte(channel0Port, uint8(divisor&0xFF))
	p.machine.PortWriteByte(channel0Port, uint8(divisor>>8))

	idt.HandleInterrupt(gate.IRQ(0), p.handleTick)
	p.ticks.Store(0)

	kfmt.Printf("[KERNEL] PIT timer initialized at %d Hz (IRQ0)\n", p.hz)
}

func (p *PIT) handleTick(_ *gate.Registers) {
	ticks := p.ticks.Add(1)
	if p.callback != nil {
		p.callback(ticks)
	}
}

// Ticks returns the number of ticks since Init.
func (p *PIT) Ticks() uint64 {
	return p.ticks.Load()
}

// UptimeSeconds returns the whole seconds elapsed since Init.
func (p *PIT) UptimeSeconds() uint32 {
	return uint32(p.Ticks() / uint64(p.hz))
}

// UptimeMs returns the milliseconds elapsed since Init.
func (p *PIT) UptimeMs() uint64 {
	return p.Ticks() * uint64(p.MsPerTick())
}

// TicksFor converts a duration in milliseconds to ticks, rounding up.
func (p *PIT) TicksFor(ms uint32) uint64 {
	perTick := uint64(p.MsPerTick())
	return (uint64(ms) + perTick - 1) / perTick
}

// SleepMs halts the processor between ticks until at least ms milliseconds
// worth of ticks have elapsed. Interrupts must be enabled.
func (p *PIT) SleepMs(ms uint32) {
	target := p.Ticks() + p.TicksFor(ms)
	for p.Ticks() < target {
		p.machine.Halt()
	}
}

// SetCallback installs fn as the per-tick callback. A nil fn removes it.
func (p *PIT) SetCallback(fn Callback) {
	p.callback = fn
}
