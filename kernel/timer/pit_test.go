package timer

import (
	"bytes"
	"claudeos/kernel/cpu/mockcpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/kfmt"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestNewClampsRate(t *testing.T) {
	specs := []struct {
		hz         uint32
		expHz      uint32
		expDivisor uint16
		expMs      uint32
	}{
		{0, 100, 11931, 10},
		{100, 100, 11931, 10},
		{1000, 1000, 1193, 1},
		{5, MinHz, 62799, 52},
		{2000, 2000, 596, 1},
	}

	for specIndex, spec := range specs {
		p := New(nil, spec.hz)
		if p.Hz() != spec.expHz || p.Divisor() != spec.expDivisor || p.MsPerTick() != spec.expMs {
			t.Errorf("[spec %d] expected hz=%d divisor=%d ms=%d; got hz=%d divisor=%d ms=%d",
				specIndex, spec.expHz, spec.expDivisor, spec.expMs, p.Hz(), p.Divisor(), p.MsPerTick())
		}
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)
	defer kfmt.SetOutputSink(nil)

	ctrl := gomock.NewController(t)
	machine := mockcpu.NewMockMachine(ctrl)
	gomock.InOrder(
		machine.EXPECT().PortWriteByte(uint16(0x43), uint8(0x34)),
		machine.EXPECT().PortWriteByte(uint16(0x40), uint8(0x9B)),
		machine.EXPECT().PortWriteByte(uint16(0x40), uint8(0x2E)),
	)

	idt := gate.NewTable(nil)
	p := New(machine, 100)
	p.Init(idt)

	if idt.HandlerFor(gate.IRQ(0)) == nil {
		t.Fatal("expected an IRQ0 handler to be installed")
	}

	if exp := "[KERNEL] PIT timer initialized at 100 Hz (IRQ0)\n"; buf.String() != exp {
		t.Fatalf("expected log %q; got %q", exp, buf.String())
	}
}

func TestTickAccounting(t *testing.T) {
	p := New(nil, 100)

	var seen []uint64
	p.SetCallback(func(ticks uint64) { seen = append(seen, ticks) })

	var last uint64
	for i := 0; i < 250; i++ {
		p.handleTick(&gate.Registers{})
		if got := p.Ticks(); got < last {
			t.Fatalf("tick count went backwards: %d -> %d", last, got)
		}
		last = p.Ticks()
	}

	if len(seen) != 250 || seen[0] != 1 || seen[249] != 250 {
		t.Fatalf("expected callback to observe ticks 1..250; got %d calls", len(seen))
	}

	if got := p.UptimeSeconds(); got != 2 {
		t.Errorf("expected uptime of 2s; got %d", got)
	}

	if got := p.UptimeMs(); got != 2500 {
		t.Errorf("expected uptime of 2500ms; got %d", got)
	}

	p.SetCallback(nil)
	p.handleTick(nil)
	if len(seen) != 250 {
		t.Error("expected removed callback not to be invoked")
	}
}

func TestTicksFor(t *testing.T) {
	p := New(nil, 100)
	specs := []struct {
		ms  uint32
		exp uint64
	}{
		{0, 0},
		{1, 1},
		{9, 1},
		{10, 1},
		{11, 2},
		{1000, 100},
	}

	for specIndex, spec := range specs {
		if got := p.TicksFor(spec.ms); got != spec.exp {
			t.Errorf("[spec %d] expected %d ticks for %dms; got %d", specIndex, spec.exp, spec.ms, got)
		}
	}
}

func TestSleepMs(t *testing.T) {
	specs := []struct {
		ms       uint32
		expHalts int
	}{
		{0, 0},
		{5, 1},
		{10, 1},
		{25, 3},
	}

	for specIndex, spec := range specs {
		ctrl := gomock.NewController(t)
		machine := mockcpu.NewMockMachine(ctrl)
		p := New(machine, 100)

		// Each halt is woken up by the next tick.
		machine.EXPECT().Halt().Do(func() { p.handleTick(nil) }).Times(spec.expHalts)

		start := p.Ticks()
		p.SleepMs(spec.ms)
		if got, exp := p.Ticks()-start, p.TicksFor(spec.ms); got < exp {
			t.Errorf("[spec %d] expected at least %d ticks to elapse; got %d", specIndex, exp, got)
		}
		ctrl.Finish()
	}
}
