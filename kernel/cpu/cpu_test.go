package cpu_test

import (
	"claudeos/kernel/cpu"
	"claudeos/kernel/cpu/mockcpu"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestIOWait(t *testing.T) {
	ctrl := gomock.NewController(t)
	io := mockcpu.NewMockPortIO(ctrl)

	io.EXPECT().PortWriteByte(uint16(0x80), uint8(0))

	cpu.IOWait(io)
}

func TestFlags(t *testing.T) {
	specs := []struct {
		enabled bool
		exp     uint32
	}{
		{true, cpu.FlagReserved | cpu.FlagIF},
		{false, cpu.FlagReserved},
	}

	for specIndex, spec := range specs {
		ctrl := gomock.NewController(t)
		core := mockcpu.NewMockCore(ctrl)
		core.EXPECT().InterruptsEnabled().Return(spec.enabled)

		if got := cpu.Flags(core); got != spec.exp {
			t.Errorf("[spec %d] expected flags 0x%x; got 0x%x", specIndex, spec.exp, got)
		}
	}
}

func TestRestoreFlags(t *testing.T) {
	t.Run("IF set", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		core := mockcpu.NewMockCore(ctrl)
		core.EXPECT().EnableInterrupts()

		cpu.RestoreFlags(core, 0x202)
	})

	t.Run("IF clear", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		core := mockcpu.NewMockCore(ctrl)
		core.EXPECT().DisableInterrupts()

		cpu.RestoreFlags(core, 0x002)
	})
}
