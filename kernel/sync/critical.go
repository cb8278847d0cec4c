package sync

import "claudeos/kernel/cpu"

// CriticalSection disables interrupts on a processor and remembers whether
// they were enabled on entry so that nested sections restore the right state.
type CriticalSection struct {
	core  cpu.Core
	flags uint32
}

// Enter saves the IF state of core and disables interrupts.
func Enter(core cpu.Core) CriticalSection {
	cs := CriticalSection{core: core, flags: cpu.Flags(core)}
	core.DisableInterrupts()
	return cs
}

// Leave restores the IF state saved by Enter.
func (cs CriticalSection) Leave() {
	cpu.RestoreFlags(cs.core, cs.flags)
}

// WithInterruptsDisabled runs fn inside a critical section on core.
func WithInterruptsDisabled(core cpu.Core, fn func()) {
	cs := Enter(core)
	defer cs.Leave()
	fn()
}
