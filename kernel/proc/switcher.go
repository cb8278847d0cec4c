package proc

import (
	"claudeos/kernel/cpu"
	"runtime"
)

// Switcher exchanges the processor between two processes. Switch returns
// when prev is scheduled again.
type Switcher interface {
	Switch(prev, next *Process)
}

// releaser is implemented by switchers that must be told about processes
// that were terminated while switched out.
type releaser interface {
	Release(p *Process)
}

// ThreadSwitcher backs every process with a goroutine. Exactly one of them
// holds the baton, and with it the processor, at any time.
type ThreadSwitcher struct {
	core cpu.Core
}

// NewThreadSwitcher returns a switcher that saves and restores the interrupt
// flag of core across switches.
func NewThreadSwitcher(core cpu.Core) *ThreadSwitcher {
	return &ThreadSwitcher{core: core}
}

// Switch saves the IF state of prev, wakes next (starting it on its first
// run) and parks the calling goroutine until prev is picked again. A
// terminated prev never returns.
func (ts *ThreadSwitcher) Switch(prev, next *Process) {
	prev.Context.EFlags = cpu.Flags(ts.core)
	if prev.baton == nil {
		prev.baton = make(chan bool)
	}

	// next may touch prev as soon as it holds the baton.
	baton, terminated := prev.baton, prev.State == Terminated
	if terminated {
		prev.baton = nil
	}

	if next.baton == nil {
		next.baton = make(chan bool)
		go ts.start(next)
	} else {
		next.baton <- true
	}

	if terminated {
		runtime.Goexit()
	}

	if alive := <-baton; !alive {
		runtime.Goexit()
	}

	cpu.RestoreFlags(ts.core, prev.Context.EFlags)
}

// Release stops the goroutine of a process that was killed while parked.
func (ts *ThreadSwitcher) Release(p *Process) {
	if p.baton == nil {
		return
	}

	baton := p.baton
	p.baton = nil
	baton <- false
}

func (ts *ThreadSwitcher) start(p *Process) {
	cpu.RestoreFlags(ts.core, p.Context.EFlags)
	p.Run()
}
