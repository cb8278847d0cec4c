// Package proc implements the process table and the round-robin scheduler.
package proc

import (
	"claudeos/kernel/mem/heap"
)

// State describes where a process is in its lifecycle.
type State uint8

// The supported process states.
const (
	Free State = iota
	Ready
	Running
	Blocked
	Sleeping
	Terminated
)

var stateNames = [...]string{
	Free:       "FREE",
	Ready:      "READY",
	Running:    "RUNNING",
	Blocked:    "BLOCKED",
	Sleeping:   "SLEEPING",
	Terminated: "TERMINATED",
}

// String returns the name shown by ps.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// Priority is recorded for each process but does not influence selection.
type Priority uint8

// The supported priorities.
const (
	Low Priority = iota
	Normal
	High
	Realtime
)

var priorityNames = [...]string{"LOW", "NORMAL", "HIGH", "REALTIME"}

func (p Priority) String() string {
	if int(p) < len(priorityNames) {
		return priorityNames[p]
	}
	return "UNKNOWN"
}

// Context holds the register state saved when a process is switched out.
type Context struct {
	ESP    uint32
	EBP    uint32
	EIP    uint32
	EFlags uint32
}

// Process is a process control block.
type Process struct {
	PID      uint32
	State    State
	Priority Priority
	Context  Context

	// Stack is the heap span owned by the process. Init runs on the boot
	// stack and owns none.
	Stack heap.Block

	// WakeTick is only meaningful while Sleeping.
	WakeTick   uint64
	Slice      uint32
	TotalTicks uint64

	Name     string
	Parent   *Process
	ExitCode int32

	// Entry is the function started by the trampoline. It is nil for init.
	Entry func()

	// run is the body executed when the process first gets the CPU.
	run func()

	// baton hands the CPU to the goroutine backing this process.
	baton chan bool
}

// Run executes the process body: the entry function followed by an implicit
// exit, or the idle loop.
func (p *Process) Run() {
	if p.run != nil {
		p.run()
	}
}
