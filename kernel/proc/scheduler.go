package proc

import (
	"claudeos/kernel"
	"claudeos/kernel/cpu"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/mem"
	"claudeos/kernel/mem/heap"
	"encoding/binary"
)

const (
	// MaxProcesses is the size of the process table.
	MaxProcesses = 64

	// StackSize is the size of the stack allocated for each process.
	StackSize mem.Size = 4096

	// DefaultSlice is the number of ticks a process runs before it is
	// preempted.
	DefaultSlice = 10

	// IdlePID and InitPID are the identifiers of the two processes that
	// exist from Init onwards.
	IdlePID uint32 = 0
	InitPID uint32 = 1

	// TrampolineAddr is the entry address stored in the initial frame of
	// every new process.
	TrampolineAddr uint32 = 0x00100400

	maxNameLen = 31
	idleSlice  = 1

	// initialFrameWords is the number of words in the frame seeded on a
	// new stack: EFLAGS, CS, EIP and the eight general purpose registers.
	initialFrameWords = 11
)

var (
	errNoEntry        = &kernel.Error{Module: "proc", Message: "missing entry point"}
	errNoFreeSlot     = &kernel.Error{Module: "proc", Message: "process table full"}
	errProtected      = &kernel.Error{Module: "proc", Message: "process cannot be killed"}
	errNoSuchProcess  = &kernel.Error{Module: "proc", Message: "no such process"}
	errNotInitialized = &kernel.Error{Module: "proc", Message: "scheduler not initialized"}
)

// Allocator provides the stacks of new processes.
type Allocator interface {
	Alloc(size mem.Size) (heap.Block, *kernel.Error)
	Free(heap.Block)
	Bytes(heap.Block) []byte
}

// Clock is the tick source driving the scheduler.
type Clock interface {
	Ticks() uint64
	TicksFor(ms uint32) uint64
}

// Scheduler owns the process table. All methods must be called with the
// processor held: from the running process or from the tick handler.
type Scheduler struct {
	table    [MaxProcesses]Process
	current  *Process
	nextPID  uint32
	enabled  bool
	core     cpu.Core
	heap     Allocator
	clock    Clock
	switcher Switcher
}

// New returns a scheduler that allocates stacks from alloc, keeps time with
// clock and hands the processor over with switcher. The idle process halts
// core.
func New(core cpu.Core, alloc Allocator, clock Clock, switcher Switcher) *Scheduler {
	return &Scheduler{
		core:     core,
		heap:     alloc,
		clock:    clock,
		switcher: switcher,
		nextPID:  1,
	}
}

// Init clears the table, creates the idle (PID 0) and init (PID 1) processes
// and enables scheduling. The caller becomes the init process.
func (s *Scheduler) Init() *kernel.Error {
	for i := range s.table {
		s.table[i] = Process{}
	}

	idle := &s.table[0]
	idle.PID = IdlePID
	idle.State = Ready
	idle.Priority = Low
	idle.Name = "idle"
	idle.Slice = idleSlice
	idle.run = s.idleLoop
	if err := s.allocStack(idle); err != nil {
		return err
	}

	init := &s.table[1]
	init.PID = InitPID
	init.State = Running
	init.Priority = Normal
	init.Name = "init"
	init.Slice = DefaultSlice
	if s.core != nil {
		init.Context.EFlags = cpu.Flags(s.core)
	}

	s.current = init
	s.nextPID = 2
	s.enabled = true

	kfmt.Printf("[KERNEL] Process scheduler initialized (round-robin)\n")
	return nil
}

func (s *Scheduler) idleLoop() {
	for {
		s.core.EnableInterrupts()
		s.core.Halt()
	}
}

// allocStack reserves a stack for p and seeds it with the frame consumed by
// the first switch to p.
func (s *Scheduler) allocStack(p *Process) *kernel.Error {
	block, err := s.heap.Alloc(StackSize)
	if err != nil {
		return err
	}

	p.Stack = block
	p.Context = Context{
		ESP:    uint32(block.End()) - initialFrameWords*4,
		EIP:    TrampolineAddr,
		EFlags: cpu.FlagReserved | cpu.FlagIF,
	}

	if data := s.heap.Bytes(block); data != nil {
		frame := data[len(data)-initialFrameWords*4:]
		for i := range frame {
			frame[i] = 0
		}
		// Highest address first: EFLAGS, CS, EIP.
		binary.LittleEndian.PutUint32(frame[40:], p.Context.EFlags)
		binary.LittleEndian.PutUint32(frame[36:], uint32(cpu.KernelCodeSelector))
		binary.LittleEndian.PutUint32(frame[32:], TrampolineAddr)
	}
	return nil
}

func (s *Scheduler) releaseStack(p *Process) {
	if p.Stack.IsNull() {
		return
	}
	s.heap.Free(p.Stack)
	p.Stack = heap.Block{}
}

// Create adds a Ready process that runs entry and then exits with status 0.
// The process is started on its first switch-in.
func (s *Scheduler) Create(name string, entry func(), priority Priority) (uint32, *kernel.Error) {
	if entry == nil {
		return 0, errNoEntry
	}

	if !s.enabled {
		return 0, errNotInitialized
	}

	p := s.findFree()
	if p == nil {
		return 0, errNoFreeSlot
	}

	if err := s.allocStack(p); err != nil {
		return 0, err
	}

	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	p.PID = s.nextPID
	s.nextPID++
	p.State = Ready
	p.Priority = priority
	p.Entry = entry
	p.Slice = DefaultSlice
	p.TotalTicks = 0
	p.WakeTick = 0
	p.Parent = s.current
	p.ExitCode = 0
	p.Name = name
	p.baton = nil
	p.run = func() {
		entry()
		s.Exit(0)
	}

	return p.PID, nil
}

// findFree returns an unused slot, preferring ones that were never taken.
// A Terminated slot is recycled once no goroutine can resume on it.
func (s *Scheduler) findFree() *Process {
	var reusable *Process
	for i := range s.table {
		p := &s.table[i]
		switch {
		case p.State == Free:
			return p
		case reusable == nil && p.State == Terminated && p.baton == nil && p != s.current:
			reusable = p
		}
	}

	if reusable != nil {
		*reusable = Process{}
	}
	return reusable
}

// findNextReady scans the table round-robin starting after the current
// process.
func (s *Scheduler) findNextReady() *Process {
	start := 0
	if s.current != nil {
		start = s.indexOf(s.current) + 1
	}

	for i := 0; i < MaxProcesses; i++ {
		if p := &s.table[(start+i)%MaxProcesses]; p.State == Ready {
			return p
		}
	}
	return nil
}

func (s *Scheduler) indexOf(p *Process) int {
	for i := range s.table {
		if &s.table[i] == p {
			return i
		}
	}
	return -1
}

func (s *Scheduler) wakeSleepers(now uint64) {
	for i := range s.table {
		if p := &s.table[i]; p.State == Sleeping && now >= p.WakeTick {
			p.State = Ready
		}
	}
}

// Tick is the timer callback. It wakes sleepers, charges the tick to the
// running process and preempts it once its slice is used up.
func (s *Scheduler) Tick(ticks uint64) {
	if !s.enabled {
		return
	}

	s.wakeSleepers(ticks)

	cur := s.current
	if cur == nil || cur.State != Running {
		return
	}

	cur.TotalTicks++
	if cur.Slice > 0 {
		cur.Slice--
	}

	if cur.Slice == 0 {
		s.Schedule()
	}
}

// Schedule picks the next Ready process and switches to it. The idle process
// runs when nothing else is Ready.
func (s *Scheduler) Schedule() {
	if !s.enabled {
		return
	}

	if s.clock != nil {
		s.wakeSleepers(s.clock.Ticks())
	}

	next := s.findNextReady()
	if next == nil {
		next = &s.table[0]
		if next.State == Free {
			return
		}
	}

	if next == s.current {
		next.State = Running
		next.Slice = sliceFor(next)
		return
	}

	prev := s.current
	if prev != nil && prev.State == Running {
		prev.State = Ready
	}

	s.current = next
	next.State = Running
	next.Slice = sliceFor(next)

	if prev != nil && s.switcher != nil {
		s.switcher.Switch(prev, next)
	}
}

// sliceFor returns the ticks granted to p when it is picked. The idle
// process only runs until the next tick so that woken processes get the
// processor promptly.
func sliceFor(p *Process) uint32 {
	if p.PID == IdlePID {
		return idleSlice
	}
	return DefaultSlice
}

// Yield gives up the rest of the current slice.
func (s *Scheduler) Yield() {
	if s.current == nil {
		return
	}

	s.current.Slice = 0
	s.Schedule()
}

// Exit terminates the current process. The init process cannot exit.
func (s *Scheduler) Exit(code int32) {
	cur := s.current
	if cur == nil {
		return
	}

	if cur.PID == InitPID {
		kfmt.Printf("[KERNEL] Warning: init process cannot exit\n")
		return
	}

	cur.State = Terminated
	cur.ExitCode = code
	s.releaseStack(cur)
	s.Schedule()
}

// Kill terminates the process with the given pid. The idle and init
// processes cannot be killed.
func (s *Scheduler) Kill(pid uint32) *kernel.Error {
	if pid <= InitPID {
		return errProtected
	}

	p := s.Get(pid)
	if p == nil {
		return errNoSuchProcess
	}

	p.State = Terminated
	p.ExitCode = -1
	s.releaseStack(p)

	if p == s.current {
		s.Schedule()
		return nil
	}

	if r, ok := s.switcher.(releaser); ok {
		r.Release(p)
	}
	return nil
}

// Sleep suspends the current process for at least ms milliseconds.
func (s *Scheduler) Sleep(ms uint32) {
	cur := s.current
	if cur == nil {
		return
	}

	var now, ticks uint64
	if s.clock != nil {
		now, ticks = s.clock.Ticks(), s.clock.TicksFor(ms)
	}
	if ms > 0 && ticks == 0 {
		ticks = 1
	}

	cur.WakeTick = now + ticks
	cur.State = Sleeping
	s.Schedule()
}

// Block suspends the current process until Unblock is called for it.
func (s *Scheduler) Block() {
	if s.current == nil {
		return
	}

	s.current.State = Blocked
	s.Schedule()
}

// Unblock makes a Blocked process Ready.
func (s *Scheduler) Unblock(pid uint32) {
	if p := s.Get(pid); p != nil && p.State == Blocked {
		p.State = Ready
	}
}

// Current returns the running process.
func (s *Scheduler) Current() *Process {
	return s.current
}

// Get returns the process with the given pid or nil.
func (s *Scheduler) Get(pid uint32) *Process {
	for i := range s.table {
		if p := &s.table[i]; p.PID == pid && p.State != Free {
			return p
		}
	}
	return nil
}

// Count returns the number of processes that are neither Free nor
// Terminated.
func (s *Scheduler) Count() int {
	count := 0
	for i := range s.table {
		if active(&s.table[i]) {
			count++
		}
	}
	return count
}

// List stores the pids of active processes in pids, in table order, and
// returns how many were stored.
func (s *Scheduler) List(pids []uint32) int {
	count := 0
	for i := 0; i < MaxProcesses && count < len(pids); i++ {
		if p := &s.table[i]; active(p) {
			pids[count] = p.PID
			count++
		}
	}
	return count
}

func active(p *Process) bool {
	return p.State != Free && p.State != Terminated
}
