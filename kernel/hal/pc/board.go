// Package pc simulates the PC board the hosted kernel runs on: a cascaded
// 8259A pair, channel 0 of an 8254 timer, an i8042 keyboard controller, a
// color VGA adapter in text mode and the POST diagnostics port.
//
// Kernel code runs on a single logical processor. Interrupts are delivered
// only when the kernel enables them or halts, mirroring the points at which
// a real processor samples its INTR line while the kernel waits.
package pc

import (
	"claudeos/kernel/cpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/sync"
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// StopReason describes why the machine stopped executing.
type StopReason uint8

const (
	// Running is reported while the machine executes.
	Running StopReason = iota

	// Halted means the processor halted with interrupts disabled.
	Halted

	// Reset means the keyboard controller pulsed the reset line or the
	// processor triple faulted.
	Reset

	// PowerOff means the owner of the machine switched it off.
	PowerOff
)

var stopReasonNames = [...]string{"running", "halted", "reset", "power off"}

func (r StopReason) String() string {
	if int(r) < len(stopReasonNames) {
		return stopReasonNames[r]
	}
	return "unknown"
}

// Config describes the machine to build.
type Config struct {
	// CmdLine is the boot command line passed to the kernel.
	CmdLine string

	// RealTime drives the timer from the host clock. Without it IRQ0 is
	// only raised by calls to Tick.
	RealTime bool
}

var (
	// stopCPUFn ends the goroutine executing kernel code once the machine
	// stops. Tests replace it.
	stopCPUFn = runtime.Goexit
)

// Board is a simulated PC. It implements cpu.Machine, gate.Loader and
// device.Bus.
type Board struct {
	// lock guards the device models which are shared between the
	// processor and the goroutines that raise interrupts.
	lock sync.Spinlock

	master pic8259
	slave  pic8259
	pit    pit8254
	kbc    i8042
	vga    vgaAdapter

	postWrites int
	reason     StopReason

	ifFlag   atomic.Bool
	idt      *gate.Table
	cmdLine  map[string]string
	realTime bool
	onIdle   func()

	wake       chan struct{}
	pitChanged chan struct{}
	stopped    chan struct{}
}

// New returns a powered-off machine.
func New(cfg Config) *Board {
	return &Board{
		master:     newPIC(biosMasterOffset),
		slave:      newPIC(biosSlaveOffset),
		vga:        newVGA(),
		cmdLine:    ParseCmdLine(cfg.CmdLine),
		realTime:   cfg.RealTime,
		wake:       make(chan struct{}, 1),
		pitChanged: make(chan struct{}, 1),
		stopped:    make(chan struct{}),
	}
}

// SetIdleHook installs fn to be called on the processor whenever the kernel
// halts with nothing to do. It must be set before Run.
func (b *Board) SetIdleHook(fn func()) {
	b.onIdle = fn
}

// Run boots the machine into entry, which is entered with interrupts
// disabled, and blocks until the machine stops or ctx is done. Stopping
// through ctx powers the machine off and returns ctx.Err().
func (b *Board) Run(ctx context.Context, entry func()) error {
	g, ctx := errgroup.WithContext(ctx)

	go b.execute(entry)

	if b.realTime {
		g.Go(func() error { return b.runClock(ctx) })
	}

	g.Go(func() error {
		select {
		case <-b.stopped:
			return nil
		case <-ctx.Done():
			b.stop(PowerOff)
			return ctx.Err()
		}
	})

	return g.Wait()
}

func (b *Board) execute(entry func()) {
	defer b.stop(Halted)
	entry()
}

// PowerOff stops the machine. Kernel code still running is ended the next
// time it halts.
func (b *Board) PowerOff() {
	b.stop(PowerOff)
}

// stop records the first reason the machine stopped for.
func (b *Board) stop(reason StopReason) {
	b.lock.Acquire()
	defer b.lock.Release()

	if b.reason != Running {
		return
	}
	b.reason = reason
	close(b.stopped)
}

// Reason returns why the machine stopped or Running.
func (b *Board) Reason() StopReason {
	b.lock.Acquire()
	defer b.lock.Release()
	return b.reason
}

// Done is closed once the machine stops.
func (b *Board) Done() <-chan struct{} {
	return b.stopped
}

func (b *Board) isStopped() bool {
	select {
	case <-b.stopped:
		return true
	default:
		return false
	}
}

// RaiseIRQ asserts hardware interrupt line irq (0-15).
func (b *Board) RaiseIRQ(irq uint8) {
	b.lock.Acquire()
	b.raise(irq)
	b.lock.Release()
}

// Tick raises IRQ0 once.
func (b *Board) Tick() {
	b.RaiseIRQ(0)
}

// PushScancodes queues codes in the keyboard controller.
func (b *Board) PushScancodes(codes ...uint8) {
	b.lock.Acquire()
	if b.kbc.push(codes) {
		b.raise(1)
	}
	b.lock.Release()
}

// raise and lower must be called with the lock held.
func (b *Board) raise(irq uint8) {
	if irq < 8 {
		b.master.irr |= 1 << irq
	} else {
		b.slave.irr |= 1 << (irq - 8)
	}
	notify(b.wake)
}

func (b *Board) lower(irq uint8) {
	if irq < 8 {
		b.master.irr &^= 1 << irq
	} else {
		b.slave.irr &^= 1 << (irq - 8)
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// acknowledge runs the INTA cycle: it picks the highest priority pending
// line across both controllers, marks it in service and returns its vector.
func (b *Board) acknowledge() (gate.InterruptNumber, bool) {
	b.lock.Acquire()
	defer b.lock.Release()

	if _, ok := b.slave.pending(); ok {
		b.master.irr |= 1 << cascadeLine
	} else {
		b.master.irr &^= 1 << cascadeLine
	}

	line, ok := b.master.pending()
	if !ok {
		return 0, false
	}
	b.master.acknowledge(line)

	if line == cascadeLine {
		slaveLine, _ := b.slave.pending()
		b.slave.acknowledge(slaveLine)
		return gate.InterruptNumber(b.slave.offset + slaveLine), true
	}
	return gate.InterruptNumber(b.master.offset + line), true
}

// deliverPending dispatches pending interrupts while IF is set and reports
// whether any were delivered.
func (b *Board) deliverPending() bool {
	delivered := false
	for b.ifFlag.Load() {
		vector, ok := b.acknowledge()
		if !ok {
			break
		}

		var regs gate.Registers
		b.dispatch(vector, &regs)
		delivered = true
	}
	return delivered
}

// dispatch enters the IDT through a 32-bit interrupt gate: IF is cleared for
// the duration of the handler and restored from the frame on return. A
// machine without an IDT triple faults.
func (b *Board) dispatch(vector gate.InterruptNumber, regs *gate.Registers) {
	if b.idt == nil {
		b.stop(Reset)
		stopCPUFn()
		return
	}

	regs.Vector = uint32(vector)
	regs.CS = uint32(cpu.KernelCodeSelector)
	regs.EFlags = cpu.Flags(b)

	b.ifFlag.Store(false)
	b.idt.Dispatch(regs)
	b.ifFlag.Store(regs.EFlags&cpu.FlagIF != 0)
}

// Interrupt executes INT vector with the general registers in regs. Results
// left in regs by the handler are visible to the caller.
func (b *Board) Interrupt(vector gate.InterruptNumber, regs *gate.Registers) {
	b.dispatch(vector, regs)
}

// LoadIDT makes t the active interrupt descriptor table.
func (b *Board) LoadIDT(t *gate.Table) {
	b.idt = t
}

// EnableInterrupts sets IF and delivers any pending interrupts.
func (b *Board) EnableInterrupts() {
	b.ifFlag.Store(true)
	b.deliverPending()
}

// DisableInterrupts clears IF.
func (b *Board) DisableInterrupts() {
	b.ifFlag.Store(false)
}

// InterruptsEnabled returns the IF state.
func (b *Board) InterruptsEnabled() bool {
	return b.ifFlag.Load()
}

// Halt waits for the next interrupt and returns once it has been serviced.
// Halting with interrupts disabled stops the machine.
func (b *Board) Halt() {
	if !b.ifFlag.Load() {
		b.stop(Halted)
		stopCPUFn()
		return
	}

	idled := false
	for {
		if b.isStopped() {
			stopCPUFn()
			return
		}

		if b.deliverPending() {
			return
		}

		if !idled && b.onIdle != nil {
			idled = true
			b.onIdle()
			continue
		}

		select {
		case <-b.wake:
		case <-b.stopped:
		}
	}
}

// TextMemory returns the VGA text buffer.
func (b *Board) TextMemory() []uint16 {
	return b.vga.text
}

// CmdLine returns the parsed boot command line.
func (b *Board) CmdLine() map[string]string {
	return b.cmdLine
}

// Snapshot copies the text buffer into dst, growing it as needed. It must be
// called from the idle hook or after the machine stopped.
func (b *Board) Snapshot(dst []uint16) []uint16 {
	return append(dst[:0], b.vga.text...)
}

// Cursor returns the 0-based cell programmed into the CRT controller.
func (b *Board) Cursor() (x, y int) {
	b.lock.Acquire()
	defer b.lock.Release()
	return b.vga.cursor()
}

// PaletteEntry returns the 6-bit RGB components loaded into DAC entry index.
func (b *Board) PaletteEntry(index uint8) (r, g, bl uint8) {
	b.lock.Acquire()
	defer b.lock.Release()
	c := b.vga.dac[index]
	return c[0], c[1], c[2]
}

// POSTWrites returns the number of writes to the POST port.
func (b *Board) POSTWrites() int {
	b.lock.Acquire()
	defer b.lock.Release()
	return b.postWrites
}
