// Package kmain contains the kernel entry point. It brings the subsystems up
// in dependency order, hands the console to the shell and halts the machine
// once the shell exits.
package kmain

import (
	"bytes"
	"claudeos/device"
	"claudeos/device/tty"
	"claudeos/device/video/console"
	"claudeos/fs/ramfs"
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/cpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/hal"
	"claudeos/kernel/irq"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/mem/heap"
	"claudeos/kernel/proc"
	"claudeos/kernel/syscall"
	"claudeos/kernel/timer"
	"claudeos/shell"
	"io/fs"
)

const (
	colorBlack      uint8 = 0
	colorLightGreen uint8 = 10
	colorLightCyan  uint8 = 11
	colorLightRed   uint8 = 12
	colorWhite      uint8 = 15

	bannerRule = "================================================================================"

	kbcStatusPort   uint16 = 0x64
	kbcInputFull    uint8  = 0x02
	kbcPulseReset   uint8  = 0xFE
	kbcPollAttempts        = 1 << 16

	overlayDir = "mnt"
)

var (
	errNoConsole     = &kernel.Error{Module: "kmain", Message: "no text console detected"}
	errNoKeyboard    = &kernel.Error{Module: "kmain", Message: "no keyboard detected"}
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// Machine is the hardware the kernel boots on.
type Machine interface {
	device.Bus
	gate.Loader

	// Interrupt executes a software interrupt (INT vector).
	Interrupt(vector gate.InterruptNumber, regs *gate.Registers)
}

// Terminal is the shell's view of the active TTY. Text written to it is
// converted from UTF-8 to CP437.
type Terminal struct {
	*console.TextWriter
	tty tty.Device
}

// NewTerminal returns a Terminal that writes to t.
func NewTerminal(t tty.Device) *Terminal {
	return &Terminal{TextWriter: console.NewTextWriter(t), tty: t}
}

// Clear blanks the TTY.
func (t *Terminal) Clear() {
	t.tty.Clear()
}

// Kernel ties together the subsystems brought up by Boot.
type Kernel struct {
	Machine Machine
	Config  Config

	Devices   *hal.Devices
	Terminal  *Terminal
	IDT       *gate.Table
	PIC       *irq.PIC
	Timer     *timer.PIT
	Heap      *heap.Allocator
	Syscalls  *syscall.Table
	FS        *vfs.FS
	RamFS     *ramfs.FS
	Scheduler *proc.Scheduler
	Shell     *shell.Shell
}

// Main boots the kernel on m and runs the shell. It does not return.
func Main(m Machine, cfg Config) {
	k, err := Boot(m, cfg)
	if err != nil {
		kfmt.Panic(err)
	}

	k.Run()

	kfmt.Panic(errKmainReturned)
}

// Boot brings the kernel up with interrupts disabled: console, interrupt
// table, PIC, keyboard, heap, timer, system calls, filesystem and scheduler,
// in that order.
func Boot(m Machine, cfg Config) (*Kernel, *kernel.Error) {
	k := &Kernel{Machine: m, Config: cfg}
	kfmt.SetPanicCore(m)

	var probeLog bytes.Buffer
	k.Devices = hal.DetectHardware(m, &probeLog)
	if k.Devices.Console == nil || k.Devices.TTY == nil {
		return nil, errNoConsole
	}
	if k.Devices.Keyboard == nil {
		return nil, errNoKeyboard
	}

	vt := k.Devices.TTY
	if p, ok := vt.(interface{ Protect(cpu.Core) }); ok {
		p.Protect(m)
	}
	k.Terminal = NewTerminal(vt)

	vt.SetColors(colorWhite, colorBlack)
	vt.Clear()
	if !cfg.NoBanner {
		k.printBanner()
	}
	if !cfg.Quiet {
		vt.Write(probeLog.Bytes())
	}

	k.IDT = gate.NewTable(m)
	k.IDT.Init(m)
	k.IDT.SetTerminal(vt)

	k.PIC = irq.NewPIC(m)
	k.PIC.Remap()
	k.IDT.SetEOISender(k.PIC)

	k.Devices.Keyboard.Install(k.IDT)

	k.Heap = heap.New()
	k.Heap.Init()

	k.Timer = timer.New(m, cfg.Hz)
	k.Timer.Init(k.IDT)

	k.FS = vfs.New()
	k.Scheduler = proc.New(m, k.Heap, k.Timer, proc.NewThreadSwitcher(m))

	k.Syscalls = syscall.New(syscall.Config{
		Scheduler: k.Scheduler,
		Clock:     k.Timer,
		Console:   k.Terminal,
		Memory:    k.Heap,
		FS:        k.FS,
	})
	k.Syscalls.Install(k.IDT)

	k.RamFS = ramfs.New()
	if err := k.RamFS.Seed(); err != nil {
		return nil, err
	}
	if cfg.Overlay != nil {
		k.importOverlay(cfg.Overlay)
	}
	k.RamFS.Mount(k.FS)

	if err := k.Scheduler.Init(); err != nil {
		return nil, err
	}
	k.Timer.SetCallback(k.Scheduler.Tick)

	k.Shell = shell.New(shell.Config{
		Terminal:  k.Terminal,
		Keyboard:  k.Devices.Keyboard,
		FS:        k.FS,
		Clock:     k.Timer,
		Processes: k.Scheduler,
		Memory:    k.Heap,
		Reboot:    k.Reboot,
	})

	kfmt.Printf("\n")
	vt.SetColors(colorLightGreen, colorBlack)
	kfmt.Printf("[KERNEL] All systems initialized successfully!\n")
	vt.SetColors(colorWhite, colorBlack)
	kfmt.Printf("[KERNEL] Starting shell...\n\n")

	return k, nil
}

func (k *Kernel) printBanner() {
	vt := k.Devices.TTY
	vt.SetColors(colorLightCyan, colorBlack)

	// The rule fills a whole row; the cursor wraps by itself.
	kfmt.Printf("%s", bannerRule)
	kfmt.Printf("                           %s v%s booting...\n", kernel.Name, kernel.Release())
	kfmt.Printf("                        Built by %s\n", kernel.Builder)
	kfmt.Printf("%s\n", bannerRule)

	vt.SetColors(colorWhite, colorBlack)
}

// importOverlay copies fsys into /mnt. Running out of nodes or buffers stops
// the import but keeps what was copied.
func (k *Kernel) importOverlay(fsys fs.FS) {
	mnt, err := k.RamFS.CreateDir(k.RamFS.Root(), overlayDir)
	if err != nil {
		kfmt.Printf("[KERNEL] Overlay: cannot create /%s: %s\n", overlayDir, err.Message)
		return
	}

	if err := k.RamFS.Import(fsys, mnt); err != nil {
		kfmt.Printf("[KERNEL] Overlay import incomplete: %s\n", err.Error())
		return
	}
	kfmt.Printf("[KERNEL] Overlay imported at /%s\n", overlayDir)
}

// Run enables interrupts and starts the shell as a process. The calling
// (init) process blocks until the shell exits and then halts the machine.
func (k *Kernel) Run() {
	k.Machine.EnableInterrupts()

	if _, err := k.Scheduler.Create("shell", k.runShell, proc.High); err != nil {
		kfmt.Panic(err)
	}
	k.Scheduler.Block()

	k.Devices.TTY.SetColors(colorLightRed, colorBlack)
	kfmt.Printf("\n[KERNEL] Shell exited. System halted.\n")
	kfmt.Printf("[KERNEL] Press reset button to restart.\n")

	k.Machine.DisableInterrupts()
	for {
		k.Machine.Halt()
	}
}

func (k *Kernel) runShell() {
	k.Shell.Run()
	k.Scheduler.Unblock(proc.InitPID)
}

// Reboot pulses the reset line through the keyboard controller and, if the
// machine is still running, forces a triple fault by loading an empty
// interrupt table. It only returns if neither method reset the machine.
func (k *Kernel) Reboot() {
	vt := k.Devices.TTY
	fg, bg := vt.Colors()
	vt.SetColors(colorLightCyan, colorBlack)
	kfmt.Printf("\n[KERNEL] Rebooting system...\n")
	vt.SetColors(fg, bg)

	m := k.Machine
	enabled := m.InterruptsEnabled()
	m.DisableInterrupts()

	for i := 0; i < kbcPollAttempts && m.PortReadByte(kbcStatusPort)&kbcInputFull != 0; i++ {
	}
	m.PortWriteByte(kbcStatusPort, kbcPulseReset)

	m.LoadIDT(nil)
	m.Interrupt(gate.Breakpoint, &gate.Registers{})

	m.LoadIDT(k.IDT)
	if enabled {
		m.EnableInterrupts()
	}
}

// Syscall issues INT 0x80 with num in EAX and the arguments in EBX, ECX and
// EDX and returns the result left in EAX.
func (k *Kernel) Syscall(num syscall.Number, arg1, arg2, arg3 uint32) int32 {
	regs := gate.Registers{EAX: uint32(num), EBX: arg1, ECX: arg2, EDX: arg3}
	k.Machine.Interrupt(gate.Syscall, &regs)
	return int32(regs.EAX)
}
