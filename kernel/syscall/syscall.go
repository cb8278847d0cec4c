// Package syscall implements the system call interface reached through the
// INT 0x80 software trap. The call number is passed in EAX and up to three
// arguments in EBX, ECX and EDX; the result is returned in EAX.
package syscall

import (
	"claudeos/fs/vfs"
	"claudeos/kernel"
	"claudeos/kernel/cpu"
	"claudeos/kernel/gate"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/mem"
	"claudeos/kernel/proc"
	"encoding/binary"
	"io"
)

// Number identifies a system call.
type Number uint32

const (
	Exit Number = iota
	Read
	Write
	GetPID
	Sleep
	Yield
	Fork
	Exec
	Wait
	Open
	Close
	Stat
	Mkdir
	Rmdir
	Unlink
	Chdir
	Getcwd
	GetTime
	Uptime

	// NumCalls is the size of the dispatch table.
	NumCalls
)

// Result codes returned in EAX. Non-negative values are call specific.
const (
	Success = 0
	Error   = -1
	ENOENT  = -2
	EBADF   = -3
	EINVAL  = -4
	ENOMEM  = -5
	EACCES  = -6
	EEXIST  = -7
	ENOTSUP = -8
)

// Standard stream descriptors.
const (
	StdinFD  = 0
	StdoutFD = 1
	StderrFD = 2
)

// StatSize is the size of the record stored by the stat call:
// inode (u32), type (u8, padded to 4 bytes), size (u32), nlink (u32).
const StatSize = 16

// Scheduler is the part of the process scheduler used by system calls.
type Scheduler interface {
	Current() *proc.Process
	Exit(code int32)
	Yield()
}

// Clock is the tick source.
type Clock interface {
	Ticks() uint64
	UptimeSeconds() uint32
	SleepMs(ms uint32)
}

// Memory resolves pointer arguments.
type Memory interface {
	Slice(addr uintptr, size mem.Size) ([]byte, *kernel.Error)
	CString(addr uintptr, max mem.Size) (string, *kernel.Error)
}

// FileSystem is the part of the VFS reachable through system calls.
type FileSystem interface {
	Open(path string, flags vfs.OpenFlag) (int, *kernel.Error)
	Close(fd int) *kernel.Error
	Read(fd int, buf []byte) (int, *kernel.Error)
	Write(fd int, buf []byte) (int, *kernel.Error)
	Stat(path string) (vfs.Stat, *kernel.Error)
	Mkdir(path string) (*vfs.Node, *kernel.Error)
}

// Handler implements a system call. It receives the raw argument registers.
type Handler func(arg1, arg2, arg3 uint32) int32

// Config lists the subsystems the system calls operate on.
type Config struct {
	Scheduler Scheduler
	Clock     Clock
	Console   io.Writer
	Memory    Memory
	FS        FileSystem
}

// Table dispatches system calls. Absent entries return ENOTSUP.
type Table struct {
	cfg      Config
	handlers [NumCalls]Handler
}

// New returns a table with the implemented calls registered.
func New(cfg Config) *Table {
	t := &Table{cfg: cfg}
	t.handlers = [NumCalls]Handler{
		Exit:    t.sysExit,
		Read:    t.sysRead,
		Write:   t.sysWrite,
		GetPID:  t.sysGetPID,
		Sleep:   t.sysSleep,
		Yield:   t.sysYield,
		Open:    t.sysOpen,
		Close:   t.sysClose,
		Stat:    t.sysStat,
		Mkdir:   t.sysMkdir,
		GetTime: t.sysGetTime,
		Uptime:  t.sysUptime,
	}
	return t
}

// Install routes the syscall trap to the table. The gate is callable from
// ring 3.
func (t *Table) Install(idt *gate.Table) {
	idt.SetGate(gate.Syscall, gate.StubAddress(gate.Syscall), cpu.KernelCodeSelector, gate.FlagUserInterrupt)
	idt.HandleInterrupt(gate.Syscall, t.handleTrap)

	kfmt.Printf("[KERNEL] System call interface initialized (INT 0x80)\n")
}

// Register replaces the handler for num. A nil handler removes the call.
func (t *Table) Register(num Number, h Handler) {
	if num < NumCalls {
		t.handlers[num] = h
	}
}

// Dispatch runs system call num.
func (t *Table) Dispatch(num, arg1, arg2, arg3 uint32) int32 {
	if num >= uint32(NumCalls) {
		return EINVAL
	}

	h := t.handlers[num]
	if h == nil {
		return ENOTSUP
	}
	return h(arg1, arg2, arg3)
}

func (t *Table) handleTrap(regs *gate.Registers) {
	regs.EAX = uint32(t.Dispatch(regs.EAX, regs.EBX, regs.ECX, regs.EDX))
}

// ResultFor maps a kernel error to a result code.
func ResultFor(err *kernel.Error) int32 {
	switch err {
	case nil:
		return Success
	case vfs.ErrNotFound:
		return ENOENT
	case vfs.ErrBadDescriptor:
		return EBADF
	case vfs.ErrInvalid, vfs.ErrNotDir, vfs.ErrNameTooLong:
		return EINVAL
	case vfs.ErrNoSpace:
		return ENOMEM
	case vfs.ErrAccess:
		return EACCES
	case vfs.ErrExists:
		return EEXIST
	case vfs.ErrNotSupported:
		return ENOTSUP
	default:
		return Error
	}
}

func (t *Table) buffer(addr, count uint32) ([]byte, int32) {
	if addr == 0 || count == 0 {
		return nil, EINVAL
	}

	buf, err := t.cfg.Memory.Slice(uintptr(addr), mem.Size(count))
	if err != nil {
		return nil, EINVAL
	}
	return buf, Success
}

func (t *Table) path(addr uint32) (string, int32) {
	if addr == 0 {
		return "", EINVAL
	}

	p, err := t.cfg.Memory.CString(uintptr(addr), vfs.PathMax)
	if err != nil || p == "" {
		return "", EINVAL
	}
	return p, Success
}

func (t *Table) sysExit(status, _, _ uint32) int32 {
	t.cfg.Scheduler.Exit(int32(status))
	return Success
}

func (t *Table) sysRead(fd, addr, count uint32) int32 {
	buf, res := t.buffer(addr, count)
	if res != Success {
		return res
	}

	switch int32(fd) {
	case StdinFD:
		// Keyboard input is consumed by the shell line editor.
		return 0
	case StdoutFD, StderrFD:
		return EBADF
	}

	n, err := t.cfg.FS.Read(int(int32(fd)), buf)
	if err != nil {
		return ResultFor(err)
	}
	return int32(n)
}

func (t *Table) sysWrite(fd, addr, count uint32) int32 {
	buf, res := t.buffer(addr, count)
	if res != Success {
		return res
	}

	switch int32(fd) {
	case StdoutFD, StderrFD:
		for i, b := range buf {
			if b == 0 {
				buf = buf[:i]
				break
			}
		}
		t.cfg.Console.Write(buf)
		return int32(count)
	case StdinFD:
		return EBADF
	}

	n, err := t.cfg.FS.Write(int(int32(fd)), buf)
	if err != nil {
		return ResultFor(err)
	}
	return int32(n)
}

func (t *Table) sysGetPID(_, _, _ uint32) int32 {
	if p := t.cfg.Scheduler.Current(); p != nil {
		return int32(p.PID)
	}
	return 0
}

func (t *Table) sysSleep(ms, _, _ uint32) int32 {
	if ms == 0 {
		t.cfg.Scheduler.Yield()
		return Success
	}

	t.cfg.Clock.SleepMs(ms)
	return Success
}

func (t *Table) sysYield(_, _, _ uint32) int32 {
	t.cfg.Scheduler.Yield()
	return Success
}

func (t *Table) sysOpen(pathAddr, flags, _ uint32) int32 {
	p, res := t.path(pathAddr)
	if res != Success {
		return res
	}

	fd, err := t.cfg.FS.Open(p, vfs.OpenFlag(flags))
	if err != nil {
		return ResultFor(err)
	}
	return int32(fd)
}

func (t *Table) sysClose(fd, _, _ uint32) int32 {
	if int32(fd) < vfs.FirstFD {
		return EBADF
	}
	return ResultFor(t.cfg.FS.Close(int(int32(fd))))
}

func (t *Table) sysStat(pathAddr, bufAddr, _ uint32) int32 {
	p, res := t.path(pathAddr)
	if res != Success {
		return res
	}

	buf, res := t.buffer(bufAddr, StatSize)
	if res != Success {
		return res
	}

	st, err := t.cfg.FS.Stat(p)
	if err != nil {
		return ResultFor(err)
	}

	binary.LittleEndian.PutUint32(buf[0:], st.Inode)
	binary.LittleEndian.PutUint32(buf[4:], uint32(st.Type))
	binary.LittleEndian.PutUint32(buf[8:], st.Size)
	binary.LittleEndian.PutUint32(buf[12:], st.Nlink)
	return Success
}

func (t *Table) sysMkdir(pathAddr, _, _ uint32) int32 {
	p, res := t.path(pathAddr)
	if res != Success {
		return res
	}

	_, err := t.cfg.FS.Mkdir(p)
	return ResultFor(err)
}

func (t *Table) sysGetTime(_, _, _ uint32) int32 {
	return int32(uint32(t.cfg.Clock.Ticks()))
}

func (t *Table) sysUptime(_, _, _ uint32) int32 {
	return int32(t.cfg.Clock.UptimeSeconds())
}
