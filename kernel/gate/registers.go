package gate

import (
	"claudeos/kernel/kfmt"
	"io"
)

// Registers contains a snapshot of all register values when an exception,
// interrupt or syscall occurs. The layout mirrors the frame pushed by the
// entry stubs: the general registers, the vector number and error code and
// the return frame consumed by IRET.
type Registers struct {
	EAX uint32
	EBX uint32
	ECX uint32
	EDX uint32
	ESI uint32
	EDI uint32
	EBP uint32
	ESP uint32

	// Vector is the interrupt number that triggered the entry stub.
	Vector uint32

	// ErrCode contains the CPU-supplied error code for exceptions that
	// push one and 0 for every other entry.
	ErrCode uint32

	// The return frame used by IRET
	EIP    uint32
	CS     uint32
	EFlags uint32
}

// DumpTo outputs the register contents to w.
func (r *Registers) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "EAX = %8x EBX = %8x\n", r.EAX, r.EBX)
	kfmt.Fprintf(w, "ECX = %8x EDX = %8x\n", r.ECX, r.EDX)
	kfmt.Fprintf(w, "ESI = %8x EDI = %8x\n", r.ESI, r.EDI)
	kfmt.Fprintf(w, "EBP = %8x ESP = %8x\n", r.EBP, r.ESP)
	kfmt.Fprintf(w, "\n")
	kfmt.Fprintf(w, "INT = %8x ERR = %8x\n", r.Vector, r.ErrCode)
	kfmt.Fprintf(w, "EIP = %8x CS  = %8x\n", r.EIP, r.CS)
	kfmt.Fprintf(w, "EFL = %8x\n", r.EFlags)
}
