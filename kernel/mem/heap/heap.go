// Package heap implements the kernel heap: a bump allocator over a fixed
// arena. Memory handed out by the allocator is never reclaimed.
package heap

import (
	"claudeos/kernel"
	"claudeos/kernel/kfmt"
	"claudeos/kernel/mem"
	"io"
)

const (
	// Start is the address of the first byte of the heap arena.
	Start uintptr = 0x200000

	// Size is the size of the heap arena.
	Size = 4 * mem.Mb

	// End is the address following the last byte of the heap arena.
	End = Start + uintptr(Size)

	// minAlign is the granularity of every allocation.
	minAlign mem.Size = 4

	oomFg uint8 = 15 // white
	oomBg uint8 = 4  // red
)

var (
	errNotInitialized = &kernel.Error{Module: "heap", Message: "allocator not initialized"}
	errZeroSize       = &kernel.Error{Module: "heap", Message: "zero-sized allocation"}
	errBadAlignment   = &kernel.Error{Module: "heap", Message: "alignment must be a power of 2"}
	errOutOfMemory    = &kernel.Error{Module: "heap", Message: "out of memory"}
	errBadAddress     = &kernel.Error{Module: "heap", Message: "address outside the heap arena"}
)

// Block describes an allocated span of the heap arena. The zero Block is the
// null span returned by failed allocations.
type Block struct {
	Addr uintptr
	Size mem.Size
}

// IsNull returns true for the null span.
func (b Block) IsNull() bool {
	return b.Addr == 0
}

// End returns the address following the last byte of the block.
func (b Block) End() uintptr {
	return b.Addr + uintptr(b.Size)
}

// colorSink is implemented by output sinks that support changing colors.
type colorSink interface {
	io.Writer
	Colors() (fg, bg uint8)
	SetColors(fg, bg uint8)
}

// Allocator is a monotone high-water-mark allocator. The mark never moves
// backwards and failed allocations leave it untouched.
type Allocator struct {
	arena       []byte
	current     uintptr
	initialized bool
}

// New returns an allocator backed by a zeroed arena of Size bytes.
func New() *Allocator {
	return &Allocator{
		arena:   make([]byte, Size),
		current: Start,
	}
}

// Init resets the mark to the start of the arena and enables allocations.
func (a *Allocator) Init() {
	a.current = Start
	a.initialized = true
	kfmt.Printf("[KERNEL] Heap initialized (%s at 0x%x)\n", Size, Start)
}

// Alloc reserves size bytes rounded up to a multiple of 4.
func (a *Allocator) Alloc(size mem.Size) (Block, *kernel.Error) {
	return a.alloc(size, minAlign)
}

// AllocAligned reserves size bytes (rounded up to a multiple of 4) starting
// at an address that is a multiple of alignment.
func (a *Allocator) AllocAligned(size, alignment mem.Size) (Block, *kernel.Error) {
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return Block{}, errBadAlignment
	}
	return a.alloc(size, alignment)
}

func (a *Allocator) alloc(size, alignment mem.Size) (Block, *kernel.Error) {
	if !a.initialized {
		return Block{}, errNotInitialized
	}

	if size == 0 {
		return Block{}, errZeroSize
	}

	// Rounding either value must not wrap around.
	if size > Size || alignment > mem.Size(End) {
		a.outOfMemory()
		return Block{}, errOutOfMemory
	}

	addr := uintptr(mem.Align(mem.Size(a.current), alignment))
	size = mem.Align(size, minAlign)
	if addr > End || uint64(size) > uint64(End-addr) {
		a.outOfMemory()
		return Block{}, errOutOfMemory
	}

	a.current = addr + uintptr(size)
	return Block{Addr: addr, Size: size}, nil
}

// outOfMemory prints the exhaustion banner in white on red.
func (a *Allocator) outOfMemory() {
	sink, ok := kfmt.OutputSink().(colorSink)
	if !ok {
		kfmt.Printf("\n*** KERNEL: OUT OF MEMORY ***\n")
		return
	}

	fg, bg := sink.Colors()
	sink.SetColors(oomFg, oomBg)
	kfmt.Fprintf(sink, "\n*** KERNEL: OUT OF MEMORY ***\n")
	sink.SetColors(fg, bg)
}

// Free is a no-op; the bump allocator never reclaims memory.
func (a *Allocator) Free(Block) {}

// Used returns the number of bytes between the start of the arena and the
// mark.
func (a *Allocator) Used() mem.Size {
	return mem.Size(a.current - Start)
}

// Available returns the number of bytes between the mark and the end of the
// arena.
func (a *Allocator) Available() mem.Size {
	return mem.Size(End - a.current)
}

// Bytes returns the arena contents backing b.
func (a *Allocator) Bytes(b Block) []byte {
	data, err := a.Slice(b.Addr, b.Size)
	if err != nil {
		return nil
	}
	return data
}

// Slice returns the size bytes of the arena starting at addr.
func (a *Allocator) Slice(addr uintptr, size mem.Size) ([]byte, *kernel.Error) {
	if addr < Start || addr > End || uint64(size) > uint64(End-addr) {
		return nil, errBadAddress
	}

	off := addr - Start
	return a.arena[off : off+uintptr(size) : off+uintptr(size)], nil
}

// CString returns the NUL-terminated string stored at addr. At most max
// bytes are examined.
func (a *Allocator) CString(addr uintptr, max mem.Size) (string, *kernel.Error) {
	if addr >= End {
		return "", errBadAddress
	}
	if avail := mem.Size(End - addr); max > avail {
		max = avail
	}

	data, err := a.Slice(addr, max)
	if err != nil {
		return "", err
	}

	for i, b := range data {
		if b == 0 {
			return string(data[:i]), nil
		}
	}
	return string(data), nil
}
