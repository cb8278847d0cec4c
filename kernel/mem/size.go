package mem

import "strconv"

// Size represents a memory block size in bytes.
type Size uint64

// Common memory block sizes.
const (
	Byte Size = 1
	Kb        = 1024 * Byte
	Mb        = 1024 * Kb
	Gb        = 1024 * Mb
)

// String renders s using the largest unit that divides it exactly, e.g. "4MB"
// for the kernel heap or "1536B" for an odd-sized block.
func (s Size) String() string {
	switch {
	case s == 0:
		return "0B"
	case s%Gb == 0:
		return strconv.FormatUint(uint64(s/Gb), 10) + "GB"
	case s%Mb == 0:
		return strconv.FormatUint(uint64(s/Mb), 10) + "MB"
	case s%Kb == 0:
		return strconv.FormatUint(uint64(s/Kb), 10) + "KB"
	default:
		return strconv.FormatUint(uint64(s), 10) + "B"
	}
}
