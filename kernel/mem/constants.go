package mem

const (
	// PointerShift is equal to log2(unsafe.Sizeof(uint32)). The pointer
	// size of the i386 target is (1 << PointerShift).
	PointerShift = 2

	// PageShift is equal to log2(PageSize).
	PageShift = 12

	// PageSize defines the system's page size in bytes.
	PageSize = Size(1 << PageShift)
)

// Align rounds size up to the next multiple of alignment, which must be a
// power of 2.
func Align(size, alignment Size) Size {
	return (size + alignment - 1) &^ (alignment - 1)
}
