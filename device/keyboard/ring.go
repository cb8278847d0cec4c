package keyboard

// ringSize is the capacity of the key buffer. One slot is kept free to tell
// a full ring from an empty one.
const ringSize = 256

// ring is a single-producer single-consumer byte queue. The producer is the
// IRQ1 handler; bytes arriving while the ring is full are dropped.
type ring struct {
	buf  [ringSize]byte
	head uint32
	tail uint32
}

func (r *ring) put(b byte) bool {
	next := (r.head + 1) % ringSize
	if next == r.tail {
		return false
	}

	r.buf[r.head] = b
	r.head = next
	return true
}

func (r *ring) get() (byte, bool) {
	if r.head == r.tail {
		return 0, false
	}

	b := r.buf[r.tail]
	r.tail = (r.tail + 1) % ringSize
	return b, true
}

func (r *ring) empty() bool {
	return r.head == r.tail
}

func (r *ring) len() int {
	return int((r.head + ringSize - r.tail) % ringSize)
}
