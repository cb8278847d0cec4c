package kfmt

import "io"

// earlyLogSize is the number of bytes of Printf output retained until an
// output sink is registered. It holds a full 80x25 screen of boot messages.
const earlyLogSize = 4096

// earlyLog captures Printf output emitted before the console is ready. Once
// full, each new byte overwrites the oldest one and the loss is counted so
// that it can be reported when the log is flushed.
type earlyLog struct {
	data    [earlyLogSize]byte
	start   int
	length  int
	dropped uint64
}

// Write appends p to the log. It never fails.
func (l *earlyLog) Write(p []byte) (int, error) {
	for _, b := range p {
		l.data[(l.start+l.length)%earlyLogSize] = b
		if l.length < earlyLogSize {
			l.length++
			continue
		}

		l.start = (l.start + 1) % earlyLogSize
		l.dropped++
	}

	return len(p), nil
}

// Len returns the number of buffered bytes.
func (l *earlyLog) Len() int {
	return l.length
}

// Dropped returns the number of bytes overwritten since the last flush.
func (l *earlyLog) Dropped() uint64 {
	return l.dropped
}

// WriteTo flushes the buffered output to w and empties the log. If older
// output was overwritten, a notice with the number of lost bytes is written
// first. The notice is not included in the returned byte count.
func (l *earlyLog) WriteTo(w io.Writer) (int64, error) {
	if l.dropped != 0 {
		Fprintf(w, "[KERNEL] early log: %d bytes dropped\n", l.dropped)
		l.dropped = 0
	}

	var total int64
	for l.length != 0 {
		end := l.start + l.length
		if end > earlyLogSize {
			end = earlyLogSize
		}

		n, err := w.Write(l.data[l.start:end])
		total += int64(n)
		l.start = (l.start + n) % earlyLogSize
		l.length -= n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}

	return total, nil
}
