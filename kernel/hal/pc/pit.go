package pc

import (
	"context"
	"time"
)

const (
	pitFrequency = 1193182

	pitAccessLoHi = 3

	// minTickPeriod bounds the wall-clock tick rate the host can keep up
	// with.
	minTickPeriod = time.Millisecond
)

// pit8254 models channel 0 of the interval timer.
type pit8254 struct {
	mode    uint8
	access  uint8
	lowNext bool
	low     uint8
	divisor uint32
}

func (p *pit8254) writeCommand(val uint8) {
	if val>>6 != 0 {
		// Only channel 0 is wired to an interrupt line.
		return
	}

	p.access = (val >> 4) & 3
	p.mode = (val >> 1) & 7
	p.lowNext = true
}

// writeData latches a byte of the reload value and reports whether the
// divisor changed.
func (p *pit8254) writeData(val uint8) bool {
	if p.access == pitAccessLoHi && p.lowNext {
		p.low = val
		p.lowNext = false
		return false
	}

	divisor := uint32(val)<<8 | uint32(p.low)
	if p.access != pitAccessLoHi {
		divisor = uint32(val)
	}
	if divisor == 0 {
		divisor = 0x10000
	}

	p.divisor = divisor
	p.lowNext = true
	return true
}

// period returns the interval between two IRQ0 edges or 0 if channel 0 has
// not been programmed.
func (p *pit8254) period() time.Duration {
	if p.divisor == 0 {
		return 0
	}

	period := time.Duration(uint64(p.divisor) * uint64(time.Second) / pitFrequency)
	if period < minTickPeriod {
		period = minTickPeriod
	}
	return period
}

// runClock raises IRQ0 at the rate programmed into channel 0 until ctx is
// done or the machine stops.
func (b *Board) runClock(ctx context.Context) error {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.stopped:
			return nil
		case <-b.pitChanged:
			b.lock.Acquire()
			period := b.pit.period()
			b.lock.Release()

			if ticker == nil {
				ticker = time.NewTicker(period)
				tick = ticker.C
			} else {
				ticker.Reset(period)
			}
		case <-tick:
			b.RaiseIRQ(0)
		}
	}
}
