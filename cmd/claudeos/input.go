package main

import (
	"claudeos/device/keyboard"
	"claudeos/kernel/hal/pc"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// quitKey (Ctrl-]) stops the runner. Every other key goes to the machine.
const quitKey byte = 0x1D

const pollInterval = 100 * time.Millisecond

const (
	statePlain uint8 = iota
	stateEsc
	stateCSI
)

// inputDecoder turns the bytes sent by a host terminal in raw mode into the
// key codes understood by the keyboard driver.
type inputDecoder struct {
	state uint8
}

// Feed consumes c and returns the key it completes, if any.
func (d *inputDecoder) Feed(c byte) (byte, bool) {
	switch d.state {
	case stateEsc:
		if c == '[' {
			d.state = stateCSI
			return 0, false
		}
		// Alt combinations have no PS/2 mapping here.
		d.state = statePlain
		return 0, false
	case stateCSI:
		if c < 0x40 || c > 0x7E {
			return 0, false
		}

		d.state = statePlain
		switch c {
		case 'A':
			return keyboard.KeyUp, true
		case 'B':
			return keyboard.KeyDown, true
		case 'C':
			return keyboard.KeyRight, true
		case 'D':
			return keyboard.KeyLeft, true
		}
		return 0, false
	}

	switch c {
	case 0x1B:
		d.state = stateEsc
		return 0, false
	case '\r':
		return '\n', true
	case 0x7F:
		return '\b', true
	}
	return c, true
}

// pumpInput types the host's standard input on the machine currently stored
// in target until ctx is done, the input ends (done is closed) or the quit
// key is pressed (quit is called). A negative fd is read without polling.
func pumpInput(ctx context.Context, fd int, in io.Reader, target *atomic.Pointer[pc.Board], quit func(), done chan<- struct{}) error {
	var (
		dec   inputDecoder
		buf   [64]byte
		codes []uint8
	)

	for ctx.Err() == nil {
		if fd >= 0 {
			ready, err := waitReadable(fd, pollInterval)
			if err != nil {
				return fmt.Errorf("poll stdin: %w", err)
			}
			if !ready {
				continue
			}
		}

		n, err := in.Read(buf[:])
		codes = codes[:0]
		for _, c := range buf[:n] {
			if c == quitKey && dec.state == statePlain {
				quit()
				return nil
			}

			if key, ok := dec.Feed(c); ok {
				codes = append(codes, keyboard.Encode(key)...)
			}
		}

		if b := target.Load(); b != nil && len(codes) != 0 {
			b.PushScancodes(codes...)
		}

		switch {
		case err == io.EOF:
			close(done)
			return nil
		case err != nil:
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	return nil
}
