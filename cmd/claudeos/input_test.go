package main

import (
	"bytes"
	"claudeos/device/keyboard"
	"claudeos/kernel/hal/pc"
	"context"
	"strings"
	"sync/atomic"
	"testing"
)

func TestInputDecoder(t *testing.T) {
	specs := []struct {
		input string
		exp   []byte
	}{
		{"ls\r", []byte("ls\n")},
		{"ab\x7f", []byte("ab\b")},
		{"\x1b[A\x1b[B\x1b[C\x1b[D", []byte{keyboard.KeyUp, keyboard.KeyDown, keyboard.KeyRight, keyboard.KeyLeft}},
		{"\x1b[1;5Ax", []byte{keyboard.KeyUp, 'x'}},
		{"\x1b[Zy", []byte("y")},
		{"\x1bxz", []byte("z")},
		{"\x03", []byte{keyboard.KeyCtrlC}},
	}

	for specIndex, spec := range specs {
		var (
			dec inputDecoder
			got []byte
		)
		for i := 0; i < len(spec.input); i++ {
			if key, ok := dec.Feed(spec.input[i]); ok {
				got = append(got, key)
			}
		}

		if !bytes.Equal(got, spec.exp) {
			t.Errorf("[spec %d] expected %q to decode to % x; got % x", specIndex, spec.input, spec.exp, got)
		}
	}
}

func TestPumpInput(t *testing.T) {
	t.Run("end of input", func(t *testing.T) {
		var (
			b      = pc.New(pc.Config{})
			target atomic.Pointer[pc.Board]
			done   = make(chan struct{})
			quit   bool
		)
		target.Store(b)

		err := pumpInput(context.Background(), -1, strings.NewReader("ok\r"), &target, func() { quit = true }, done)
		if err != nil {
			t.Fatal(err)
		}

		select {
		case <-done:
		default:
			t.Fatal("expected the done channel to be closed at end of input")
		}

		if quit {
			t.Fatal("expected quit not to be called")
		}
	})

	t.Run("quit key", func(t *testing.T) {
		var (
			target atomic.Pointer[pc.Board]
			done   = make(chan struct{})
			quit   bool
		)

		err := pumpInput(context.Background(), -1, strings.NewReader("a\x1drest"), &target, func() { quit = true }, done)
		if err != nil {
			t.Fatal(err)
		}

		if !quit {
			t.Fatal("expected the quit key to stop the runner")
		}
	})
}
