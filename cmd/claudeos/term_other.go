//go:build !linux

package main

import (
	"errors"
	"time"
)

var errNoRawMode = errors.New("raw terminal mode is only supported on linux")

func isTerminal(int) bool {
	return false
}

func makeRaw(int) (func() error, error) {
	return nil, errNoRawMode
}

// waitReadable always reports fd as readable; reads block instead.
func waitReadable(int, time.Duration) (bool, error) {
	return true, nil
}
