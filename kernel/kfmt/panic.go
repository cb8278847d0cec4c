package kfmt

import (
	"claudeos/kernel"
	"claudeos/kernel/cpu"
	"runtime"
)

// Screen is implemented by output sinks that can change the active colors
// and wipe the display.
type Screen interface {
	SetColors(fg, bg uint8)
	Clear()
}

const (
	panicFg uint8 = 15 // white
	panicBg uint8 = 4  // red

	panicRule = "============================================================================"
)

var (
	// panicCore is the processor stopped by Panic.
	panicCore cpu.Core

	// cpuHaltFn is mocked by tests.
	cpuHaltFn = haltCore

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// SetPanicCore registers the processor that Panic halts.
func SetPanicCore(core cpu.Core) {
	panicCore = core
}

// Panic paints the panic screen on the active output sink, prints the
// supplied error (if not nil) and halts the CPU. Calls to Panic never return.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	if screen, ok := outputSink.(Screen); ok {
		screen.SetColors(panicFg, panicBg)
		screen.Clear()
	}

	Printf("\n\n")
	Printf("  %s\n", panicRule)
	Printf("%38s\n", "KERNEL PANIC")
	Printf("  %s\n\n", panicRule)
	if err != nil {
		Printf("  Error: [%s] %s\n\n", err.Module, err.Message)
	}
	Printf("  The system has been halted to prevent damage.\n")
	Printf("  Please restart your computer.\n\n")
	Printf("  %s\n", panicRule)

	cpuHaltFn()
}

// haltCore stops the registered processor with interrupts disabled. Without
// a registered processor the calling goroutine is terminated instead.
func haltCore() {
	if panicCore == nil {
		runtime.Goexit()
	}

	panicCore.DisableInterrupts()
	for {
		panicCore.Halt()
	}
}
