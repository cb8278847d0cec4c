package kmain

import (
	"claudeos/kernel/timer"
	"io/fs"
	"strconv"
)

// Config holds the boot options of the kernel.
type Config struct {
	// Hz is the tick rate of the timer.
	Hz uint32

	// NoBanner skips the boot banner.
	NoBanner bool

	// Quiet skips the driver probe log.
	Quiet bool

	// Overlay, if set, is copied into /mnt after the seed tree is built.
	Overlay fs.FS
}

// ParseConfig extracts the kernel options from the boot command line. Keys
// the kernel does not know are ignored; drivers read their own keys.
func ParseConfig(cmdLine map[string]string) Config {
	cfg := Config{Hz: timer.DefaultHz}

	if v, ok := cmdLine["hz"]; ok {
		if hz, err := strconv.ParseUint(v, 10, 32); err == nil && hz != 0 {
			cfg.Hz = uint32(hz)
		}
	}

	_, cfg.NoBanner = cmdLine["nobanner"]
	_, cfg.Quiet = cmdLine["quiet"]
	return cfg
}
