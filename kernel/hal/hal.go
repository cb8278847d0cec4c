// Package hal probes the machine for the devices registered with the device
// package and links the first console with the first terminal.
package hal

import (
	"bytes"
	"claudeos/device"
	"claudeos/device/keyboard"
	"claudeos/device/tty"
	"claudeos/device/video/console"
	"claudeos/kernel/kfmt"
	"io"
	"sort"
)

// Devices contains the devices discovered by the HAL.
type Devices struct {
	Console  console.Device
	TTY      tty.Device
	Keyboard *keyboard.PS2

	// Drivers tracks all initialized device drivers in probe order.
	Drivers []device.Driver
}

// DetectHardware probes for hardware devices on bus and initializes the
// appropriate drivers. Driver log output is written to w with a
// "[hal] name(version): " prefix per line.
func DetectHardware(bus device.Bus, w io.Writer) *Devices {
	// Get driver list and sort by detection priority
	drivers := device.DriverList()
	sort.Stable(drivers)

	if w == nil {
		w = io.Discard
	}

	devices := &Devices{}
	devices.probe(bus, drivers, w)
	return devices
}

// probe executes the probe function for each driver and invokes
// onDriverInit for each successfully initialized driver.
func (d *Devices) probe(bus device.Bus, driverInfoList device.DriverInfoList, sink io.Writer) {
	var (
		strBuf bytes.Buffer
		w      = kfmt.PrefixWriter{Sink: sink}
	)

	for _, info := range driverInfoList {
		drv := info.Probe(bus)
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.SetPrefix(strBuf.String())

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		d.onDriverInit(drv)
		d.Drivers = append(d.Drivers, drv)
	}
}

// onDriverInit is invoked by probe() whenever a piece of hardware is detected
// and successfully initialized.
func (d *Devices) onDriverInit(drv device.Driver) {
	switch drvImpl := drv.(type) {
	case console.Device:
		if d.Console != nil {
			return
		}

		d.Console = drvImpl
		if d.TTY != nil {
			d.linkTTYToConsole()
		}
	case tty.Device:
		if d.TTY != nil {
			return
		}

		d.TTY = drvImpl
		if d.Console != nil {
			d.linkTTYToConsole()
		}
	case *keyboard.PS2:
		if d.Keyboard == nil {
			d.Keyboard = drvImpl
		}
	}
}

// linkTTYToConsole connects the active TTY device to the active console device
// and syncs their contents.
func (d *Devices) linkTTYToConsole() {
	d.TTY.AttachTo(d.Console)
	kfmt.SetOutputSink(d.TTY)

	// Sync terminal contents with console
	d.TTY.SetState(tty.StateActive)
}
