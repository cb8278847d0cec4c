package pc

const (
	portMasterCommand uint16 = 0x20
	portMasterData    uint16 = 0x21
	portSlaveCommand  uint16 = 0xA0
	portSlaveData     uint16 = 0xA1
	portPITChannel0   uint16 = 0x40
	portPITCommand    uint16 = 0x43
	portKbcData       uint16 = 0x60
	portKbcStatus     uint16 = 0x64
	portCRTCIndex     uint16 = 0x3D4
	portCRTCData      uint16 = 0x3D5
	portDACIndex      uint16 = 0x3C8
	portDACData       uint16 = 0x3C9
	portPOST          uint16 = 0x80

	// floatingBus is read from ports no device decodes.
	floatingBus uint8 = 0xFF
)

// PortReadByte reads a byte from an I/O port.
func (b *Board) PortReadByte(port uint16) uint8 {
	b.lock.Acquire()
	defer b.lock.Release()

	switch port {
	case portMasterCommand:
		return b.master.readCommand()
	case portMasterData:
		return b.master.readData()
	case portSlaveCommand:
		return b.slave.readCommand()
	case portSlaveData:
		return b.slave.readData()
	case portKbcData:
		code := b.kbc.read()
		// The controller deasserts IRQ1 once its output buffer drains.
		if len(b.kbc.queue) != 0 {
			b.raise(1)
		} else {
			b.lower(1)
		}
		return code
	case portKbcStatus:
		return b.kbc.status()
	case portCRTCIndex:
		return b.vga.crtcIndex
	case portCRTCData:
		return b.vga.crtc[b.vga.crtcIndex]
	case portPITChannel0:
		return 0
	}

	return floatingBus
}

// PortWriteByte writes a byte to an I/O port. Writing 0xFE to the keyboard
// controller command port resets the machine.
func (b *Board) PortWriteByte(port uint16, val uint8) {
	var pitChanged, reset bool

	b.lock.Acquire()
	switch port {
	case portMasterCommand:
		b.master.writeCommand(val)
	case portMasterData:
		b.master.writeData(val)
	case portSlaveCommand:
		b.slave.writeCommand(val)
	case portSlaveData:
		b.slave.writeData(val)
	case portPITCommand:
		b.pit.writeCommand(val)
	case portPITChannel0:
		pitChanged = b.pit.writeData(val)
	case portKbcStatus:
		reset = val == kbcCmdReset
	case portCRTCIndex:
		b.vga.crtcIndex = val
	case portCRTCData:
		b.vga.crtc[b.vga.crtcIndex] = val
	case portDACIndex:
		b.vga.dacIndex = val
		b.vga.dacComponent = 0
	case portDACData:
		b.vga.writeDAC(val)
	case portPOST:
		b.postWrites++
	}
	b.lock.Release()

	if pitChanged {
		notify(b.pitChanged)
	}

	if reset {
		b.stop(Reset)
		stopCPUFn()
	}
}
