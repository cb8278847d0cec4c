package pc

const (
	icw1Init  uint8 = 0x10
	icw1ICW4  uint8 = 0x01
	ocw3      uint8 = 0x08
	ocw3Read  uint8 = 0x02
	ocw3ISR   uint8 = 0x01
	ocw2EOI   uint8 = 0x20
	ocw2Level uint8 = 0x40

	// The vector bases programmed by the BIOS before the kernel remaps
	// the controllers.
	biosMasterOffset uint8 = 0x08
	biosSlaveOffset  uint8 = 0x70

	cascadeLine = 2
)

// pic8259 models one 8259A controller. Lines are edge triggered: a raised
// line stays requested in irr until the processor acknowledges it.
type pic8259 struct {
	irr uint8
	isr uint8
	imr uint8

	offset  uint8
	cascade uint8

	// icwStep is the initialization word expected next on the data port;
	// 0 once initialization completes.
	icwStep   int
	needICW4  bool
	readISR   bool
	eoiCount  int
	initCount int
}

func newPIC(offset uint8) pic8259 {
	return pic8259{offset: offset}
}

func (p *pic8259) writeCommand(val uint8) {
	switch {
	case val&icw1Init != 0:
		p.icwStep = 2
		p.needICW4 = val&icw1ICW4 != 0
		p.imr = 0
		p.isr = 0
		p.readISR = false
		p.initCount++
	case val&ocw3 != 0:
		if val&ocw3Read != 0 {
			p.readISR = val&ocw3ISR != 0
		}
	case val&ocw2EOI != 0:
		if val&ocw2Level != 0 {
			p.isr &^= 1 << (val & 7)
		} else {
			p.isr &^= p.isr & -p.isr
		}
		p.eoiCount++
	}
}

func (p *pic8259) readCommand() uint8 {
	if p.readISR {
		return p.isr
	}
	return p.irr
}

func (p *pic8259) writeData(val uint8) {
	switch p.icwStep {
	case 2:
		p.offset = val &^ 7
		p.icwStep = 3
	case 3:
		p.cascade = val
		p.icwStep = 0
		if p.needICW4 {
			p.icwStep = 4
		}
	case 4:
		p.icwStep = 0
	default:
		p.imr = val
	}
}

func (p *pic8259) readData() uint8 {
	return p.imr
}

// pending returns the highest priority line that is requested, unmasked and
// not blocked by a line of equal or higher priority in service.
func (p *pic8259) pending() (uint8, bool) {
	if p.icwStep != 0 {
		return 0, false
	}

	for line := uint8(0); line < 8; line++ {
		bit := uint8(1) << line
		if p.isr&bit != 0 {
			return 0, false
		}
		if p.irr&bit != 0 && p.imr&bit == 0 {
			return line, true
		}
	}
	return 0, false
}

// acknowledge moves line from irr to isr.
func (p *pic8259) acknowledge(line uint8) {
	bit := uint8(1) << line
	p.irr &^= bit
	p.isr |= bit
}
