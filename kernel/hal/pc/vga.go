package pc

const (
	textColumns = 80
	textRows    = 25

	crtcCursorHigh = 0x0E
	crtcCursorLow  = 0x0F

	dacEntries = 256
)

// vgaAdapter models the text memory, the CRT controller registers and the
// DAC palette of a color VGA card in mode 0x3.
type vgaAdapter struct {
	text []uint16

	crtcIndex uint8
	crtc      [256]uint8

	dacIndex     uint8
	dacComponent int
	dac          [dacEntries][3]uint8
}

func newVGA() vgaAdapter {
	return vgaAdapter{text: make([]uint16, textColumns*textRows)}
}

func (v *vgaAdapter) writeDAC(val uint8) {
	v.dac[v.dacIndex][v.dacComponent] = val & 0x3F
	if v.dacComponent++; v.dacComponent == 3 {
		v.dacComponent = 0
		v.dacIndex++
	}
}

// cursor returns the 0-based cursor cell.
func (v *vgaAdapter) cursor() (x, y int) {
	pos := int(v.crtc[crtcCursorHigh])<<8 | int(v.crtc[crtcCursorLow])
	return pos % textColumns, pos / textColumns
}
