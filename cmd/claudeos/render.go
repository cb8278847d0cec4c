package main

import (
	"bytes"
	"claudeos/device/video/console"
	"io"
	"slices"
	"strconv"
)

const (
	screenCols = 80
	screenRows = 25
)

// vgaToANSI maps the low three bits of a VGA color to the ANSI color with
// the same hue.
var vgaToANSI = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// Screen is the part of the board the renderer reads.
type Screen interface {
	Snapshot(dst []uint16) []uint16
	Cursor() (x, y int)
}

// renderer mirrors VGA text memory on an ANSI terminal. Frames identical to
// the previous one are skipped.
type renderer struct {
	out   io.Writer
	buf   bytes.Buffer
	cells []uint16
	prev  []uint16
	cx    int
	cy    int
	drawn bool
}

func newRenderer(out io.Writer) *renderer {
	return &renderer{out: out}
}

// Render draws the current contents of s.
func (r *renderer) Render(s Screen) error {
	r.cells = s.Snapshot(r.cells)
	cx, cy := s.Cursor()
	if r.drawn && cx == r.cx && cy == r.cy && slices.Equal(r.cells, r.prev) {
		return nil
	}

	r.buf.Reset()
	r.buf.WriteString("\x1b[?25l\x1b[H")

	attr := -1
	for i, cell := range r.cells {
		if i != 0 && i%screenCols == 0 {
			r.buf.WriteString("\r\n")
		}

		if a := int(cell >> 8); a != attr {
			attr = a
			writeSGR(&r.buf, uint8(a))
		}

		ch := console.DecodeByte(byte(cell))
		if ch == 0 {
			ch = ' '
		}
		r.buf.WriteRune(ch)
	}

	r.buf.WriteString("\x1b[0m\x1b[")
	r.buf.WriteString(strconv.Itoa(cy + 1))
	r.buf.WriteByte(';')
	r.buf.WriteString(strconv.Itoa(cx + 1))
	r.buf.WriteString("H\x1b[?25h")

	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		return err
	}

	r.prev = append(r.prev[:0], r.cells...)
	r.cx, r.cy, r.drawn = cx, cy, true
	return nil
}

// Invalidate forces the next Render to redraw the whole screen.
func (r *renderer) Invalidate() {
	r.drawn = false
}

// writeSGR selects the colors of a VGA attribute byte.
func writeSGR(w *bytes.Buffer, attr uint8) {
	fg, bg := attr&0x0F, (attr>>4)&0x0F

	w.WriteString("\x1b[")
	w.WriteString(strconv.Itoa(ansiColor(fg, 30, 90)))
	w.WriteByte(';')
	w.WriteString(strconv.Itoa(ansiColor(bg, 40, 100)))
	w.WriteByte('m')
}

func ansiColor(c uint8, normal, bright int) int {
	if c >= 8 {
		return bright + vgaToANSI[c-8]
	}
	return normal + vgaToANSI[c]
}
