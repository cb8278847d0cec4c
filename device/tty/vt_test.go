package tty

import (
	"bytes"
	"claudeos/device"
	"claudeos/device/video/console"
	"claudeos/kernel/cpu"
	"claudeos/kernel/cpu/mockcpu"
	"image/color"
	"io"
	"testing"

	"go.uber.org/mock/gomock"
)

func TestVtPosition(t *testing.T) {
	specs := []struct {
		inX, inY   uint32
		expX, expY uint32
	}{
		{20, 20, 20, 20},
		{100, 20, 80, 20},
		{10, 200, 10, 25},
		{10, 200, 10, 25},
		{100, 100, 80, 25},
	}

	var term Device = NewVT(8, 0)

	// SetCursorPosition without an attached console is a no-op
	term.SetCursorPosition(2, 2)

	if curX, curY := term.CursorPosition(); curX != 1 || curY != 1 {
		t.Fatalf("expected terminal initial position to be (1, 1); got (%d, %d)", curX, curY)
	}

	cons := newMockConsole(80, 25)
	term.AttachTo(cons)

	for specIndex, spec := range specs {
		term.SetCursorPosition(spec.inX, spec.inY)
		if x, y := term.CursorPosition(); x != spec.expX || y != spec.expY {
			t.Errorf("[spec %d] expected setting position to (%d, %d) to update the position to (%d, %d); got (%d, %d)", specIndex, spec.inX, spec.inY, spec.expX, spec.expY, x, y)
		}
	}
}

func TestVtWrite(t *testing.T) {
	t.Run("inactive terminal", func(t *testing.T) {
		cons := newMockConsole(80, 25)

		term := NewVT(8, 0)
		if _, err := term.Write([]byte("foo")); err != io.ErrClosedPipe {
			t.Fatal("expected calling Write on a terminal without an attached console to return ErrClosedPipe")
		}

		term.AttachTo(cons)

		term.curFg = 2
		term.curBg = 3

		data := []byte("\b123\b4\t5\n67\r68")
		count, err := term.Write(data)
		if err != nil {
			t.Fatal(err)
		}

		if count != len(data) {
			t.Fatalf("expected to write %d bytes; wrote %d", len(data), count)
		}

		if cons.bytesWritten != 0 {
			t.Fatalf("expected writes not to be synced with console when terminal is inactive; %d bytes written", cons.bytesWritten)
		}

		specs := []struct {
			x, y    uint32
			expByte uint8
		}{
			{1, 1, '1'},
			{2, 1, '2'},
			{3, 1, '4'},
			{9, 1, '5'}, // next tab stop
			{1, 2, '6'},
			{2, 2, '8'},
		}

		for specIndex, spec := range specs {
			offset := ((spec.y - 1) * term.viewportWidth * 3) + ((spec.x - 1) * 3)
			if term.data[offset] != spec.expByte {
				t.Errorf("[spec %d] expected char at (%d, %d) to be %q; got %q", specIndex, spec.x, spec.y, spec.expByte, term.data[offset])
			}

			if term.data[offset+1] != term.curFg {
				t.Errorf("[spec %d] expected fg attribute at (%d, %d) to be %d; got %d", specIndex, spec.x, spec.y, term.curFg, term.data[offset+1])
			}

			if term.data[offset+2] != term.curBg {
				t.Errorf("[spec %d] expected bg attribute at (%d, %d) to be %d; got %d", specIndex, spec.x, spec.y, term.curBg, term.data[offset+2])
			}
		}
	})

	t.Run("active terminal", func(t *testing.T) {
		cons := newMockConsole(80, 25)

		term := NewVT(8, 0)
		term.SetState(StateActive)
		term.SetState(StateActive) // calling SetState with the same state is a no-op

		if got := term.State(); got != StateActive {
			t.Fatalf("expected terminal state to be %d; got %d", StateActive, got)
		}

		term.AttachTo(cons)

		term.curFg = 2
		term.curBg = 3

		data := []byte("\b123\b4\t5\n67\r68")
		term.Write(data)

		// The tab only moves the cursor; the second backspace blanks a cell.
		if expCount := 10; cons.bytesWritten != expCount {
			t.Fatalf("expected writes to be synced with console when terminal is active. %d bytes written; expected %d", cons.bytesWritten, expCount)
		}

		specs := []struct {
			x, y    uint32
			expByte uint8
		}{
			{1, 1, '1'},
			{2, 1, '2'},
			{3, 1, '4'},
			{9, 1, '5'}, // next tab stop
			{1, 2, '6'},
			{2, 2, '8'},
		}

		for specIndex, spec := range specs {
			offset := ((spec.y - 1) * cons.width) + (spec.x - 1)
			if cons.chars[offset] != spec.expByte {
				t.Errorf("[spec %d] expected console char at (%d, %d) to be %q; got %q", specIndex, spec.x, spec.y, spec.expByte, cons.chars[offset])
			}

			if cons.fgAttrs[offset] != term.curFg {
				t.Errorf("[spec %d] expected console fg attribute at (%d, %d) to be %d; got %d", specIndex, spec.x, spec.y, term.curFg, cons.fgAttrs[offset])
			}

			if cons.bgAttrs[offset] != term.curBg {
				t.Errorf("[spec %d] expected console bg attribute at (%d, %d) to be %d; got %d", specIndex, spec.x, spec.y, term.curBg, cons.bgAttrs[offset])
			}
		}
	})
}

func TestVtLineFeedHandling(t *testing.T) {
	t.Run("viewport at end of terminal", func(t *testing.T) {
		cons := newMockConsole(80, 25)

		term := NewVT(8, 0)
		term.SetState(StateActive)
		term.AttachTo(cons)

		// Fill last line except the last column which will trigger a
		// line feed. Cursor position will be automatically clipped to
		// the viewport bounds
		term.SetCursorPosition(1, term.viewportHeight+1)
		for i := uint32(0); i < term.viewportWidth-1; i++ {
			term.WriteByte(byte('0' + (i % 10)))
		}

		// Emulate viewportHeight line feeds. The last one should cause a scroll
		term.SetCursorPosition(0, 0) // cursor is set to (1,1)
		for i := uint32(0); i < term.viewportHeight; i++ {
			term.lf(true)
		}

		if cons.scrollUpCount != 1 {
			t.Fatalf("expected console to be scrolled up 1 time; got %d", cons.scrollUpCount)
		}

		// Set cursor one line above the last; this line should now
		// contain the scrolled contents
		term.SetCursorPosition(1, term.viewportHeight-1)
		for col, offset := uint32(1), term.dataOffset; col <= term.viewportWidth; col, offset = col+1, offset+3 {
			expByte := byte('0' + ((col - 1) % 10))
			if col == term.viewportWidth {
				expByte = ' '
			}

			if term.data[offset] != expByte {
				t.Errorf("expected char at (%d, %d) to be %q; got %q", col, term.viewportHeight-1, expByte, term.data[offset])
			}
		}

		// Set cursor to the last line. This line should now be cleared
		term.SetCursorPosition(1, term.viewportHeight)
		for col, offset := uint32(1), term.dataOffset; col <= term.viewportWidth; col, offset = col+1, offset+3 {
			expByte := uint8(' ')
			if term.data[offset] != expByte {
				t.Errorf("expected char at (%d, %d) to be %q; got %q", col, term.viewportHeight, expByte, term.data[offset])
			}
		}
	})

	t.Run("viewport not at end of terminal", func(t *testing.T) {
		cons := newMockConsole(80, 25)

		term := NewVT(8, 1)
		term.SetState(StateActive)
		term.AttachTo(cons)

		// Fill last line except the last column which will trigger a
		// line feed. Cursor position will be automatically clipped to
		// the viewport bounds
		term.SetCursorPosition(1, term.viewportHeight+1)
		for i := uint32(0); i < term.viewportWidth-1; i++ {
			term.WriteByte(byte('0' + (i % 10)))
		}

		// Fill first line including the last column
		term.SetCursorPosition(1, 1)
		for i := uint32(0); i < term.viewportWidth; i++ {
			term.WriteByte(byte('0' + (i % 10)))
		}

		// Emulate viewportHeight line feeds. The last one should cause a scroll
		// in the console but only a viewport adjustment in the terminal
		term.SetCursorPosition(0, 0) // cursor is set to (1,1)
		for i := uint32(0); i < term.viewportHeight; i++ {
			term.lf(true)
		}

		if cons.scrollUpCount != 1 {
			t.Fatalf("expected console to be scrolled up 1 time; got %d", cons.scrollUpCount)
		}

		if expViewportY := uint32(1); term.viewportY != expViewportY {
			t.Fatalf("expected terminal viewportY to be adjusted to %d; got %d", expViewportY, term.viewportY)
		}

		// Check that first line is still available in the terminal buffer
		// that is not currently visible
		term.SetCursorPosition(1, 1)
		offset := term.dataOffset - uint(term.viewportWidth*3)

		for col := uint32(1); col <= term.viewportWidth; col, offset = col+1, offset+3 {
			expByte := byte('0' + ((col - 1) % 10))

			if term.data[offset] != expByte {
				t.Errorf("expected char at hidden region (%d, -1) to be %q; got %q", col, expByte, term.data[offset])
			}
		}
	})
}

func TestVtAttach(t *testing.T) {
	cons := newMockConsole(80, 25)

	term := NewVT(8, 1)

	// AttachTo with a nil console should be a no-op
	term.AttachTo(nil)
	if term.termWidth != 0 || term.termHeight != 0 || term.viewportWidth != 0 || term.viewportHeight != 0 {
		t.Fatal("expected attaching a nil console to be a no-op")
	}

	term.AttachTo(cons)
	if term.termWidth != cons.width ||
		term.termHeight != cons.height+term.scrollback ||
		term.viewportWidth != cons.width ||
		term.viewportHeight != cons.height ||
		term.data == nil {
		t.Fatal("expected the terminal to initialize using the attached console info")
	}
}

func TestVtSetState(t *testing.T) {
	cons := newMockConsole(80, 25)
	term := NewVT(8, 1)
	term.AttachTo(cons)

	// Fill terminal viewport using a rotating pattern. Writing the last
	// character will cause a scroll operation moving the viewport down
	row := 0
	for index := 0; index < int(term.viewportWidth*term.viewportHeight); index++ {
		if index != 0 && index%int(term.viewportWidth) == 0 {
			row++
		}
		term.curFg = uint8((row + index + 1) % 10)
		term.curBg = uint8((row + index + 2) % 10)
		term.WriteByte(byte('0' + (row+index)%10))
	}

	// Activating this terminal should trigger a copy of the terminal viewport
	// contents to the console.
	term.SetState(StateActive)
	row = 1
	for index := 0; index < len(cons.chars); index++ {
		if index != 0 && index%int(cons.width) == 0 {
			row++
		}

		expCh := uint8('0' + (row+index)%10)
		expFg := uint8((row + index + 1) % 10)
		expBg := uint8((row + index + 2) % 10)

		// last line should be cleared due to the scroll operation
		if row == int(cons.height) {
			expCh = ' '
			expFg = 7
			expBg = 0
		}

		if cons.chars[index] != expCh {
			t.Errorf("expected console char at index %d to be %q; got %q", index, expCh, cons.chars[index])
		}

		if cons.fgAttrs[index] != expFg {
			t.Errorf("expected console fg attr at index %d to be %d; got %d", index, expFg, cons.fgAttrs[index])
		}

		if cons.bgAttrs[index] != expBg {
			t.Errorf("expected console bg attr at index %d to be %d; got %d", index, expBg, cons.bgAttrs[index])
		}
	}
}

func TestVTDriverInterface(t *testing.T) {
	var dev device.Driver = NewVT(0, 0)

	if err := dev.DriverInit(nil); err != nil {
		t.Fatal(err)
	}

	if dev.DriverName() == "" {
		t.Fatal("DriverName() returned an empty string")
	}

	if major, minor, patch := dev.DriverVersion(); major+minor+patch == 0 {
		t.Fatal("DriverVersion() returned an invalid version number")
	}
}

type mockBus struct {
	cpu.Machine
	cmdline map[string]string
}

func (b mockBus) TextMemory() []uint16         { return nil }
func (b mockBus) CmdLine() map[string]string { return b.cmdline }

func TestVTProbe(t *testing.T) {
	specs := []struct {
		cmdline       map[string]string
		expScrollback uint32
	}{
		{nil, DefaultScrollback},
		{map[string]string{"scrollback": "100"}, 100},
		{map[string]string{"scrollback": "lots"}, DefaultScrollback},
		{map[string]string{"scrollback": "-1"}, DefaultScrollback},
	}

	for specIndex, spec := range specs {
		drv := probeForVT(mockBus{cmdline: spec.cmdline})
		if drv == nil {
			t.Fatalf("[spec %d] expected probeForVT to return a driver", specIndex)
		}

		if got := drv.(*VT).scrollback; got != spec.expScrollback {
			t.Errorf("[spec %d] expected scrollback to be %d; got %d", specIndex, spec.expScrollback, got)
		}
	}
}

func TestVTDriverInitLogsScrollback(t *testing.T) {
	var buf bytes.Buffer
	if err := NewVT(8, 20).DriverInit(&buf); err != nil {
		t.Fatal(err)
	}

	if exp := "scrollback: 20 lines\n"; buf.String() != exp {
		t.Fatalf("expected init log %q; got %q", exp, buf.String())
	}
}

func TestVtTabStops(t *testing.T) {
	specs := []struct {
		startX     uint32
		expX, expY uint32
	}{
		{1, 9, 1},
		{8, 9, 1},
		{9, 17, 1},
		{72, 73, 1},
		{73, 1, 2},
		{80, 1, 2},
	}

	for specIndex, spec := range specs {
		cons := newMockConsole(80, 25)
		term := NewVT(8, 0)
		term.AttachTo(cons)
		term.SetState(StateActive)

		term.SetCursorPosition(spec.startX, 1)
		cons.bytesWritten = 0
		term.WriteByte('\t')

		if x, y := term.CursorPosition(); x != spec.expX || y != spec.expY {
			t.Errorf("[spec %d] expected tab from column %d to move cursor to (%d, %d); got (%d, %d)", specIndex, spec.startX, spec.expX, spec.expY, x, y)
		}

		if cons.bytesWritten != 0 {
			t.Errorf("[spec %d] expected tab not to write any cells; %d written", specIndex, cons.bytesWritten)
		}
	}
}

func TestVtBackspaceAtLineStart(t *testing.T) {
	cons := newMockConsole(80, 25)
	term := NewVT(8, 0)
	term.AttachTo(cons)
	term.SetState(StateActive)

	term.Write([]byte("ab\n\b"))
	if x, y := term.CursorPosition(); x != 1 || y != 2 {
		t.Fatalf("expected backspace at column 1 to leave the cursor at (1, 2); got (%d, %d)", x, y)
	}

	term.Write([]byte("\r\b"))
	if cons.chars[0] != 'a' || cons.chars[1] != 'b' {
		t.Fatal("expected backspace not to erase cells on the previous line")
	}
}

func TestVtColorsAndClear(t *testing.T) {
	cons := newMockConsole(80, 25)
	term := NewVT(8, 0)

	// Clear without a console is a no-op
	term.Clear()

	term.AttachTo(cons)
	term.SetState(StateActive)

	if fg, bg := term.Colors(); fg != cons.fg || bg != cons.bg {
		t.Fatalf("expected initial colors to match console defaults; got fg:%d bg:%d", fg, bg)
	}

	term.Write([]byte("hello"))
	term.SetColors(0x1f, 0x14)
	if fg, bg := term.Colors(); fg != 0xf || bg != 0x4 {
		t.Fatalf("expected colors to be masked to fg:15 bg:4; got fg:%d bg:%d", fg, bg)
	}

	term.Clear()
	if x, y := term.CursorPosition(); x != 1 || y != 1 {
		t.Fatalf("expected Clear to home the cursor; got (%d, %d)", x, y)
	}

	for index := range cons.chars {
		if cons.chars[index] != ' ' || cons.fgAttrs[index] != 0xf || cons.bgAttrs[index] != 0x4 {
			t.Fatalf("expected console cell %d to be cleared with the current colors", index)
		}
	}

	for offset := 0; offset < len(term.data); offset += 3 {
		if term.data[offset] != ' ' || term.data[offset+1] != 0xf || term.data[offset+2] != 0x4 {
			t.Fatalf("expected terminal cell at offset %d to be cleared with the current colors", offset)
		}
	}
}

func TestVtScrollUsesCurrentColors(t *testing.T) {
	cons := newMockConsole(80, 25)
	term := NewVT(8, 0)
	term.AttachTo(cons)
	term.SetState(StateActive)
	term.SetColors(2, 1)

	term.SetCursorPosition(1, 25)
	term.WriteByte('\n')

	last := 24 * cons.width
	if cons.fgAttrs[last] != 2 || cons.bgAttrs[last] != 1 {
		t.Fatalf("expected scrolled-in console line to use fg:2 bg:1; got fg:%d bg:%d", cons.fgAttrs[last], cons.bgAttrs[last])
	}

	offset := term.dataOffset
	if term.data[offset+1] != 2 || term.data[offset+2] != 1 {
		t.Fatalf("expected scrolled-in terminal line to use fg:2 bg:1; got fg:%d bg:%d", term.data[offset+1], term.data[offset+2])
	}
}

func TestVtCursorSync(t *testing.T) {
	cons := &mockCursorConsole{mockConsole: newMockConsole(80, 25)}
	term := NewVT(8, 0)
	term.AttachTo(cons)

	term.Write([]byte("abc"))
	if cons.cursorUpdates != 0 {
		t.Fatal("expected inactive terminal not to move the hardware cursor")
	}

	term.SetState(StateActive)
	term.Write([]byte("\nxy"))
	if cons.cursorX != 3 || cons.cursorY != 2 {
		t.Fatalf("expected hardware cursor at (3, 2); got (%d, %d)", cons.cursorX, cons.cursorY)
	}
}

func TestVtProtect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	core := mockcpu.NewMockCore(ctrl)
	gomock.InOrder(
		core.EXPECT().InterruptsEnabled().Return(true),
		core.EXPECT().DisableInterrupts(),
		core.EXPECT().EnableInterrupts(),
	)

	term := NewVT(8, 0)
	term.AttachTo(newMockConsole(80, 25))
	term.Protect(core)

	if _, err := term.Write([]byte("protected")); err != nil {
		t.Fatal(err)
	}
}

type mockConsole struct {
	width, height   uint32
	fg, bg          uint8
	chars           []uint8
	fgAttrs         []uint8
	bgAttrs         []uint8
	bytesWritten    int
	scrollUpCount   int
	scrollDownCount int
}

func newMockConsole(w, h uint32) *mockConsole {
	return &mockConsole{
		width:   w,
		height:  h,
		fg:      7,
		bg:      0,
		chars:   make([]uint8, w*h),
		fgAttrs: make([]uint8, w*h),
		bgAttrs: make([]uint8, w*h),
	}
}

func (cons *mockConsole) Dimensions(_ console.Dimension) (uint32, uint32) {
	return cons.width, cons.height
}

func (cons *mockConsole) DefaultColors() (uint8, uint8) {
	return cons.fg, cons.bg
}

func (cons *mockConsole) Fill(x, y, width, height uint32, fg, bg uint8) {
	yEnd := y + height - 1
	xEnd := x + width - 1

	for fy := y; fy <= yEnd; fy++ {
		offset := ((fy - 1) * cons.width)
		for fx := x; fx <= xEnd; fx, offset = fx+1, offset+1 {
			cons.chars[offset] = ' '
			cons.fgAttrs[offset] = fg
			cons.bgAttrs[offset] = bg
		}
	}
}

func (cons *mockConsole) Scroll(dir console.ScrollDir, lines uint32) {
	switch dir {
	case console.ScrollDirUp:
		cons.scrollUpCount++
	case console.ScrollDirDown:
		cons.scrollDownCount++
	}
}

func (cons *mockConsole) Palette() color.Palette {
	return nil
}

func (cons *mockConsole) SetPaletteColor(index uint8, color color.RGBA) {
}

func (cons *mockConsole) Write(b byte, fg, bg uint8, x, y uint32) {
	offset := ((y - 1) * cons.width) + (x - 1)
	cons.chars[offset] = b
	cons.fgAttrs[offset] = fg
	cons.bgAttrs[offset] = bg
	cons.bytesWritten++
}

type mockCursorConsole struct {
	*mockConsole
	cursorX, cursorY uint32
	cursorUpdates    int
}

func (cons *mockCursorConsole) SetCursor(x, y uint32) {
	cons.cursorX, cons.cursorY = x, y
	cons.cursorUpdates++
}
