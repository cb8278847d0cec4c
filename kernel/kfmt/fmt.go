package kfmt

import "io"

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 64

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	lowerDigits = []byte("0123456789abcdef")
	upperDigits = []byte("0123456789ABCDEF")

	// earlyPrintBuffer stores Printf output before the console and TTYs are
	// initialized.
	earlyPrintBuffer earlyLog

	// outputSink is a io.Writer where Printf will send its output. If set
	// to nil, then the output will be redirected to the earlyPrintBuffer.
	outputSink io.Writer
)

// padding describes the width and flags that precede a formatting verb.
type padding struct {
	width int
	left  bool
	zero  bool
}

// SetOutputSink sets the default target for calls to Printf to w and copies
// any data accumulated in the earlyPrintBuffer to it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		earlyPrintBuffer.WriteTo(w)
	}
}

// OutputSink returns the writer currently receiving Printf output or nil if
// output is still being buffered.
func OutputSink() io.Writer {
	return outputSink
}

// Printf provides a minimal Printf implementation for kernel code.
//
// Similar to fmt.Printf, this version of printf supports the following subset
// of formatting verbs:
//
// Strings:
//		%s the uninterpreted bytes of the string or byte slice, or the
//		   result of calling String() on the value
//		%c the character represented by a byte or rune
//
// Integers:
//              %o base 8
//              %d base 10
//              %x base 16, with lower-case letters for a-f
//              %X base 16, with upper-case letters for A-F
//
// Booleans:
//              %t "true" or "false"
//
// Width is specified by an optional decimal number immediately preceding the
// verb. If absent, the width is whatever is necessary to represent the value.
// A '-' flag pads with spaces on the right. A '0' flag pads integers with
// leading zeroes.
//
// Without flags, string values with length less than the specified width
// will be left-padded with spaces. Integer values formatted as base-10 will
// also be left-padded with spaces while integer values formatted as base-8 or
// base-16 will be left-padded with zeroes.
//
// The output of Printf is written to the currently active TTY. If no TTY is
// available, then the output is buffered into a ring-buffer and is flushed
// by the next call to SetOutputSink.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but it writes the formatted output to
// the specified io.Writer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		nextCh               byte
		nextArgIndex         int
		blockStart, blockEnd int
		pad                  padding
		fmtLen               = len(format)
	)

	for blockEnd < fmtLen {
		nextCh = format[blockEnd]
		if nextCh != '%' {
			blockEnd++
			continue
		}

		if blockStart < blockEnd {
			doWrite(w, []byte(format[blockStart:blockEnd]))
		}

		// Scan til we hit the format character
		pad = padding{}
		blockEnd++
	parseFmt:
		for ; blockEnd < fmtLen; blockEnd++ {
			nextCh = format[blockEnd]
			switch {
			case nextCh == '%':
				doWrite(w, []byte{'%'})
				break parseFmt
			case nextCh == '-':
				pad.left = true
				continue
			case nextCh == '0' && pad.width == 0:
				pad.zero = true
				continue
			case nextCh >= '0' && nextCh <= '9':
				pad.width = (pad.width * 10) + int(nextCh-'0')
				continue
			case isVerb(nextCh):
				// Run out of args to print
				if nextArgIndex >= len(args) {
					doWrite(w, errMissingArg)
					break parseFmt
				}

				switch nextCh {
				case 'o':
					fmtInt(w, args[nextArgIndex], 8, false, pad)
				case 'd':
					fmtInt(w, args[nextArgIndex], 10, false, pad)
				case 'x':
					fmtInt(w, args[nextArgIndex], 16, false, pad)
				case 'X':
					fmtInt(w, args[nextArgIndex], 16, true, pad)
				case 's':
					fmtString(w, args[nextArgIndex], pad)
				case 'c':
					fmtChar(w, args[nextArgIndex], pad)
				case 't':
					fmtBool(w, args[nextArgIndex])
				}

				nextArgIndex++
				break parseFmt
			}

			// reached an unknown verb
			doWrite(w, errNoVerb)
			break
		}

		if blockEnd == fmtLen {
			// reached end of formatting string without finding a verb
			doWrite(w, errNoVerb)
		}
		blockStart, blockEnd = blockEnd+1, blockEnd+1
	}

	if blockStart < fmtLen {
		doWrite(w, []byte(format[blockStart:]))
	}

	// Check for unused args
	for ; nextArgIndex < len(args); nextArgIndex++ {
		doWrite(w, errExtraArg)
	}
}

func isVerb(ch byte) bool {
	switch ch {
	case 'd', 'x', 'X', 'o', 's', 'c', 't':
		return true
	}
	return false
}

// fmtBool prints a formatted version of boolean value v.
func fmtBool(w io.Writer, v interface{}) {
	bVal, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case bVal:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString prints a formatted version of string or []byte value v, applying
// the requested padding.
func fmtString(w io.Writer, v interface{}, pad padding) {
	var data []byte
	switch castedVal := v.(type) {
	case string:
		data = []byte(castedVal)
	case []byte:
		data = castedVal
	case interface{ String() string }:
		data = []byte(castedVal.String())
	default:
		doWrite(w, errWrongArgType)
		return
	}

	fmtPadded(w, data, pad)
}

// fmtChar prints the character stored in a byte, rune or int value.
func fmtChar(w io.Writer, v interface{}, pad padding) {
	var ch byte
	switch castedVal := v.(type) {
	case uint8:
		ch = castedVal
	case int32:
		ch = runeToByte(castedVal)
	case int:
		ch = runeToByte(rune(castedVal))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	fmtPadded(w, []byte{ch}, pad)
}

func runeToByte(r rune) byte {
	if r < 0 || r > 0xff {
		return '?'
	}
	return byte(r)
}

// fmtPadded writes data padded with spaces to the requested width.
func fmtPadded(w io.Writer, data []byte, pad padding) {
	if pad.left {
		doWrite(w, data)
		fmtRepeat(w, ' ', pad.width-len(data))
		return
	}

	fmtRepeat(w, ' ', pad.width-len(data))
	doWrite(w, data)
}

// fmtRepeat writes count bytes with value ch.
func fmtRepeat(w io.Writer, ch byte, count int) {
	if count <= 0 {
		return
	}

	buf := make([]byte, count)
	for i := range buf {
		buf[i] = ch
	}
	doWrite(w, buf)
}

// fmtInt prints out a formatted version of v in the requested base, applying
// the requested padding. This function supports all built-in signed and
// unsigned integer types and base 8, 10 and 16 output.
func fmtInt(w io.Writer, v interface{}, base int, upper bool, pad padding) {
	var (
		sval   int64
		uval   uint64
		buf    [maxBufSize]byte
		digits = lowerDigits
		padCh  = byte(' ')
		end    = maxBufSize
	)

	switch castedVal := v.(type) {
	case uint8:
		uval = uint64(castedVal)
	case uint16:
		uval = uint64(castedVal)
	case uint32:
		uval = uint64(castedVal)
	case uint64:
		uval = castedVal
	case uint:
		uval = uint64(castedVal)
	case uintptr:
		uval = uint64(castedVal)
	case int8:
		sval = int64(castedVal)
	case int16:
		sval = int64(castedVal)
	case int32:
		sval = int64(castedVal)
	case int64:
		sval = castedVal
	case int:
		sval = int64(castedVal)
	default:
		doWrite(w, errWrongArgType)
		return
	}

	// Handle signs
	if sval < 0 {
		uval = uint64(-sval)
	} else if sval > 0 {
		uval = uint64(sval)
	}

	if upper {
		digits = upperDigits
	}

	for {
		end--
		buf[end] = digits[uval%uint64(base)]
		uval /= uint64(base)
		if uval == 0 {
			break
		}
	}

	if pad.width >= maxBufSize {
		pad.width = maxBufSize - 1
	}

	numLen := maxBufSize - end
	if sval < 0 {
		numLen++
	}

	if !pad.left && (pad.zero || base != 10) {
		padCh = '0'
	}

	switch {
	case pad.left:
		if sval < 0 {
			end--
			buf[end] = '-'
		}
		doWrite(w, buf[end:])
		fmtRepeat(w, ' ', pad.width-numLen)
	case padCh == '0':
		for i := numLen; i < pad.width; i++ {
			end--
			buf[end] = '0'
		}
		if sval < 0 {
			end--
			buf[end] = '-'
		}
		doWrite(w, buf[end:])
	default:
		if sval < 0 {
			end--
			buf[end] = '-'
		}
		fmtRepeat(w, ' ', pad.width-numLen)
		doWrite(w, buf[end:])
	}
}

// doWrite sends p to w or, if w is nil, to the early print buffer.
func doWrite(w io.Writer, p []byte) {
	if w != nil {
		w.Write(p)
		return
	}

	earlyPrintBuffer.Write(p)
}
