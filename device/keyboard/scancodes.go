package keyboard

// Set-1 make codes for the keys the driver tracks.
const (
	scanLCtrl    uint8 = 0x1D
	scanLShift   uint8 = 0x2A
	scanRShift   uint8 = 0x36
	scanLAlt     uint8 = 0x38
	scanCapsLock uint8 = 0x3A

	scanUp    uint8 = 0x48
	scanLeft  uint8 = 0x4B
	scanRight uint8 = 0x4D
	scanDown  uint8 = 0x50

	scanExtended uint8 = 0xE0
	scanRelease  uint8 = 0x80
)

// Codes delivered for keys without an ASCII representation.
const (
	KeyCtrlC byte = 0x03
	KeyUp    byte = 0x80
	KeyDown  byte = 0x81
	KeyLeft  byte = 0x82
	KeyRight byte = 0x83
)

// US layout, unshifted.
var asciiLower = [128]byte{
	0, 0, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', '\b',
	'\t', 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', '\n',
	0, 'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`',
	0, '\\', 'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0,
	'*', 0, ' ', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, '-', 0, 0, 0, '+',
}

// US layout, shifted.
var asciiUpper = [128]byte{
	0, 0, '!', '@', '#', '$', '%', '^', '&', '*', '(', ')', '_', '+', '\b',
	'\t', 'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I', 'O', 'P', '{', '}', '\n',
	0, 'A', 'S', 'D', 'F', 'G', 'H', 'J', 'K', 'L', ':', '"', '~',
	0, '|', 'Z', 'X', 'C', 'V', 'B', 'N', 'M', '<', '>', '?', 0,
	'*', 0, ' ', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, '-', 0, 0, 0, '+',
}

// extendedKeys maps 0xE0-prefixed make codes to key codes.
var extendedKeys = map[uint8]byte{
	scanUp:    KeyUp,
	scanDown:  KeyDown,
	scanLeft:  KeyLeft,
	scanRight: KeyRight,
}

const (
	scanEnter     uint8 = 0x1C
	scanBackspace uint8 = 0x0E
	scanC         uint8 = 0x2E
)

// Encode returns the make and break codes that type ch on a US keyboard,
// including the shift or ctrl presses it needs. It returns nil for bytes
// that cannot be typed.
func Encode(ch byte) []uint8 {
	switch ch {
	case '\r', '\n':
		return []uint8{scanEnter, scanEnter | scanRelease}
	case 0x7F, '\b':
		return []uint8{scanBackspace, scanBackspace | scanRelease}
	case KeyCtrlC:
		return []uint8{scanLCtrl, scanC, scanC | scanRelease, scanLCtrl | scanRelease}
	}

	for code, key := range extendedKeys {
		if key == ch {
			return []uint8{scanExtended, code, scanExtended, code | scanRelease}
		}
	}

	for code := 1; code < len(asciiLower); code++ {
		if asciiLower[code] == ch {
			return []uint8{uint8(code), uint8(code) | scanRelease}
		}
	}

	for code := 1; code < len(asciiUpper); code++ {
		if asciiUpper[code] == ch {
			return []uint8{scanLShift, uint8(code), uint8(code) | scanRelease, scanLShift | scanRelease}
		}
	}

	return nil
}

// EncodeString concatenates the sequences produced by Encode for every byte
// of s. Bytes that cannot be typed are skipped.
func EncodeString(s string) []uint8 {
	var codes []uint8
	for i := 0; i < len(s); i++ {
		codes = append(codes, Encode(s[i])...)
	}
	return codes
}
