package console

import (
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// substitute is written for runes that have no CP437 glyph.
const substitute = '?'

// TextWriter converts UTF-8 text into the CP437 character codes understood
// by the VGA text console. Multi-byte runes split across writes are held
// back until they are complete.
type TextWriter struct {
	w       io.Writer
	pending []byte
	out     []byte
}

// NewTextWriter returns a TextWriter that forwards encoded text to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Write implements io.Writer. The returned count refers to bytes of p.
func (tw *TextWriter) Write(p []byte) (int, error) {
	src := p
	if len(tw.pending) != 0 {
		src = append(tw.pending, p...)
		tw.pending = nil
	}

	tw.out = tw.out[:0]
	for len(src) > 0 {
		if src[0] < utf8.RuneSelf {
			tw.out = append(tw.out, src[0])
			src = src[1:]
			continue
		}

		if !utf8.FullRune(src) {
			tw.pending = append(tw.pending[:0], src...)
			break
		}

		r, size := utf8.DecodeRune(src)
		tw.out = append(tw.out, EncodeRune(r))
		src = src[size:]
	}

	if _, err := tw.w.Write(tw.out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EncodeRune returns the CP437 code for r or '?' if the code page has no
// glyph for it.
func EncodeRune(r rune) byte {
	if r < utf8.RuneSelf {
		return byte(r)
	}

	if b, ok := charmap.CodePage437.EncodeRune(r); ok {
		return b
	}
	return substitute
}

// DecodeByte returns the rune displayed for CP437 code b.
func DecodeByte(b byte) rune {
	if b < utf8.RuneSelf {
		return rune(b)
	}
	return charmap.CodePage437.DecodeByte(b)
}
