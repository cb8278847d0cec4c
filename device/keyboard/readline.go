package keyboard

import "io"

// History gives the line editor read access to previously entered lines,
// oldest first.
type History interface {
	Len() int
	Entry(index int) string
}

// ReadLine reads keys until Enter and returns the edited line. Printable
// characters are echoed to w, backspace erases the last character and the
// up/down keys replace the line with entries from hist (which may be nil).
// The line never exceeds max-1 characters; once that length is reached the
// line is returned without waiting for Enter.
func (kb *PS2) ReadLine(w io.Writer, max int, hist History) string {
	if max <= 0 {
		return ""
	}

	var (
		line    = make([]byte, 0, max)
		histPos = 0
	)
	if hist != nil {
		histPos = hist.Len()
	}

	replace := func(entry string) {
		for range line {
			io.WriteString(w, "\b \b")
		}
		if len(entry) > max-1 {
			entry = entry[:max-1]
		}
		line = append(line[:0], entry...)
		io.WriteString(w, entry)
	}

	for len(line) < max-1 {
		switch ch := kb.ReadChar(); {
		case ch == '\n' || ch == '\r':
			io.WriteString(w, "\n")
			return string(line)
		case ch == '\b':
			if len(line) > 0 {
				line = line[:len(line)-1]
				io.WriteString(w, "\b \b")
			}
		case ch == KeyUp:
			if hist != nil && histPos > 0 {
				histPos--
				replace(hist.Entry(histPos))
			}
		case ch == KeyDown:
			if hist == nil || histPos >= hist.Len() {
				break
			}
			histPos++
			if histPos == hist.Len() {
				replace("")
			} else {
				replace(hist.Entry(histPos))
			}
		case ch >= 32 && ch < 127:
			line = append(line, ch)
			w.Write([]byte{ch})
		}
	}

	return string(line)
}
